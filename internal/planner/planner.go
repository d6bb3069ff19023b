// Package planner searches for card placements that reach the strongest combination.
//
// The search is exhaustive over subsets of the hand, so its cost grows as
// 2^len(hand) evaluations, each of which also enumerates wild assignments.
// Hands hold at most ten cards and boards at most eight slots, which keeps a
// full search well under a million evaluations.
package planner

import (
	"github.com/peterkuimelis/pipduel/internal/combo"
)

// Card is the part of a card the search needs.
type Card struct {
	Pip  int
	Wild bool
}

// Empty reports whether c stands for an unoccupied board position.
func (c Card) Empty() bool {
	return c.Pip == 0 && !c.Wild
}

// Placement moves the hand card at index Card into board slot Slot.
type Placement struct {
	Card int `json:"card"`
	Slot int `json:"slot"`
}

// Plan is a full turn: attack cards go face-up onto the board, defense cards
// go face-down into the remaining slots.
type Plan struct {
	Attack        []Placement
	AttackResult  combo.Result
	Defense       []Placement
	DefenseResult combo.Result
}

type Planner struct {
	ev *combo.Evaluator
}

func New(ev *combo.Evaluator) *Planner {
	return &Planner{ev: ev}
}

// candidate is one simulated placement.
type candidate struct {
	cards  []int
	result combo.Result
}

// better ranks by category, then fewer cards, then raw score.
func (c candidate) better(o *candidate) bool {
	if o == nil {
		return true
	}
	if c.result.Rule != o.result.Rule {
		return c.result.Rule > o.result.Rule
	}
	if len(c.cards) != len(o.cards) {
		return len(c.cards) < len(o.cards)
	}
	return c.result.Score > o.result.Score
}

// FindBestPlacement returns the placements that give the board its highest
// ranked combination. When nothing above High Card is reachable it places the
// highest pip into the first empty slot. It returns nil when the hand or the
// empty slot list is empty.
func (p *Planner) FindBestPlacement(hand []Card, emptySlots []int, board []Card) []Placement {
	placements, _ := p.bestPlacement(hand, emptySlots, board)
	return placements
}

func (p *Planner) bestPlacement(hand []Card, emptySlots []int, board []Card) ([]Placement, combo.Result) {
	if len(hand) == 0 || len(emptySlots) == 0 {
		return nil, combo.Result{}
	}
	all := make([]int, len(hand))
	for i := range all {
		all[i] = i
	}
	best := p.search(hand, all, emptySlots, board)
	if best == nil || best.result.Rule <= combo.RuleHighCard {
		i := highestCard(hand, all)
		sim := simulate(board, hand, []int{i}, emptySlots[:1])
		return []Placement{{Card: i, Slot: emptySlots[0]}}, p.evaluate(sim)
	}
	return assign(best.cards, emptySlots), best.result
}

// FindDefensePlacement returns face-down placements for the hand cards not in
// used, scored in isolation from the board. It returns nil when no defense
// reaches One Pair.
func (p *Planner) FindDefensePlacement(hand []Card, emptySlots []int, used []int) []Placement {
	placements, _ := p.defensePlacement(hand, emptySlots, used)
	return placements
}

func (p *Planner) defensePlacement(hand []Card, emptySlots []int, used []int) ([]Placement, combo.Result) {
	taken := make(map[int]bool, len(used))
	for _, i := range used {
		taken[i] = true
	}
	var pool []int
	for i := range hand {
		if !taken[i] {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 || len(emptySlots) == 0 {
		return nil, combo.Result{}
	}
	best := p.search(hand, pool, emptySlots, nil)
	if best == nil || best.result.Rule <= combo.RuleHighCard {
		return nil, combo.Result{}
	}
	return assign(best.cards, emptySlots), best.result
}

// Plan picks an attack, then a defense from the cards and slots left over.
func (p *Planner) Plan(hand []Card, emptySlots []int, board []Card) Plan {
	var plan Plan
	plan.Attack, plan.AttackResult = p.bestPlacement(hand, emptySlots, board)

	used := make([]int, 0, len(plan.Attack))
	filled := make(map[int]bool, len(plan.Attack))
	for _, pl := range plan.Attack {
		used = append(used, pl.Card)
		filled[pl.Slot] = true
	}
	var free []int
	for _, s := range emptySlots {
		if !filled[s] {
			free = append(free, s)
		}
	}
	plan.Defense, plan.DefenseResult = p.defensePlacement(hand, free, used)
	return plan
}

// search walks every k-subset of pool for k = 1..min(len(pool), len(slots)).
// The evaluator ignores order, so each subset only needs to be tried in the
// first k slots; any other choice of slots yields the same score.
func (p *Planner) search(hand []Card, pool []int, slots []int, board []Card) *candidate {
	var best *candidate
	maxK := min(len(pool), len(slots))
	for k := 1; k <= maxK; k++ {
		combinations(len(pool), k, func(idx []int) {
			cards := make([]int, k)
			for i, j := range idx {
				cards[i] = pool[j]
			}
			c := candidate{cards: cards, result: p.evaluate(simulate(board, hand, cards, slots[:k]))}
			if c.better(best) {
				best = &c
			}
		})
	}
	return best
}

func (p *Planner) evaluate(board []Card) combo.Result {
	pips := make([]int, len(board))
	wild := make([]bool, len(board))
	for i, c := range board {
		pips[i] = c.Pip
		wild[i] = c.Wild
	}
	return p.ev.Evaluate(pips, wild)
}

// simulate returns a copy of board with hand[cards[i]] placed at slots[i].
func simulate(board []Card, hand []Card, cards []int, slots []int) []Card {
	size := len(board)
	for _, s := range slots {
		size = max(size, s+1)
	}
	out := make([]Card, size)
	copy(out, board)
	for i, s := range slots {
		out[s] = hand[cards[i]]
	}
	return out
}

func assign(cards []int, slots []int) []Placement {
	out := make([]Placement, len(cards))
	for i, c := range cards {
		out[i] = Placement{Card: c, Slot: slots[i]}
	}
	return out
}

// highestCard prefers the highest fixed pip and falls back to the first wild.
func highestCard(hand []Card, pool []int) int {
	best := -1
	for _, i := range pool {
		if hand[i].Wild {
			continue
		}
		if best < 0 || hand[i].Pip > hand[best].Pip {
			best = i
		}
	}
	if best < 0 {
		return pool[0]
	}
	return best
}

// combinations calls fn with every k-subset of 0..n-1 in lexicographic order.
// fn must not retain idx.
func combinations(n, k int, fn func(idx []int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
