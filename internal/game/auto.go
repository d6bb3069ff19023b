package game

import (
	"sort"

	"github.com/peterkuimelis/pipduel/internal/planner"
)

// Hint runs the planner over side's hand and board without changing anything.
func (m *Match) Hint(side int) planner.Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hint(side)
}

// hint builds the planner's view of side. Only face-up cards count on the
// board; face-down and revealed slots are neither scored nor free.
// Caller must hold m.mu.
func (m *Match) hint(side int) planner.Plan {
	cards := m.hands[side].Cards()
	hand := make([]planner.Card, len(cards))
	for i, c := range cards {
		hand[i] = planner.Card{Pip: c.Pip, Wild: c.Wild}
	}
	board := make([]planner.Card, len(m.slots[side]))
	var empty []int
	for i, s := range m.slots[side] {
		switch {
		case !s.HasCard():
			empty = append(empty, i)
		case s.HasVisibleCard():
			c, _ := s.Card()
			board[i] = planner.Card{Pip: c.Pip, Wild: c.Wild}
		}
	}
	return m.planner.Plan(hand, empty, board)
}

// AutoPlay places side's planned attack face-up and defense face-down, then
// ends the turn. It is how the opponent takes its turns.
func (m *Match) AutoPlay(side int) (*Outcome, error) {
	m.mu.Lock()
	if err := m.mutable(side); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	plan := m.hint(side)
	m.mu.Unlock()

	type move struct {
		planner.Placement
		faceDown bool
	}
	moves := make([]move, 0, len(plan.Attack)+len(plan.Defense))
	for _, p := range plan.Attack {
		moves = append(moves, move{p, false})
	}
	for _, p := range plan.Defense {
		moves = append(moves, move{p, true})
	}
	// Highest hand index first so earlier removals don't shift later ones.
	sort.Slice(moves, func(i, j int) bool { return moves[i].Card > moves[j].Card })
	for _, mv := range moves {
		if err := m.Place(side, mv.Card, mv.Slot, mv.faceDown); err != nil {
			return nil, err
		}
	}

	return m.EndTurnFor(side)
}
