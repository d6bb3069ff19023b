package game

import (
	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
)

// ResolutionState is a step of the turn resolution sequence.
type ResolutionState int

const (
	StateIdle ResolutionState = iota
	StateEvaluating
	StateDefending
	StateDefenseResolved
	StateResolving
	StateDrawPending
)

func (s ResolutionState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateEvaluating:
		return "Evaluating"
	case StateDefending:
		return "Defending"
	case StateDefenseResolved:
		return "DefenseResolved"
	case StateResolving:
		return "Resolving"
	case StateDrawPending:
		return "DrawPending"
	default:
		return "Unknown"
	}
}

// ExchangeKind is how an exchange was decided.
type ExchangeKind int

const (
	ExchangeEmpty   ExchangeKind = iota // attacker committed nothing
	ExchangeDirect                      // no defense, full score
	ExchangeReduced                     // defense subtracted from the attack
	ExchangeBlock                       // defense absorbed the whole attack
	ExchangeReflect                     // all-wild defense turned the attack around
	ExchangeAmbush                      // both sides had face-down cards, one won
	ExchangeCancel                      // both sides had face-down cards, tied
)

func (k ExchangeKind) String() string {
	switch k {
	case ExchangeEmpty:
		return "Empty"
	case ExchangeDirect:
		return "Direct"
	case ExchangeReduced:
		return "Reduced"
	case ExchangeBlock:
		return "Block"
	case ExchangeReflect:
		return "Reflect"
	case ExchangeAmbush:
		return "Ambush"
	case ExchangeCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Outcome is everything one turn resolution decided. Indexes of per-side
// arrays are side numbers, not attacker/defender.
type Outcome struct {
	Attacker int
	Kind     ExchangeKind

	Attack  combo.Result  // attacker's face-up cards
	Defense *combo.Result // defender's face-down cards, nil without defense
	Ambush  *combo.Result // attacker's face-down cards in a mutual ambush

	Winner int     // side whose score was applied, -1 if none
	Score  float64 // score applied against the loser
	Damage float64
	Heal   float64

	HP        [2]float64 // after the exchange
	HPDelta   [2]float64
	Played    [2]int
	NextDraw  [2]int
	RuleNames [2]string
	Consumed  [2][]int // slot indexes emptied by the exchange

	Trace []ResolutionState
}

// Resolver runs the turn resolution sequence. It keeps no state between
// calls and never mutates the slots it is given.
type Resolver struct {
	ev    *combo.Evaluator
	rules config.Rules
}

func NewResolver(ev *combo.Evaluator, rules config.Rules) *Resolver {
	return &Resolver{ev: ev, rules: rules}
}

// committed is the subset of a side's slots taking part in an exchange.
type committed struct {
	slots []int
	cards []Card
	size  int // length of the slot row, for mask alignment
}

func collect(slots []*Slot, pick func(*Slot) bool) committed {
	c := committed{size: len(slots)}
	for i, s := range slots {
		if s == nil || !pick(s) {
			continue
		}
		card, _ := s.Card()
		c.slots = append(c.slots, i)
		c.cards = append(c.cards, card)
	}
	return c
}

func (c committed) allWild() bool {
	for _, card := range c.cards {
		if !card.Wild {
			return false
		}
	}
	return len(c.cards) > 0
}

// evaluate scores the committed cards in their slot positions so the
// contribution mask lines up with slot indexes.
func (r *Resolver) evaluate(c committed) combo.Result {
	pips := make([]int, c.size)
	wild := make([]bool, c.size)
	for i, slot := range c.slots {
		pips[slot] = c.cards[i].Pip
		wild[slot] = c.cards[i].Wild
	}
	return r.ev.Evaluate(pips, wild)
}

// ResolveTurn resolves the end of attacker's turn. Missing slots count as empty.
func (r *Resolver) ResolveTurn(attacker int, attackerSlots, defenderSlots []*Slot, hp HPState) Outcome {
	defender := Opponent(attacker)
	out := Outcome{Attacker: attacker, Winner: -1, HP: hp.Current, Trace: []ResolutionState{StateIdle}}
	enter := func(s ResolutionState) { out.Trace = append(out.Trace, s) }

	enter(StateEvaluating)
	attack := collect(attackerSlots, (*Slot).HasVisibleCard)
	ambush := collect(attackerSlots, (*Slot).IsFaceDown)
	defense := collect(defenderSlots, (*Slot).IsFaceDown)
	out.Attack = r.evaluate(attack)
	out.RuleNames[attacker] = out.Attack.Rule.String()

	// Face-up and revealed cards leave the attacker's row at every turn end.
	out.Consumed[attacker] = collect(attackerSlots, func(s *Slot) bool { return s.HasCard() && !s.IsFaceDown() }).slots
	out.Played[attacker] = len(attack.cards)

	var winning committed
	mutual := len(ambush.cards) > 0 && len(defense.cards) > 0

	switch {
	case mutual:
		enter(StateDefending)
		amb := r.evaluate(ambush)
		def := r.evaluate(defense)
		out.Ambush, out.Defense = &amb, &def
		out.RuleNames[attacker] = amb.Rule.String()
		out.RuleNames[defender] = def.Rule.String()
		out.Consumed[attacker] = append(out.Consumed[attacker], ambush.slots...)
		out.Consumed[defender] = defense.slots
		out.Played[attacker] += len(ambush.cards)
		out.Played[defender] = len(defense.cards)
		switch {
		case amb.Score > def.Score:
			out.Kind, out.Winner, out.Score, winning = ExchangeAmbush, attacker, amb.Score, ambush
		case def.Score > amb.Score:
			out.Kind, out.Winner, out.Score, winning = ExchangeAmbush, defender, def.Score, defense
		default:
			out.Kind = ExchangeCancel
		}
		enter(StateDefenseResolved)

	case len(attack.cards) == 0:
		out.Kind = ExchangeEmpty

	case len(defense.cards) > 0:
		enter(StateDefending)
		def := r.evaluate(defense)
		out.Defense = &def
		out.RuleNames[defender] = def.Rule.String()
		out.Consumed[defender] = defense.slots
		out.Played[defender] = len(defense.cards)
		switch {
		case defense.allWild() && def.Score >= out.Attack.Score:
			out.Kind, out.Winner, out.Score, winning = ExchangeReflect, defender, def.Score, defense
		case out.Attack.Score-def.Score <= 0:
			out.Kind = ExchangeBlock
		default:
			out.Kind, out.Winner, out.Score, winning = ExchangeReduced, attacker, out.Attack.Score-def.Score, attack
		}
		enter(StateDefenseResolved)

	default:
		out.Kind, out.Winner, out.Score, winning = ExchangeDirect, attacker, out.Attack.Score, attack
	}

	enter(StateResolving)
	if out.Winner >= 0 {
		out.Damage, out.Heal = r.split(out.Score, winning.cards)
		loser := Opponent(out.Winner)
		hp.Damage(loser, out.Damage)
		hp.Heal(out.Winner, out.Heal)
	}
	for side := range out.HP {
		out.HPDelta[side] = hp.Current[side] - out.HP[side]
	}
	out.HP = hp.Current

	enter(StateDrawPending)
	for side := range out.NextDraw {
		out.NextDraw[side] = r.drawCount(out, side)
	}

	enter(StateIdle)
	return out
}

// split divides score across the winning cards by role. Each role's share is
// weighted independently, so criticals push the total above score.
func (r *Resolver) split(score float64, cards []Card) (damage, heal float64) {
	if len(cards) == 0 {
		return 0, 0
	}
	var counts [3]float64
	for _, c := range cards {
		role := c.Role
		if role < RoleAttack || role > RoleHeal {
			role = RoleAttack
		}
		counts[role]++
	}
	total := float64(len(cards))
	w := r.rules.Roles
	damage = score*(counts[RoleAttack]/total)*w.Attack + score*(counts[RoleCritical]/total)*w.Critical
	heal = score * (counts[RoleHeal] / total) * w.Heal
	return damage, heal
}

// drawCount is max(played-1, minimum), plus the score tier bonus for the winner.
func (r *Resolver) drawCount(out Outcome, side int) int {
	d := r.rules.Draw
	n := max(out.Played[side]-1, d.Minimum)
	if out.Winner != side {
		return n
	}
	bonus := 0
	switch {
	case out.Score >= d.TierTwo:
		bonus = 2
	case out.Score >= d.TierOne:
		bonus = 1
	}
	return n + min(bonus, d.MaxBonus)
}
