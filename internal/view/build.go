package view

import (
	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
	"github.com/peterkuimelis/pipduel/internal/planner"
)

// BuildStateView creates a StateView from the perspective of the given side.
func BuildStateView(m *game.Match, side int) *StateView {
	return StateViewOf(m.Snapshot(), side)
}

// StateViewOf renders a snapshot for side, hiding what side cannot see.
func StateViewOf(snap game.Snapshot, side int) *StateView {
	st := snap.State
	sv := &StateView{
		MatchID:       snap.ID,
		Turn:          st.Turn,
		IsYourTurn:    st.Active() == side && !snap.Over,
		TurnTimer:     st.TurnTimer,
		Transitioning: st.IsTransitioning,
		GameOver:      snap.Over,
		Winner:        snap.Winner,
		Result:        snap.Result,
	}
	sv.You = playerView(snap, side, true)
	sv.Opponent = playerView(snap, game.Opponent(side), false)
	return sv
}

func playerView(snap game.Snapshot, side int, isOwner bool) PlayerView {
	hand := snap.Hands[side]
	board := snap.Boards[side]
	pv := PlayerView{
		HP:          snap.HP.Current[side],
		MaxHP:       snap.HP.Max,
		HandCount:   len(hand),
		Board:       NewEvaluationView(board),
		PendingDraw: snap.State.PendingDrawCount[side],
	}
	if isOwner {
		for i, c := range hand {
			pv.Hand = append(pv.Hand, NewCardView(i, c))
		}
	}
	for i, s := range snap.Slots[side] {
		sv := SlotZoneView(i, s, isOwner)
		sv.Contribute = i < len(board.Mask) && board.Mask[i]
		pv.Slots = append(pv.Slots, sv)
	}
	return pv
}

// SlotZoneView creates a SlotView, hiding face-down cards from the non-owner.
func SlotZoneView(i int, s game.SlotView, isOwner bool) SlotView {
	switch {
	case s.State == game.SlotEmpty:
		return SlotView{Index: i, Empty: true}
	case s.FaceDown && !isOwner:
		return SlotView{Index: i, FaceDown: true}
	}
	cv := NewCardView(i, s.Card)
	return SlotView{
		Index:    i,
		FaceDown: s.FaceDown,
		Revealed: s.State == game.SlotRevealedOnly,
		Card:     &cv,
	}
}

func NewCardView(i int, c game.Card) CardView {
	return CardView{
		Index: i,
		Name:  c.String(),
		Face:  c.Face(),
		Pip:   c.Pip,
		Wild:  c.Wild,
		Role:  c.Role.String(),
	}
}

func NewEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Rule:    e.Rule,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// NewEventViews converts events, never returning nil so JSON shows [].
func NewEventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventView(e))
	}
	return out
}

func NewEvaluationView(r combo.Result) EvaluationView {
	mask := r.Mask
	if mask == nil {
		mask = []bool{}
	}
	return EvaluationView{Rule: r.Rule.String(), Score: r.Score, Mask: mask, Pips: r.Pips}
}

func NewPlanView(p planner.Plan) *PlanView {
	pv := &PlanView{
		Attack:      p.Attack,
		AttackRule:  p.AttackResult.Rule.String(),
		AttackScore: p.AttackResult.Score,
		Defense:     p.Defense,
	}
	if pv.Attack == nil {
		pv.Attack = []planner.Placement{}
	}
	if pv.Defense == nil {
		pv.Defense = []planner.Placement{}
	} else {
		pv.DefenseRule = p.DefenseResult.Rule.String()
		pv.DefenseScore = p.DefenseResult.Score
	}
	return pv
}

func NewOutcomeView(o *game.Outcome) *OutcomeView {
	if o == nil {
		return nil
	}
	ov := &OutcomeView{
		Attacker:  o.Attacker,
		Kind:      o.Kind.String(),
		Attack:    NewEvaluationView(o.Attack),
		Winner:    o.Winner,
		Score:     o.Score,
		Damage:    o.Damage,
		Heal:      o.Heal,
		HP:        o.HP,
		HPDelta:   o.HPDelta,
		NextDraw:  o.NextDraw,
		RuleNames: o.RuleNames,
	}
	if o.Defense != nil {
		d := NewEvaluationView(*o.Defense)
		ov.Defense = &d
	}
	if o.Ambush != nil {
		a := NewEvaluationView(*o.Ambush)
		ov.Ambush = &a
	}
	return ov
}
