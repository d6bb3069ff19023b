package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
)

func fullHP() HPState {
	return NewHPState(config.Default().Match.MaxHP)
}

// TestResolveDirect: an unanswered Triple of 4s deals its full score.
func TestResolveDirect(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(4)), up(atk(4)), up(atk(4))),
		row(),
		fullHP())

	assert.Equal(t, ExchangeDirect, out.Kind)
	assert.Equal(t, combo.RuleTriple, out.Attack.Rule)
	assert.Equal(t, SidePlayer, out.Winner)
	assert.InDelta(t, 48, out.Damage, 1e-9)
	assert.Zero(t, out.Heal)
	assert.InDelta(t, 952, out.HP[SideOpponent], 1e-9)
	assert.InDelta(t, -48, out.HPDelta[SideOpponent], 1e-9)
	assert.Equal(t, []int{0, 1, 2}, out.Consumed[SidePlayer])
	assert.Empty(t, out.Consumed[SideOpponent])

	// Three cards played draw two, plus one for a score past the first tier.
	assert.Equal(t, 3, out.NextDraw[SidePlayer])
	assert.Equal(t, 1, out.NextDraw[SideOpponent])

	assert.Equal(t, []ResolutionState{StateIdle, StateEvaluating, StateResolving, StateDrawPending, StateIdle}, out.Trace)
}

func TestResolveMaskAlignsWithSlots(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(4)), NewSlot(), up(atk(4)), NewSlot(), up(atk(1))),
		row(),
		fullHP())

	require.Equal(t, combo.RuleOnePair, out.Attack.Rule)
	assert.Equal(t, []bool{true, false, true, false, false}, out.Attack.Mask)
}

func TestResolveReduced(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(4)), up(atk(4)), up(atk(4))),
		row(down(atk(2)), down(atk(2))),
		fullHP())

	assert.Equal(t, ExchangeReduced, out.Kind)
	require.NotNil(t, out.Defense)
	assert.Equal(t, combo.RuleOnePair, out.Defense.Rule)
	assert.InDelta(t, 34, out.Score, 1e-9)
	assert.InDelta(t, 966, out.HP[SideOpponent], 1e-9)
	assert.Equal(t, []int{0, 1}, out.Consumed[SideOpponent])
	assert.Equal(t, 2, out.NextDraw[SidePlayer])
	assert.Equal(t, 1, out.NextDraw[SideOpponent])
	assert.Equal(t, []ResolutionState{
		StateIdle, StateEvaluating, StateDefending, StateDefenseResolved,
		StateResolving, StateDrawPending, StateIdle,
	}, out.Trace)
}

func TestResolveBlock(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(2)), up(atk(2))),
		row(down(atk(6)), down(atk(6))),
		fullHP())

	assert.Equal(t, ExchangeBlock, out.Kind)
	assert.Equal(t, -1, out.Winner)
	assert.Equal(t, fullHP().Current, out.HP)
	assert.Equal(t, [2]int{1, 1}, out.NextDraw)
}

// TestResolveReflect: an all-wild defense at least as strong as the attack
// sends its own score back at the attacker.
func TestResolveReflect(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(2)), up(atk(2))),
		row(down(joker(RoleAttack)), down(joker(RoleAttack))),
		fullHP())

	assert.Equal(t, ExchangeReflect, out.Kind)
	assert.Equal(t, SideOpponent, out.Winner)
	assert.InDelta(t, 22, out.Score, 1e-9)
	assert.InDelta(t, 978, out.HP[SidePlayer], 1e-9)
	assert.InDelta(t, 1000, out.HP[SideOpponent], 1e-9)
}

func TestResolveMixedWildDefenseDoesNotReflect(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(2)), up(atk(2))),
		row(down(atk(6)), down(joker(RoleAttack))),
		fullHP())

	assert.Equal(t, ExchangeBlock, out.Kind)
	assert.Equal(t, fullHP().Current, out.HP)
}

func TestResolveMutualAmbushCancel(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(5)), down(atk(3)), down(atk(3))),
		row(down(atk(3)), down(atk(3))),
		fullHP())

	assert.Equal(t, ExchangeCancel, out.Kind)
	assert.Equal(t, -1, out.Winner)
	require.NotNil(t, out.Ambush)
	require.NotNil(t, out.Defense)
	assert.Equal(t, out.Ambush.Score, out.Defense.Score)
	assert.Equal(t, fullHP().Current, out.HP)

	// The face-up card is spent without scoring, both ambushes are spent.
	assert.Equal(t, []int{0, 1, 2}, out.Consumed[SidePlayer])
	assert.Equal(t, []int{0, 1}, out.Consumed[SideOpponent])
	assert.Equal(t, 2, out.NextDraw[SidePlayer])
	assert.Equal(t, 1, out.NextDraw[SideOpponent])
}

func TestResolveMutualAmbushWin(t *testing.T) {
	t.Run("attacker", func(t *testing.T) {
		out := newResolver().ResolveTurn(SidePlayer,
			row(down(atk(5)), down(atk(5))),
			row(down(atk(2)), down(atk(2))),
			fullHP())
		assert.Equal(t, ExchangeAmbush, out.Kind)
		assert.Equal(t, SidePlayer, out.Winner)
		assert.InDelta(t, 20, out.Damage, 1e-9)
		assert.InDelta(t, 980, out.HP[SideOpponent], 1e-9)
		assert.Equal(t, combo.RuleNone, out.Attack.Rule)
	})

	t.Run("defender", func(t *testing.T) {
		out := newResolver().ResolveTurn(SideOpponent,
			row(down(atk(2)), down(atk(2))),
			row(down(atk(5)), down(atk(5))),
			fullHP())
		assert.Equal(t, ExchangeAmbush, out.Kind)
		assert.Equal(t, SidePlayer, out.Winner)
		assert.InDelta(t, 980, out.HP[SideOpponent], 1e-9)
		assert.Equal(t, "One Pair", out.RuleNames[SidePlayer])
	})
}

func TestResolveCriticalDoubles(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(crit(4)), up(crit(4)), up(crit(4))),
		row(),
		fullHP())

	assert.InDelta(t, 48, out.Score, 1e-9)
	assert.InDelta(t, 96, out.Damage, 1e-9)
	assert.InDelta(t, 904, out.HP[SideOpponent], 1e-9)
}

func TestResolveHealSplitAndCap(t *testing.T) {
	hp := fullHP()
	hp.Current[SidePlayer] = 990

	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(4)), up(atk(4)), up(heal(4))),
		row(),
		hp)

	assert.InDelta(t, 32, out.Damage, 1e-9)
	assert.InDelta(t, 16, out.Heal, 1e-9)
	assert.InDelta(t, 1000, out.HP[SidePlayer], 1e-9)
	assert.InDelta(t, 10, out.HPDelta[SidePlayer], 1e-9)
	assert.InDelta(t, 968, out.HP[SideOpponent], 1e-9)
}

func TestResolveDamageClampsAtZero(t *testing.T) {
	hp := fullHP()
	hp.Current[SideOpponent] = 10

	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(4)), up(atk(4)), up(atk(4))),
		row(),
		hp)

	assert.Zero(t, out.HP[SideOpponent])
	assert.InDelta(t, -10, out.HPDelta[SideOpponent], 1e-9)
}

// TestResolveEmpty: with nothing face-up and no ambush, only revealed cards
// leave the row and the defender keeps its face-down cards.
func TestResolveEmpty(t *testing.T) {
	shown := up(atk(6))
	require.NoError(t, shown.Reveal())

	out := newResolver().ResolveTurn(SidePlayer,
		row(shown),
		row(down(atk(2)), down(atk(2))),
		fullHP())

	assert.Equal(t, ExchangeEmpty, out.Kind)
	assert.Nil(t, out.Defense)
	assert.Equal(t, []int{0}, out.Consumed[SidePlayer])
	assert.Empty(t, out.Consumed[SideOpponent])
	assert.Equal(t, [2]int{1, 1}, out.NextDraw)
	assert.Equal(t, []ResolutionState{StateIdle, StateEvaluating, StateResolving, StateDrawPending, StateIdle}, out.Trace)
}

func TestResolveAttackerFaceDownPersists(t *testing.T) {
	out := newResolver().ResolveTurn(SidePlayer,
		row(up(atk(4)), up(atk(4)), down(atk(6))),
		row(),
		fullHP())

	assert.Equal(t, ExchangeDirect, out.Kind)
	assert.Equal(t, []int{0, 1}, out.Consumed[SidePlayer])
}

func TestResolveDoesNotMutateSlots(t *testing.T) {
	attacker := row(up(atk(4)), up(atk(4)))
	defender := row(down(atk(2)))
	newResolver().ResolveTurn(SidePlayer, attacker, defender, fullHP())

	assert.True(t, attacker[0].HasVisibleCard())
	assert.True(t, defender[0].IsFaceDown())
}

func TestDrawBonusCap(t *testing.T) {
	rules := config.Default()
	rules.Draw.MaxBonus = 1
	r := NewResolver(combo.New(rules.Scoring), rules)

	out := r.ResolveTurn(SidePlayer,
		row(up(atk(6)), up(atk(6)), up(atk(6)), up(atk(6)), up(atk(6))),
		row(),
		fullHP())

	require.Equal(t, combo.RuleFiveOfAKind, out.Attack.Rule)
	assert.Equal(t, 5, out.NextDraw[SidePlayer])
}
