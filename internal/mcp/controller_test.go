package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
)

func TestEndTurnAfterMatchOver(t *testing.T) {
	rules := config.Default()
	rules.Match.MaxHP = 1
	strike := &game.Deck{Name: "strike", Pool: []game.Card{{Name: "Strike 6", Pip: 6, Role: game.RoleAttack}}}
	sess, err := NewMatchSession(t.Context(), rules, [2]*game.Deck{strike, strike}, 3, log.NewMemoryLogger())
	require.NoError(t, err)

	require.NoError(t, sess.match.Place(Seat, 0, 0, false))
	require.NoError(t, sess.match.Place(Seat, 0, 1, false))
	outcomes, err := sess.endTurn()
	require.NoError(t, err)
	require.Len(t, outcomes, 1, "no reply once the opponent is down")
	over, winner, _ := sess.match.Over()
	require.True(t, over)
	assert.Equal(t, Seat, winner)

	_, err = sess.endTurn()
	assert.ErrorIs(t, err, game.ErrMatchOver)
	assert.Contains(t, toolMessage(err), "The match is over")
}
