package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
)

func newTestMatch(t *testing.T) *game.Match {
	t.Helper()
	deck := game.DefaultDeck()
	m, err := game.NewMatch(game.MatchConfig{
		Rules:  config.Default(),
		Decks:  [2]*game.Deck{deck, deck},
		Logger: log.NewMemoryLogger(),
		Seed:   11,
	})
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))
	return m
}

func TestREPLTurnCycle(t *testing.T) {
	m := newTestMatch(t)
	in := "p 0 0\nd 0 1\nh\ne\nq\n"
	require.NoError(t, newREPL(m, strings.NewReader(in)).run())

	st := m.State()
	assert.Equal(t, 3, st.Turn)
	assert.True(t, st.IsPlayerTurn)
	require.NotNil(t, m.LastOutcome())
	assert.Equal(t, game.SideOpponent, m.LastOutcome().Attacker)
}

func TestREPLCommandErrors(t *testing.T) {
	m := newTestMatch(t)
	r := newREPL(m, strings.NewReader(""))

	_, err := r.exec([]string{"p", "0"})
	assert.ErrorContains(t, err, "needs 2")

	_, err = r.exec([]string{"p", "x", "0"})
	assert.ErrorContains(t, err, "invalid number")

	_, err = r.exec([]string{"zap"})
	assert.ErrorContains(t, err, "unknown command")

	_, err = r.exec([]string{"f", "3"})
	assert.ErrorIs(t, err, game.ErrSlotEmpty)

	quit, err := r.exec([]string{"q"})
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestREPLEOFEndsSession(t *testing.T) {
	m := newTestMatch(t)
	require.NoError(t, newREPL(m, strings.NewReader("s\n")).run())
	assert.Equal(t, 1, m.State().Turn)
}
