package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/log"
)

func atk(pip int) Card  { return Card{Pip: pip, Role: RoleAttack} }
func crit(pip int) Card { return Card{Pip: pip, Role: RoleCritical} }
func heal(pip int) Card { return Card{Pip: pip, Role: RoleHeal} }

func joker(role Role) Card { return Card{Wild: true, Role: role} }

// up places c face-up in a fresh slot.
func up(c Card) *Slot {
	s := NewSlot()
	s.Place(c, false)
	return s
}

// down places c face-down in a fresh slot.
func down(c Card) *Slot {
	s := NewSlot()
	s.Place(c, true)
	return s
}

// row pads slots to the default row length with empty slots.
func row(slots ...*Slot) []*Slot {
	n := config.Default().Match.Slots
	for len(slots) < n {
		slots = append(slots, NewSlot())
	}
	return slots
}

func newResolver() *Resolver {
	rules := config.Default()
	return NewResolver(combo.New(rules.Scoring), rules)
}

// fixedDeck returns a deck whose every draw is one of cards. With a single
// card every draw is that card.
func fixedDeck(cards ...Card) *Deck {
	d := &Deck{Name: "fixed"}
	for i, c := range cards {
		c.PoolIndex = i
		d.Pool = append(d.Pool, c)
	}
	return d
}

// startMatch creates and starts a seeded match with the given decks.
func startMatch(t *testing.T, p0, p1 *Deck) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	m, err := NewMatch(MatchConfig{
		Rules:  config.Default(),
		Decks:  [2]*Deck{p0, p1},
		Logger: logger,
		Seed:   7,
	})
	require.NoError(t, err)
	require.NoError(t, m.Start(t.Context()))
	return m, logger
}

// placeAll places every hand card listed by index, highest index first.
func placeAll(t *testing.T, m *Match, side int, faceDown bool, moves ...[2]int) {
	t.Helper()
	for _, mv := range moves {
		require.NoError(t, m.Place(side, mv[0], mv[1], faceDown))
	}
}
