package game

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxGroupCards is the most card entries a deck group may list.
const MaxGroupCards = 6

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name   string      `yaml:"name"`
	Groups []DeckGroup `yaml:"groups"`
}

// DeckGroup is a named set of cards sharing one role.
type DeckGroup struct {
	Name  string      `yaml:"name"`
	Role  Role        `yaml:"role"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents one card kind in a group.
type CardEntry struct {
	Name string `yaml:"name"`
	Pip  int    `yaml:"pip"`
	Wild bool   `yaml:"wild"`
}

// Deck is an endless draw pool: every draw picks uniformly from Pool.
type Deck struct {
	Name string
	Pool []Card
}

// BuildDeck flattens a deck entry's groups into a draw pool.
func BuildDeck(e DeckEntry) (*Deck, error) {
	d := &Deck{Name: e.Name}
	for _, g := range e.Groups {
		if len(g.Cards) > MaxGroupCards {
			return nil, fmt.Errorf("deck %q group %q: %d cards (max %d)", e.Name, g.Name, len(g.Cards), MaxGroupCards)
		}
		for _, c := range g.Cards {
			if !c.Wild && (c.Pip < 1 || c.Pip > 6) {
				return nil, fmt.Errorf("deck %q group %q: card %q has pip %d", e.Name, g.Name, c.Name, c.Pip)
			}
			card := Card{
				Name:      c.Name,
				Pip:       c.Pip,
				Wild:      c.Wild,
				Role:      g.Role,
				PoolIndex: len(d.Pool),
			}
			if c.Wild {
				card.Pip = 0
			}
			d.Pool = append(d.Pool, card)
		}
	}
	if len(d.Pool) == 0 {
		return nil, fmt.Errorf("deck %q: %w", e.Name, ErrEmptyDeck)
	}
	return d, nil
}

// Draw picks a card from the pool.
func (d *Deck) Draw(rng *rand.Rand) (Card, bool) {
	if d == nil || len(d.Pool) == 0 {
		return Card{}, false
	}
	return d.Pool[rng.IntN(len(d.Pool))], true
}

// ParseDecks decodes a YAML deck file.
func ParseDecks(data []byte) (DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return DeckFile{}, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// ParseDeckFile reads and decodes a YAML deck file.
func ParseDeckFile(path string) (DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeckFile{}, err
	}
	return ParseDecks(data)
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int) (*Deck, error) {
	df, err := ParseDeckFile(path)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	return BuildDeck(df.Decks[n-1])
}

// DefaultDeck is the built-in deck: one group per role, jokers in the
// critical and heal groups.
func DefaultDeck() *Deck {
	entry := DeckEntry{
		Name: "Standard",
		Groups: []DeckGroup{
			{Name: "Strikes", Role: RoleAttack, Cards: pipEntries("Strike", 1, 2, 3, 4, 5, 6)},
			{Name: "Criticals", Role: RoleCritical, Cards: append(pipEntries("Critical", 2, 3, 4, 5, 6), CardEntry{Name: "Critical Joker", Wild: true})},
			{Name: "Mends", Role: RoleHeal, Cards: append(pipEntries("Mend", 1, 2, 3, 4, 5), CardEntry{Name: "Mend Joker", Wild: true})},
		},
	}
	d, err := BuildDeck(entry)
	if err != nil {
		panic(err)
	}
	return d
}

func pipEntries(prefix string, pips ...int) []CardEntry {
	out := make([]CardEntry, len(pips))
	for i, p := range pips {
		out[i] = CardEntry{Name: fmt.Sprintf("%s %d", prefix, p), Pip: p}
	}
	return out
}
