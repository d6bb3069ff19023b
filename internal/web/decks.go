package web

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pipduel/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int         `json:"number"` // 0 is the built-in deck
	Name   string      `json:"name"`
	Groups []GroupInfo `json:"groups"`
}

type GroupInfo struct {
	Name  string   `json:"name"`
	Role  string   `json:"role"`
	Cards []string `json:"cards"`
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks := []DeckInfo{deckInfo(0, defaultDeckEntry())}
	if s.decksFile != "" {
		df, err := game.ParseDeckFile(s.decksFile)
		if err != nil {
			s.logger.Error("load decks", zap.String("file", s.decksFile), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not read decks file")
			return
		}
		for i, d := range df.Decks {
			decks = append(decks, deckInfo(i+1, d))
		}
	}
	writeJSON(w, http.StatusOK, decks)
}

func deckInfo(n int, e game.DeckEntry) DeckInfo {
	di := DeckInfo{Number: n, Name: e.Name}
	for _, g := range e.Groups {
		gi := GroupInfo{Name: g.Name, Role: g.Role.String()}
		for _, c := range g.Cards {
			gi.Cards = append(gi.Cards, c.Name)
		}
		di.Groups = append(di.Groups, gi)
	}
	return di
}

// defaultDeckEntry rebuilds the groups of the built-in deck for display.
func defaultDeckEntry() game.DeckEntry {
	d := game.DefaultDeck()
	e := game.DeckEntry{Name: d.Name}
	byRole := map[game.Role]int{}
	for _, c := range d.Pool {
		i, ok := byRole[c.Role]
		if !ok {
			i = len(e.Groups)
			byRole[c.Role] = i
			e.Groups = append(e.Groups, game.DeckGroup{Name: c.Role.String(), Role: c.Role})
		}
		e.Groups[i].Cards = append(e.Groups[i].Cards, game.CardEntry{Name: c.Name, Pip: c.Pip, Wild: c.Wild})
	}
	return e
}

// loadDeck returns deck n from the decks file, or the built-in deck for 0.
func (s *Server) loadDeck(n int) (*game.Deck, error) {
	if n == 0 || s.decksFile == "" {
		return game.DefaultDeck(), nil
	}
	return game.DeckByNumber(s.decksFile, n)
}
