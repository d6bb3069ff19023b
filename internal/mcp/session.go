package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
	"github.com/peterkuimelis/pipduel/internal/view"
)

// Seat is the side the MCP client plays. The other side is auto-played.
const Seat = game.SidePlayer

// ToolResponse is the JSON envelope returned by the match tools.
type ToolResponse struct {
	Events   []view.EventView    `json:"events"`
	State    *view.StateView     `json:"state,omitempty"`
	Outcomes []*view.OutcomeView `json:"outcomes,omitempty"`
	Hint     *view.PlanView      `json:"hint,omitempty"`
	GameOver bool                `json:"game_over"`
	Winner   int                 `json:"winner"`
	Result   string              `json:"result,omitempty"`
}

// MatchSession holds a single match played over MCP.
type MatchSession struct {
	match *game.Match

	mu     sync.Mutex
	events []view.EventView
}

// NewMatchSession creates and starts a match. The session observes every
// event so tool calls can return what happened since the previous call.
func NewMatchSession(ctx context.Context, rules config.Rules, decks [2]*game.Deck, seed uint64, logger log.EventLogger) (*MatchSession, error) {
	sess := &MatchSession{}
	m, err := game.NewMatch(game.MatchConfig{
		Rules:     rules,
		Decks:     decks,
		Logger:    logger,
		Seed:      seed,
		Observers: []game.Observer{sess},
	})
	if err != nil {
		return nil, err
	}
	sess.match = m
	if err := m.Start(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Notify implements game.Observer.
func (s *MatchSession) Notify(_ context.Context, event log.GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, view.NewEventView(event))
	return nil
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *MatchSession) drainEvents() []view.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []view.EventView{}
	}
	return events
}

// respond builds a ToolResponse with the drained events and the seat's view.
func (s *MatchSession) respond(outcomes ...*game.Outcome) *ToolResponse {
	over, winner, result := s.match.Over()
	resp := &ToolResponse{
		Events:   s.drainEvents(),
		State:    view.BuildStateView(s.match, Seat),
		GameOver: over,
		Winner:   winner,
		Result:   result,
	}
	for _, o := range outcomes {
		if o != nil {
			resp.Outcomes = append(resp.Outcomes, view.NewOutcomeView(o))
		}
	}
	return resp
}

// respondJSON marshals a response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
