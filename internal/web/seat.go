package web

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
	"github.com/peterkuimelis/pipduel/internal/view"
)

// TickInterval is how often a browser match advances its turn timer.
var TickInterval = time.Second

// seat is one browser playing SidePlayer against the planner over a websocket.
type seat struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	logger *zap.Logger
	match  *game.Match

	mu     sync.Mutex
	events []view.EventView

	// act serializes browser commands with timer expiry, so only one
	// goroutine ever drives the opponent's turn.
	act sync.Mutex
}

func newSeat(srv *Server, conn *websocket.Conn) *seat {
	id := uuid.NewString()
	return &seat{
		id:     id,
		srv:    srv,
		conn:   conn,
		logger: srv.logger.With(zap.String("session", id)),
	}
}

// Notify implements game.Observer.
func (s *seat) Notify(_ context.Context, event log.GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, view.NewEventView(event))
	return nil
}

func (s *seat) drain() []view.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// run reads the join message, starts the match, then serves commands until
// the match ends or the browser goes away.
func (s *seat) run(ctx context.Context) error {
	var join view.ClientMessage
	if err := wsjson.Read(ctx, s.conn, &join); err != nil {
		return fmt.Errorf("read join: %w", err)
	}
	if join.Type != "join" {
		return fmt.Errorf("expected join message, got %q", join.Type)
	}
	deck, err := s.srv.loadDeck(join.DeckNumber)
	if err != nil {
		s.send(ctx, view.ServerMessage{Type: "error", Error: err.Error()})
		return err
	}

	s.match, err = game.NewMatch(game.MatchConfig{
		Rules:     s.srv.rules,
		Decks:     [2]*game.Deck{deck, game.DefaultDeck()},
		Logger:    log.NewZapLogger(s.logger),
		Seed:      join.Seed,
		Observers: []game.Observer{s},
	})
	if err != nil {
		return err
	}
	if err := s.match.Start(ctx); err != nil {
		return err
	}
	s.logger.Info("match started", zap.String("match_id", s.match.ID), zap.Int("deck", join.DeckNumber))
	if err := s.flush(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.tick(ctx)

	for {
		if over, _, _ := s.match.Over(); over {
			return nil
		}
		var msg view.ClientMessage
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := s.handle(ctx, msg); err != nil {
			return err
		}
	}
}

// handle applies one command. Refused commands are reported to the browser,
// only transport failures end the session.
func (s *seat) handle(ctx context.Context, msg view.ClientMessage) error {
	s.act.Lock()
	defer s.act.Unlock()
	m := s.match
	var err error
	var outcomes []*game.Outcome
	switch msg.Type {
	case "place":
		err = m.Place(game.SidePlayer, msg.Hand, msg.Slot, msg.FaceDown)
	case "flip":
		err = m.Flip(game.SidePlayer, msg.Slot)
	case "reveal":
		err = m.Reveal(game.SidePlayer, msg.Slot)
	case "return":
		err = m.ReturnToHand(game.SidePlayer, msg.Slot)
	case "end_turn":
		var out *game.Outcome
		if out, err = m.EndTurnFor(game.SidePlayer); err == nil {
			outcomes = append(outcomes, out)
			outcomes = append(outcomes, s.opponentTurn()...)
		}
	case "hint":
		return s.send(ctx, view.ServerMessage{Type: "hint", Plan: view.NewPlanView(m.Hint(game.SidePlayer))})
	case "state":
	default:
		err = fmt.Errorf("unknown command %q", msg.Type)
	}
	if err != nil {
		if sendErr := s.send(ctx, view.ServerMessage{Type: "error", Error: err.Error()}); sendErr != nil {
			return sendErr
		}
	}
	return s.flush(ctx, outcomes...)
}

// opponentTurn lets the planner take the opponent's turn if it is due.
func (s *seat) opponentTurn() []*game.Outcome {
	m := s.match
	if over, _, _ := m.Over(); over || m.State().Active() != game.SideOpponent {
		return nil
	}
	out, err := m.AutoPlay(game.SideOpponent)
	if err != nil {
		s.logger.Debug("opponent turn skipped", zap.Error(err))
		return nil
	}
	return []*game.Outcome{out}
}

// tick advances the turn timer until ctx is done.
func (s *seat) tick(ctx context.Context) {
	t := time.NewTicker(TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if err := s.expire(ctx); err != nil {
			s.logger.Debug("tick flush", zap.Error(err))
			return
		}
	}
}

// expire advances the timer one interval and, if the turn ran out, plays
// the opponent's reply and pushes the result.
func (s *seat) expire(ctx context.Context) error {
	s.act.Lock()
	defer s.act.Unlock()
	out, ok := s.match.Tick(TickInterval.Seconds())
	if !ok {
		return nil
	}
	return s.flush(ctx, append([]*game.Outcome{out}, s.opponentTurn()...)...)
}

// flush sends pending events, any outcomes, and the current state.
func (s *seat) flush(ctx context.Context, outcomes ...*game.Outcome) error {
	for _, o := range outcomes {
		if err := s.send(ctx, view.ServerMessage{Type: "outcome", Outcome: view.NewOutcomeView(o)}); err != nil {
			return err
		}
	}
	msg := view.ServerMessage{
		Type:   "update",
		Events: s.drain(),
		State:  view.BuildStateView(s.match, game.SidePlayer),
	}
	if err := s.send(ctx, msg); err != nil {
		return err
	}
	if over, winner, result := s.match.Over(); over {
		return s.send(ctx, view.ServerMessage{Type: "game_over", Winner: winner, Result: result})
	}
	return nil
}

func (s *seat) send(ctx context.Context, msg view.ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(ctx, s.conn, msg)
}
