package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
	"github.com/peterkuimelis/pipduel/internal/planner"
	"github.com/peterkuimelis/pipduel/internal/view"
)

// Tools serves the evaluator, the planner, and one match at a time
// (one per stdio process).
type Tools struct {
	rules     config.Rules
	decksFile string
	logger    *zap.Logger
	ev        *combo.Evaluator
	planner   *planner.Planner

	mu      sync.Mutex
	session *MatchSession
}

// NewTools creates the tool set. decksFile may be empty to use the
// built-in deck for both sides.
func NewTools(rules config.Rules, decksFile string, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	ev := combo.New(rules.Scoring)
	return &Tools{
		rules:     rules,
		decksFile: decksFile,
		logger:    logger,
		ev:        ev,
		planner:   planner.New(ev),
	}
}

// Register adds all tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(evaluateHandTool(), t.handleEvaluateHand)
	s.AddTool(findBestPlacementTool(), t.handleFindBestPlacement)
	s.AddTool(startMatchTool(), t.handleStartMatch)
	s.AddTool(placeCardTool(), t.handlePlaceCard)
	s.AddTool(slotTool("flip_slot", "Turn one of your slotted cards face-up or face-down. Face-up cards attack at turn end; face-down cards defend during the opponent's turn."), t.handleFlipSlot)
	s.AddTool(slotTool("reveal_slot", "Show one of your slotted cards without letting it score. Revealed cards leave the board at turn end."), t.handleRevealSlot)
	s.AddTool(slotTool("return_slot", "Take a slotted card back into your hand."), t.handleReturnSlot)
	s.AddTool(endTurnTool(), t.handleEndTurn)
	s.AddTool(suggestTurnTool(), t.handleSuggestTurn)
	s.AddTool(getMatchStateTool(), t.handleGetMatchState)
}

// --- Tool definitions ---

const handHelp = "Space-separated cards: pips 1-6, 'w' for a wild, '_' or 0 for an empty position (e.g. '3 3 w _ 6')"

func evaluateHandTool() mcp.Tool {
	return mcp.NewTool("evaluate_hand",
		mcp.WithDescription("Score a hand of up to five dice-like cards. Returns the best combination, its score, the resolved pips, and which positions contribute."),
		mcp.WithString("hand", mcp.Required(), mcp.Description(handHelp)),
	)
}

func findBestPlacementTool() mcp.Tool {
	return mcp.NewTool("find_best_placement",
		mcp.WithDescription("Search every subset of a hand for the placement that gives the board its highest combination, then a face-down defense from the leftover cards."),
		mcp.WithString("hand", mcp.Required(), mcp.Description("Space-separated hand cards: pips 1-6 or 'w'")),
		mcp.WithString("board", mcp.Description("Current face-up board, one token per slot. "+handHelp+". Defaults to an empty board.")),
	)
}

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a match against the built-in opponent. You play first as P1. Returns your hand, both boards, and the opening events."),
		mcp.WithNumber("deck", mcp.Description("Your deck number (1-indexed from the decks file). Omit for the standard deck.")),
		mcp.WithNumber("opponent_deck", mcp.Description("Opponent deck number. Omit for the standard deck.")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for reproducible draws. Omit for a random seed.")),
	)
}

func placeCardTool() mcp.Tool {
	return mcp.NewTool("place_card",
		mcp.WithDescription("Move a card from your hand into one of your empty slots."),
		mcp.WithNumber("hand", mcp.Required(), mcp.Description("0-based index into your hand")),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("0-based slot index")),
		mcp.WithBoolean("face_down", mcp.Description("Place face-down as a defense card (default false: face-up attack card)")),
	)
}

func slotTool(name, desc string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(desc),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("0-based slot index")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("Resolve your turn, then let the opponent play its turn. Returns both resolutions and every event in order."),
	)
}

func suggestTurnTool() mcp.Tool {
	return mcp.NewTool("suggest_turn",
		mcp.WithDescription("Ask the planner what it would place this turn. Read-only."),
	)
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current match state and accumulated events without acting. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleEvaluateHand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pips, wild, err := combo.ParseHand(request.GetString("hand", ""), t.rules.Match.Slots)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid hand: %v", err), nil
	}
	r := t.ev.Evaluate(pips, wild)
	return mcp.NewToolResultText(respondJSON(view.NewEvaluationView(r))), nil
}

func (t *Tools) handleFindBestPlacement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pips, wild, err := combo.ParseHand(request.GetString("hand", ""), t.rules.Match.MaxCards)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid hand: %v", err), nil
	}
	hand := make([]planner.Card, len(pips))
	for i := range pips {
		hand[i] = planner.Card{Pip: pips[i], Wild: wild[i]}
		if hand[i].Empty() {
			return mcp.NewToolResultErrorf("Invalid hand: position %d is empty", i), nil
		}
	}

	board := make([]planner.Card, t.rules.Match.Slots)
	if b := request.GetString("board", ""); b != "" {
		bp, bw, err := combo.ParseHand(b, t.rules.Match.Slots)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid board: %v", err), nil
		}
		board = make([]planner.Card, len(bp))
		for i := range bp {
			board[i] = planner.Card{Pip: bp[i], Wild: bw[i]}
		}
	}
	var empty []int
	for i, c := range board {
		if c.Empty() {
			empty = append(empty, i)
		}
	}

	plan := t.planner.Plan(hand, empty, board)
	return mcp.NewToolResultText(respondJSON(view.NewPlanView(plan))), nil
}

func (t *Tools) handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session != nil {
		if over, _, _ := t.session.match.Over(); !over {
			return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
		}
	}

	var decks [2]*game.Deck
	for side, key := range []string{"deck", "opponent_deck"} {
		n := request.GetInt(key, 0)
		if n == 0 {
			continue
		}
		if t.decksFile == "" {
			return mcp.NewToolResultErrorf("%s given but no decks file is configured", key), nil
		}
		d, err := game.DeckByNumber(t.decksFile, n)
		if err != nil {
			return mcp.NewToolResultErrorf("Failed to load %s: %v", key, err), nil
		}
		decks[side] = d
	}

	seed := uint64(max(request.GetInt("seed", 0), 0))
	sess, err := NewMatchSession(context.WithoutCancel(ctx), t.rules, decks, seed, log.NewZapLogger(t.logger))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	t.session = sess
	t.logger.Info("match started", zap.String("match_id", sess.match.ID))
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

// withSession runs fn against the active match and reports mutator errors as
// tool errors.
func (t *Tools) withSession(fn func(s *MatchSession) (*ToolResponse, error)) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	sess := t.session
	t.mu.Unlock()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	resp, err := fn(sess)
	if err != nil {
		t.logger.Debug("tool refused", zap.Error(err))
		return mcp.NewToolResultError(toolMessage(err)), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handlePlaceCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hand := request.GetInt("hand", -1)
	slot := request.GetInt("slot", -1)
	faceDown := request.GetBool("face_down", false)
	return t.withSession(func(s *MatchSession) (*ToolResponse, error) {
		if err := s.match.Place(Seat, hand, slot, faceDown); err != nil {
			return nil, err
		}
		return s.respond(), nil
	})
}

func (t *Tools) slotAction(request mcp.CallToolRequest, act func(m *game.Match, side, slot int) error) (*mcp.CallToolResult, error) {
	slot := request.GetInt("slot", -1)
	return t.withSession(func(s *MatchSession) (*ToolResponse, error) {
		if err := act(s.match, Seat, slot); err != nil {
			return nil, err
		}
		return s.respond(), nil
	})
}

func (t *Tools) handleFlipSlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.slotAction(request, (*game.Match).Flip)
}

func (t *Tools) handleRevealSlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.slotAction(request, (*game.Match).Reveal)
}

func (t *Tools) handleReturnSlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.slotAction(request, (*game.Match).ReturnToHand)
}

func (t *Tools) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withSession(func(s *MatchSession) (*ToolResponse, error) {
		outcomes, err := s.endTurn()
		if err != nil && len(outcomes) == 0 {
			return nil, err
		}
		if err != nil {
			t.logger.Warn("opponent turn failed", zap.Error(err))
		}
		return s.respond(outcomes...), nil
	})
}

func (t *Tools) handleSuggestTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withSession(func(s *MatchSession) (*ToolResponse, error) {
		resp := s.respond()
		resp.Hint = view.NewPlanView(s.match.Hint(Seat))
		return resp, nil
	})
}

func (t *Tools) handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withSession(func(s *MatchSession) (*ToolResponse, error) {
		return s.respond(), nil
	})
}

// toolMessage turns a match error into advice for the caller.
func toolMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "It is not your turn."
	case errors.Is(err, game.ErrMatchOver):
		return "The match is over. Use start_match to play again."
	case errors.Is(err, game.ErrTransitioning):
		return "A turn is being resolved. Try again."
	}
	return fmt.Sprintf("Refused: %v", err)
}
