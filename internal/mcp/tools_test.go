package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/view"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func newTools(t *testing.T) *Tools {
	return NewTools(config.Default(), "", zaptest.NewLogger(t))
}

func TestEvaluateHandTool(t *testing.T) {
	tools := newTools(t)

	text, isErr := call(t, tools.handleEvaluateHand, map[string]any{"hand": "3 3 w w 1"})
	require.False(t, isErr, text)
	var ev view.EvaluationView
	require.NoError(t, json.Unmarshal([]byte(text), &ev))
	assert.Equal(t, "Four of a Kind", ev.Rule)
	assert.Equal(t, []bool{true, true, true, true, false}, ev.Mask)
	assert.Equal(t, []int{3, 3, 3, 3, 1}, ev.Pips)

	_, isErr = call(t, tools.handleEvaluateHand, map[string]any{"hand": "3 9"})
	assert.True(t, isErr)

	text, isErr = call(t, tools.handleEvaluateHand, map[string]any{"hand": strings.Repeat("w ", 120)})
	assert.True(t, isErr)
	assert.Contains(t, text, "too many cards")
}

func TestFindBestPlacementTool(t *testing.T) {
	tools := newTools(t)

	text, isErr := call(t, tools.handleFindBestPlacement, map[string]any{
		"hand":  "5 2 5 1",
		"board": "5 _ _ _ _",
	})
	require.False(t, isErr, text)
	var pv view.PlanView
	require.NoError(t, json.Unmarshal([]byte(text), &pv))
	assert.Equal(t, "Triple", pv.AttackRule)
	assert.Len(t, pv.Attack, 2)
	for _, p := range pv.Attack {
		assert.NotZero(t, p.Slot, "slot 0 is occupied")
	}

	_, isErr = call(t, tools.handleFindBestPlacement, map[string]any{"hand": "5 _"})
	assert.True(t, isErr)

	_, isErr = call(t, tools.handleFindBestPlacement, map[string]any{"hand": strings.Repeat("4 ", 72)})
	assert.True(t, isErr, "hand above max_cards")

	_, isErr = call(t, tools.handleFindBestPlacement, map[string]any{"hand": "4 4", "board": "_ _ _ _ _ _"})
	assert.True(t, isErr, "board longer than the slot row")
}

func TestMatchTools(t *testing.T) {
	tools := newTools(t)

	_, isErr := call(t, tools.handleGetMatchState, nil)
	assert.True(t, isErr, "no match yet")

	text, isErr := call(t, tools.handleStartMatch, map[string]any{"seed": 11})
	require.False(t, isErr, text)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.NotNil(t, resp.State)
	assert.Len(t, resp.State.You.Hand, 5)
	assert.True(t, resp.State.IsYourTurn)
	assert.NotEmpty(t, resp.Events)

	_, isErr = call(t, tools.handleStartMatch, nil)
	assert.True(t, isErr, "second match refused")

	text, isErr = call(t, tools.handlePlaceCard, map[string]any{"hand": 0, "slot": 0})
	require.False(t, isErr, text)
	_, isErr = call(t, tools.handlePlaceCard, map[string]any{"hand": 0, "slot": 0})
	assert.True(t, isErr, "slot occupied")

	text, isErr = call(t, tools.handleFlipSlot, map[string]any{"slot": 0})
	require.False(t, isErr, text)
	text, isErr = call(t, tools.handleReturnSlot, map[string]any{"slot": 0})
	require.False(t, isErr, text)

	text, isErr = call(t, tools.handleSuggestTurn, nil)
	require.False(t, isErr, text)
	resp = ToolResponse{}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.NotNil(t, resp.Hint)
	assert.NotEmpty(t, resp.Hint.Attack)

	text, isErr = call(t, tools.handleEndTurn, nil)
	require.False(t, isErr, text)
	resp = ToolResponse{}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Len(t, resp.Outcomes, 2)
	assert.Equal(t, 0, resp.Outcomes[0].Attacker)
	assert.Equal(t, 1, resp.Outcomes[1].Attacker)
	assert.Equal(t, 3, resp.State.Turn)
	assert.True(t, resp.State.IsYourTurn)

	// Events were drained by the previous call.
	text, _ = call(t, tools.handleGetMatchState, nil)
	resp = ToolResponse{}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Empty(t, resp.Events)
}
