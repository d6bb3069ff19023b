package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/view"
)

func newTestServer(t *testing.T, decksFile string) *httptest.Server {
	t.Helper()
	srv := NewServer(config.Default(), decksFile, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestRulesEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/api/rules")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info RulesInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Len(t, info.Ranking, 10)
	assert.Equal(t, "none", info.Ranking[0].Name)
	assert.Equal(t, "Five of a Kind", info.Ranking[9].Name)
	assert.Equal(t, 5, info.Rules.Match.Slots)
}

func TestEvaluateEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	resp := post(t, ts.URL+"/api/evaluate", `{"hand":"1 2 3 4 w"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ev view.EvaluationView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ev))
	assert.Equal(t, "Straight Low", ev.Rule)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ev.Pips)

	resp = post(t, ts.URL+"/api/evaluate", `{"hand":"8"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/evaluate", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlanEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	resp := post(t, ts.URL+"/api/plan", `{"hand":"6 6 1 1 3"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pv view.PlanView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pv))
	assert.Equal(t, "Two Pair", pv.AttackRule)
	assert.Len(t, pv.Attack, 4)
}

func TestOversizedHandsRejected(t *testing.T) {
	ts := newTestServer(t, "")

	cases := map[string]string{
		"/api/evaluate": `{"hand":"` + strings.Repeat("w ", 120) + `"}`,
		"/api/plan":     `{"hand":"` + strings.Repeat("3 ", 72) + `"}`,
	}
	for path, body := range cases {
		resp := post(t, ts.URL+path, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}

	resp := post(t, ts.URL+"/api/plan", `{"hand":"3 3","board":"_ _ _ _ _ _ _ _ _"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/evaluate", `{"hand":"`+strings.Repeat(" ", 8<<10)+`3"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A full hand against an empty board is the largest accepted search.
	resp = post(t, ts.URL+"/api/plan", `{"hand":"w w w w w w w w w w"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDecksEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
decks:
  - name: Sixes
    groups:
      - name: Sixes
        role: critical
        cards:
          - {name: Six, pip: 6}
`), 0o644))
	ts := newTestServer(t, path)

	resp, err := http.Get(ts.URL + "/api/decks")
	require.NoError(t, err)
	defer resp.Body.Close()
	var decks []DeckInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decks))
	require.Len(t, decks, 2)
	assert.Equal(t, "Standard", decks[0].Name)
	assert.Len(t, decks[0].Groups, 3)
	assert.Equal(t, "Sixes", decks[1].Name)
	assert.Equal(t, "Critical", decks[1].Groups[0].Role)
}

// readUntil reads server messages until one of the given type arrives.
func readUntil(t *testing.T, ctx context.Context, c *websocket.Conn, typ string) view.ServerMessage {
	t.Helper()
	for {
		var msg view.ServerMessage
		require.NoError(t, wsjson.Read(ctx, c, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func TestWebSocketMatch(t *testing.T) {
	TickInterval = time.Hour
	ts := newTestServer(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer c.CloseNow()

	require.NoError(t, wsjson.Write(ctx, c, view.ClientMessage{Type: "join", Seed: 3}))
	msg := readUntil(t, ctx, c, "update")
	require.NotNil(t, msg.State)
	assert.Len(t, msg.State.You.Hand, 5)
	assert.NotEmpty(t, msg.Events)

	require.NoError(t, wsjson.Write(ctx, c, view.ClientMessage{Type: "place", Hand: 0, Slot: 2}))
	msg = readUntil(t, ctx, c, "update")
	assert.False(t, msg.State.You.Slots[2].Empty)

	require.NoError(t, wsjson.Write(ctx, c, view.ClientMessage{Type: "place", Hand: 0, Slot: 2}))
	msg = readUntil(t, ctx, c, "error")
	assert.Contains(t, msg.Error, "occupied")

	require.NoError(t, wsjson.Write(ctx, c, view.ClientMessage{Type: "hint"}))
	msg = readUntil(t, ctx, c, "hint")
	require.NotNil(t, msg.Plan)

	require.NoError(t, wsjson.Write(ctx, c, view.ClientMessage{Type: "end_turn"}))
	first := readUntil(t, ctx, c, "outcome")
	assert.Equal(t, 0, first.Outcome.Attacker)
	second := readUntil(t, ctx, c, "outcome")
	assert.Equal(t, 1, second.Outcome.Attacker)
	msg = readUntil(t, ctx, c, "update")
	assert.True(t, msg.State.IsYourTurn)
	assert.Equal(t, 3, msg.State.Turn)

	c.Close(websocket.StatusNormalClosure, "")
}
