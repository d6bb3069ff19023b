package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/planner"
	"github.com/peterkuimelis/pipduel/internal/view"
)

//go:embed static
var staticFiles embed.FS

// maxBodyBytes bounds REST request bodies. Hands are a few tokens long.
const maxBodyBytes = 4 << 10

// RuleInfo is one row of the /api/rules ranking table.
type RuleInfo struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

// RulesInfo is the JSON body of /api/rules.
type RulesInfo struct {
	Ranking []RuleInfo   `json:"ranking"`
	Rules   config.Rules `json:"rules"`
}

// HandRequest is the body of /api/evaluate and /api/plan.
type HandRequest struct {
	Hand  string `json:"hand"`
	Board string `json:"board,omitempty"`
}

// Server is the pipduel web UI server.
type Server struct {
	rules     config.Rules
	decksFile string
	logger    *zap.Logger
	ev        *combo.Evaluator
	planner   *planner.Planner
	router    *mux.Router
}

// NewServer creates a new web server. decksFile may be empty to offer only
// the built-in deck.
func NewServer(rules config.Rules, decksFile string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ev := combo.New(rules.Scoring)
	s := &Server{
		rules:     rules,
		decksFile: decksFile,
		logger:    logger,
		ev:        ev,
		planner:   planner.New(ev),
		router:    mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	}).Methods(http.MethodGet)

	s.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rules", s.handleRules).Methods(http.MethodGet)
	api.HandleFunc("/decks", s.handleDecks).Methods(http.MethodGet)
	api.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	api.HandleFunc("/plan", s.handlePlan).Methods(http.MethodPost)

	s.router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
}

// Handler returns the routed handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	info := RulesInfo{Rules: s.rules}
	for _, rule := range combo.Rules() {
		info.Ranking = append(info.Ranking, RuleInfo{Rank: int(rule), Name: rule.String()})
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req HandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	pips, wild, err := combo.ParseHand(req.Hand, s.rules.Match.Slots)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view.NewEvaluationView(s.ev.Evaluate(pips, wild)))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req HandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	hand, err := parseCards(req.Hand, s.rules.Match.MaxCards)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	board := make([]planner.Card, s.rules.Match.Slots)
	if req.Board != "" {
		if board, err = parseCards(req.Board, s.rules.Match.Slots); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var empty []int
	for i, c := range board {
		if c.Empty() {
			empty = append(empty, i)
		}
	}
	writeJSON(w, http.StatusOK, view.NewPlanView(s.planner.Plan(hand, empty, board)))
}

func parseCards(s string, limit int) ([]planner.Card, error) {
	pips, wild, err := combo.ParseHand(s, limit)
	if err != nil {
		return nil, err
	}
	cards := make([]planner.Card, len(pips))
	for i := range pips {
		cards[i] = planner.Card{Pip: pips[i], Wild: wild[i]}
	}
	return cards, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	sess := newSeat(s, conn)
	if err := sess.run(r.Context()); err != nil {
		s.logger.Info("websocket session ended", zap.String("session", sess.id), zap.Error(err))
		conn.Close(websocket.StatusInternalError, "session ended")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
