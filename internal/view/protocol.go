// Package view holds the JSON shapes shared by the tool and browser surfaces.
package view

import (
	"github.com/peterkuimelis/pipduel/internal/planner"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "update"
	State  *StateView  `json:"state,omitempty"`
	Events []EventView `json:"events,omitempty"`

	// For "outcome"
	Outcome *OutcomeView `json:"outcome,omitempty"`

	// For "hint"
	Plan *PlanView `json:"plan,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int     `json:"seq"`
	Turn    int     `json:"turn"`
	Phase   string  `json:"phase"`
	Player  int     `json:"player"`
	Type    string  `json:"type"`
	Card    string  `json:"card,omitempty"`
	Rule    string  `json:"rule,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Details string  `json:"details"`
}

// CardView describes one card.
type CardView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Face  string `json:"face"` // pip, or "W" for a wild
	Pip   int    `json:"pip,omitempty"`
	Wild  bool   `json:"wild,omitempty"`
	Role  string `json:"role"`
}

// SlotView describes a single slot. Face-down cards are hidden from the
// other side.
type SlotView struct {
	Index      int       `json:"index"`
	Empty      bool      `json:"empty,omitempty"`
	FaceDown   bool      `json:"face_down,omitempty"`
	Revealed   bool      `json:"revealed,omitempty"`
	Card       *CardView `json:"card,omitempty"`
	Contribute bool      `json:"contribute,omitempty"` // part of the board's best combination
}

// PlayerView shows one side of the board.
type PlayerView struct {
	HP          float64        `json:"hp"`
	MaxHP       float64        `json:"max_hp"`
	HandCount   int            `json:"hand_count"`
	Hand        []CardView     `json:"hand,omitempty"` // only for "you"
	Slots       []SlotView     `json:"slots"`
	Board       EvaluationView `json:"board"`
	PendingDraw int            `json:"pending_draw"`
}

// StateView is the match from one side's perspective.
type StateView struct {
	MatchID       string     `json:"match_id"`
	You           PlayerView `json:"you"`
	Opponent      PlayerView `json:"opponent"`
	Turn          int        `json:"turn"`
	IsYourTurn    bool       `json:"is_your_turn"`
	TurnTimer     float64    `json:"turn_timer"`
	Transitioning bool       `json:"transitioning,omitempty"`
	GameOver      bool       `json:"game_over,omitempty"`
	Winner        int        `json:"winner"`
	Result        string     `json:"result,omitempty"`
}

// EvaluationView is a hand evaluator result.
type EvaluationView struct {
	Rule  string  `json:"rule"`
	Score float64 `json:"score"`
	Mask  []bool  `json:"mask"`
	Pips  []int   `json:"pips,omitempty"` // after wild resolution
}

// PlanView is a planner suggestion.
type PlanView struct {
	Attack       []planner.Placement `json:"attack"`
	AttackRule   string              `json:"attack_rule"`
	AttackScore  float64             `json:"attack_score"`
	Defense      []planner.Placement `json:"defense"`
	DefenseRule  string              `json:"defense_rule,omitempty"`
	DefenseScore float64             `json:"defense_score,omitempty"`
}

// OutcomeView summarizes one turn resolution.
type OutcomeView struct {
	Attacker  int             `json:"attacker"`
	Kind      string          `json:"kind"`
	Attack    EvaluationView  `json:"attack"`
	Defense   *EvaluationView `json:"defense,omitempty"`
	Ambush    *EvaluationView `json:"ambush,omitempty"`
	Winner    int             `json:"winner"`
	Score     float64         `json:"score"`
	Damage    float64         `json:"damage"`
	Heal      float64         `json:"heal"`
	HP        [2]float64      `json:"hp"`
	HPDelta   [2]float64      `json:"hp_delta"`
	NextDraw  [2]int          `json:"next_draw"`
	RuleNames [2]string       `json:"rule_names"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "place"
	Hand     int  `json:"hand,omitempty"`
	FaceDown bool `json:"face_down,omitempty"`

	// For "place", "flip", "reveal", "return"
	Slot int `json:"slot,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int    `json:"deck_number,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
}
