package mcp

import (
	"github.com/peterkuimelis/pipduel/internal/game"
)

// endTurn ends the seat's turn, then lets the planner play the opponent's
// turn, returning both resolutions. It stops early when the match ends.
func (s *MatchSession) endTurn() ([]*game.Outcome, error) {
	m := s.match
	out, err := m.EndTurnFor(Seat)
	if err != nil {
		return nil, err
	}
	outcomes := []*game.Outcome{out}

	if over, _, _ := m.Over(); over {
		return outcomes, nil
	}
	reply, err := m.AutoPlay(game.Opponent(Seat))
	if err != nil {
		return outcomes, err
	}
	return append(outcomes, reply), nil
}
