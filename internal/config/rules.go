package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Scoring holds the base score and refinement weights of every combination category.
type Scoring struct {
	FiveOfAKindBase float64 `yaml:"five_of_a_kind_base"`
	FiveOfAKindPip  float64 `yaml:"five_of_a_kind_pip"`

	FourOfAKindBase   float64 `yaml:"four_of_a_kind_base"`
	FourOfAKindQuad   float64 `yaml:"four_of_a_kind_quad"`
	FourOfAKindKicker float64 `yaml:"four_of_a_kind_kicker"`

	FullHouseBase   float64 `yaml:"full_house_base"`
	FullHouseTriple float64 `yaml:"full_house_triple"`
	FullHousePair   float64 `yaml:"full_house_pair"`

	StraightHigh float64 `yaml:"straight_high"`
	StraightLow  float64 `yaml:"straight_low"`

	TripleBase    float64   `yaml:"triple_base"`
	TriplePip     float64   `yaml:"triple_pip"`
	TripleKickers []float64 `yaml:"triple_kickers"`

	TwoPairBase   float64 `yaml:"two_pair_base"`
	TwoPairBig    float64 `yaml:"two_pair_big"`
	TwoPairSmall  float64 `yaml:"two_pair_small"`
	TwoPairKicker float64 `yaml:"two_pair_kicker"`

	OnePairBase    float64   `yaml:"one_pair_base"`
	OnePairPip     float64   `yaml:"one_pair_pip"`
	OnePairKickers []float64 `yaml:"one_pair_kickers"`

	// HighCardWeights apply to the highest pips in descending order.
	HighCardWeights []float64 `yaml:"high_card_weights"`
}

// RoleWeights are the multipliers applied to each role's share of a winning score.
type RoleWeights struct {
	Attack   float64 `yaml:"attack"`
	Critical float64 `yaml:"critical"`
	Heal     float64 `yaml:"heal"`
}

// DrawRules control next-turn draw counts.
type DrawRules struct {
	Minimum  int     `yaml:"minimum"`
	TierOne  float64 `yaml:"tier_one"` // winning score that grants +1
	TierTwo  float64 `yaml:"tier_two"` // winning score that grants +2
	MaxBonus int     `yaml:"max_bonus"`
}

// MatchRules are the per-match constants.
type MatchRules struct {
	MaxHP     float64 `yaml:"max_hp"`
	TurnTime  float64 `yaml:"turn_time"` // seconds
	DrawCount int     `yaml:"draw_count"`
	MaxCards  int     `yaml:"max_cards"`
	Slots     int     `yaml:"slots"`
}

// Rules is the complete rule configuration of the engine.
type Rules struct {
	Scoring Scoring     `yaml:"scoring"`
	Roles   RoleWeights `yaml:"roles"`
	Draw    DrawRules   `yaml:"draw"`
	Match   MatchRules  `yaml:"match"`
}

// Default returns the standard rule set.
func Default() Rules {
	return Rules{
		Scoring: Scoring{
			FiveOfAKindBase:   95,
			FiveOfAKindPip:    0.5,
			FourOfAKindBase:   80,
			FourOfAKindQuad:   1,
			FourOfAKindKicker: 0.1,
			FullHouseBase:     65,
			FullHouseTriple:   1,
			FullHousePair:     0.1,
			StraightHigh:      58,
			StraightLow:       55,
			TripleBase:        40,
			TriplePip:         2,
			TripleKickers:     []float64{0.3, 0.1},
			TwoPairBase:       25,
			TwoPairBig:        2,
			TwoPairSmall:      0.3,
			TwoPairKicker:     0.1,
			OnePairBase:       10,
			OnePairPip:        2,
			OnePairKickers:    []float64{0.5, 0.2, 0.1},
			HighCardWeights:   []float64{2, 0.8, 0.3, 0.1},
		},
		Roles: RoleWeights{
			Attack:   1,
			Critical: 2,
			Heal:     1,
		},
		Draw: DrawRules{
			Minimum:  1,
			TierOne:  40,
			TierTwo:  80,
			MaxBonus: 2,
		},
		Match: MatchRules{
			MaxHP:     1000,
			TurnTime:  30,
			DrawCount: 5,
			MaxCards:  10,
			Slots:     5,
		},
	}
}

// Load reads a YAML rules file. Fields absent from the file keep their default values.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML rules over the defaults.
func Parse(data []byte) (Rules, error) {
	r := Default()
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("parse rules YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

var ErrInvalidRules = errors.New("invalid rules")

// Upper bounds on the board and hand. The planner searches every subset of
// the hand, and the evaluator every wild assignment over a slot row, so
// these keep a single search small.
const (
	MaxSlots     = 8
	MaxHandCards = 10
)

// Validate rejects rule sets the engine cannot run with.
func (r Rules) Validate() error {
	switch {
	case !finite(r.Match.MaxHP) || r.Match.MaxHP <= 0:
		return fmt.Errorf("%w: max_hp must be positive", ErrInvalidRules)
	case r.Match.Slots < 1 || r.Match.Slots > MaxSlots:
		return fmt.Errorf("%w: slots must be within 1..%d", ErrInvalidRules, MaxSlots)
	case r.Match.MaxCards < 1 || r.Match.MaxCards > MaxHandCards:
		return fmt.Errorf("%w: max_cards must be within 1..%d", ErrInvalidRules, MaxHandCards)
	case r.Match.DrawCount < 0 || r.Match.DrawCount > r.Match.MaxCards:
		return fmt.Errorf("%w: draw_count must be within 0..max_cards", ErrInvalidRules)
	case !finite(r.Match.TurnTime) || r.Match.TurnTime <= 0:
		return fmt.Errorf("%w: turn_time must be positive", ErrInvalidRules)
	case r.Draw.Minimum < 0:
		return fmt.Errorf("%w: draw minimum must not be negative", ErrInvalidRules)
	case !finite(r.Draw.TierOne) || !finite(r.Draw.TierTwo):
		return fmt.Errorf("%w: draw tiers must be finite", ErrInvalidRules)
	case r.Draw.TierOne > r.Draw.TierTwo:
		return fmt.Errorf("%w: tier_one must not exceed tier_two", ErrInvalidRules)
	case r.Draw.MaxBonus < 0:
		return fmt.Errorf("%w: max_bonus must not be negative", ErrInvalidRules)
	}
	for _, w := range []float64{r.Roles.Attack, r.Roles.Critical, r.Roles.Heal} {
		if !finite(w) || w < 0 {
			return fmt.Errorf("%w: role multiplier %v must be finite and not negative", ErrInvalidRules, w)
		}
	}
	for _, w := range r.Scoring.weights() {
		if !finite(w) || w < 0 {
			return fmt.Errorf("%w: scoring weight %v must be finite and not negative", ErrInvalidRules, w)
		}
	}
	return nil
}

func (s Scoring) weights() []float64 {
	w := []float64{
		s.FiveOfAKindBase, s.FiveOfAKindPip,
		s.FourOfAKindBase, s.FourOfAKindQuad, s.FourOfAKindKicker,
		s.FullHouseBase, s.FullHouseTriple, s.FullHousePair,
		s.StraightHigh, s.StraightLow,
		s.TripleBase, s.TriplePip,
		s.TwoPairBase, s.TwoPairBig, s.TwoPairSmall, s.TwoPairKicker,
		s.OnePairBase, s.OnePairPip,
	}
	w = append(w, s.TripleKickers...)
	w = append(w, s.OnePairKickers...)
	return append(w, s.HighCardWeights...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
