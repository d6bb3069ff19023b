package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesTable(t *testing.T) {
	r := Default()

	assert.Equal(t, 95.0, r.Scoring.FiveOfAKindBase)
	assert.Equal(t, 58.0, r.Scoring.StraightHigh)
	assert.Equal(t, 55.0, r.Scoring.StraightLow)
	assert.Equal(t, []float64{2, 0.8, 0.3, 0.1}, r.Scoring.HighCardWeights)
	assert.Equal(t, 2.0, r.Roles.Critical)
	assert.Equal(t, 1000.0, r.Match.MaxHP)
	assert.Equal(t, 10, r.Match.MaxCards)
	assert.NoError(t, r.Validate())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	r, err := Parse([]byte(`
match:
  max_hp: 500
roles:
  critical: 3
`))
	require.NoError(t, err)

	assert.Equal(t, 500.0, r.Match.MaxHP)
	assert.Equal(t, 3.0, r.Roles.Critical)
	// untouched fields keep defaults
	assert.Equal(t, 30.0, r.Match.TurnTime)
	assert.Equal(t, 80.0, r.Scoring.FourOfAKindBase)
}

func TestParse_RejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("match:\n  slots: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = Parse([]byte("draw:\n  tier_one: 90\n"))
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = Parse([]byte("match:\n  slots: 9\n"))
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = Parse([]byte("match:\n  max_cards: 11\n"))
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = Parse([]byte("match: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvMaxHP, "750")
	t.Setenv(EnvSlots, "6")

	r, err := FromEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, 750.0, r.Match.MaxHP)
	assert.Equal(t, 6, r.Match.Slots)
	assert.Equal(t, 10, r.Match.MaxCards)
}

func TestParse_RejectsNonFiniteWeights(t *testing.T) {
	for _, doc := range []string{
		"scoring:\n  triple_base: .nan\n",
		"scoring:\n  one_pair_kickers: [0.5, .inf]\n",
		"scoring:\n  straight_high: -58\n",
		"roles:\n  critical: -2\n",
		"match:\n  max_hp: .inf\n",
		"draw:\n  tier_two: .nan\n",
	} {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidRules, doc)
	}
}

func TestFromEnv_BoundsSlots(t *testing.T) {
	t.Setenv(EnvSlots, "40")
	_, err := FromEnv(Default())
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestFromEnv_RejectsNaN(t *testing.T) {
	t.Setenv(EnvCritical, "NaN")
	_, err := FromEnv(Default())
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestFromEnv_BadValue(t *testing.T) {
	t.Setenv(EnvDrawCount, "many")

	_, err := FromEnv(Default())
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  max_hp: 500\n  turn_time: 20\n"), 0o644))
	t.Setenv(EnvTurnTime, "45")

	r, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 500.0, r.Match.MaxHP)
	assert.Equal(t, 45.0, r.Match.TurnTime)

	r, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, r.Match.MaxHP)
}
