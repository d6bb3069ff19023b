package combo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHand(t *testing.T) {
	pips, wild, err := ParseHand("3 3 w, _ 6", 5)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 0, 0, 6}, pips)
	assert.Equal(t, []bool{false, false, true, false, false}, wild)

	r := Default().Evaluate(pips, wild)
	assert.Equal(t, RuleTriple, r.Rule)
}

func TestParseHandRejects(t *testing.T) {
	for _, in := range []string{"7", "3 x", "-2"} {
		_, _, err := ParseHand(in, 5)
		assert.ErrorIs(t, err, ErrInvalidPip, in)
	}

	pips, _, err := ParseHand("", 5)
	require.NoError(t, err)
	assert.Empty(t, pips)
}

func TestParseHandLimit(t *testing.T) {
	_, _, err := ParseHand("w w w w w w", 5)
	assert.ErrorIs(t, err, ErrTooManyCards)

	_, _, err = ParseHand(strings.Repeat("w ", 120), 10)
	assert.ErrorIs(t, err, ErrTooManyCards)

	pips, wild, err := ParseHand("w w w w w", 5)
	require.NoError(t, err)
	assert.Len(t, pips, 5)
	assert.Equal(t, []bool{true, true, true, true, true}, wild)
}
