package combo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrTooManyCards = errors.New("too many cards")

// ParseHand reads a hand written as whitespace or comma separated tokens:
// a pip 1-6, "w" or "*" for a wild, and "0", "_" or "-" for an empty position.
// Hands longer than limit are rejected before anything is evaluated.
func ParseHand(s string, limit int) (pips []int, wild []bool, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) > limit {
		return nil, nil, fmt.Errorf("%d cards, at most %d: %w", len(fields), limit, ErrTooManyCards)
	}
	pips = make([]int, len(fields))
	wild = make([]bool, len(fields))
	for i, f := range fields {
		switch strings.ToLower(f) {
		case "w", "*", "wild":
			wild[i] = true
			continue
		case "_", "-":
			continue
		}
		p, err := strconv.Atoi(f)
		if err != nil {
			return nil, nil, fmt.Errorf("position %d: %q: %w", i, f, ErrInvalidPip)
		}
		pips[i] = p
	}
	if err := Validate(pips, wild); err != nil {
		return nil, nil, err
	}
	return pips, wild, nil
}
