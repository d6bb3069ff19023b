package combo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/peterkuimelis/pipduel/internal/config"
)

const (
	MinPip = 1
	MaxPip = 6
)

var ErrInvalidPip = errors.New("invalid pip")

// Result is the outcome of evaluating one hand.
type Result struct {
	Rule  Rule
	Score float64
	// Mask marks the input positions that belong to the winning category.
	Mask []bool
	// Pips are the input pips with wilds replaced by their resolved values.
	// Empty positions stay 0.
	Pips []int
}

// Compare orders results by category, then by score.
func Compare(a, b Result) int {
	switch {
	case a.Rule != b.Rule:
		if a.Rule > b.Rule {
			return 1
		}
		return -1
	case a.Score > b.Score:
		return 1
	case a.Score < b.Score:
		return -1
	}
	return 0
}

// Contributors returns how many positions the mask marks.
func (r Result) Contributors() int {
	n := 0
	for _, m := range r.Mask {
		if m {
			n++
		}
	}
	return n
}

// Evaluator scores hands against a scoring table. It holds no mutable state.
type Evaluator struct {
	s config.Scoring
}

func New(s config.Scoring) *Evaluator {
	return &Evaluator{s: s}
}

// Default returns an evaluator over the standard scoring table.
func Default() *Evaluator {
	return New(config.Default().Scoring)
}

// Validate reports the first non-wild pip outside 0..6. Zero marks an empty position.
func Validate(pips []int, wild []bool) error {
	for i, p := range pips {
		if isWild(wild, i) {
			continue
		}
		if p < 0 || p > MaxPip {
			return fmt.Errorf("%w: position %d has pip %d", ErrInvalidPip, i, p)
		}
	}
	return nil
}

// Evaluate returns the best combination of pips. wild[i] marks position i as a
// wild card whose pip is ignored and resolved jointly with the other wilds.
// A non-wild pip of 0 is an empty position; out-of-range pips are clamped.
func (e *Evaluator) Evaluate(pips []int, wild []bool) Result {
	trial := make([]int, len(pips))
	var wilds []int
	var present [MaxPip + 1]bool
	for i, p := range pips {
		if isWild(wild, i) {
			wilds = append(wilds, i)
			continue
		}
		trial[i] = clampPip(p)
		present[trial[i]] = true
	}
	if len(wilds) == 0 {
		return e.score(trial)
	}

	// Wilds are interchangeable, so only non-decreasing assignments are tried.
	// They are visited in lexicographic order, which makes the earliest of
	// equally good assignments the lexicographically smallest one overall.
	assign := make([]int, len(wilds))
	for j := range assign {
		assign[j] = MinPip
	}
	var best Result
	bestFresh := -1
	for {
		for j, i := range wilds {
			trial[i] = assign[j]
		}
		r := e.score(trial)
		fresh := freshPips(assign, present)
		c := Compare(r, best)
		if bestFresh < 0 || c > 0 || (c == 0 && fresh < bestFresh) {
			best, bestFresh = r, fresh
		}
		if !nextAssignment(assign) {
			break
		}
	}
	return best
}

// nextAssignment advances a non-decreasing sequence over MinPip..MaxPip.
func nextAssignment(a []int) bool {
	j := len(a) - 1
	for j >= 0 && a[j] == MaxPip {
		j--
	}
	if j < 0 {
		return false
	}
	v := a[j] + 1
	for k := j; k < len(a); k++ {
		a[k] = v
	}
	return true
}

// freshPips counts distinct assigned values not already on the hand.
func freshPips(assign []int, present [MaxPip + 1]bool) int {
	var seen [MaxPip + 1]bool
	n := 0
	for _, v := range assign {
		if !present[v] && !seen[v] {
			seen[v] = true
			n++
		}
	}
	return n
}

func isWild(wild []bool, i int) bool {
	return i < len(wild) && wild[i]
}

func clampPip(p int) int {
	switch {
	case p == 0:
		return 0
	case p < MinPip:
		return MinPip
	case p > MaxPip:
		return MaxPip
	}
	return p
}

// hand tracks which positions a category has consumed.
type hand struct {
	pips   []int
	used   []bool
	counts [MaxPip + 1]int
	size   int
}

func newHand(pips []int) *hand {
	h := &hand{pips: pips, used: make([]bool, len(pips))}
	for _, p := range pips {
		if p != 0 {
			h.counts[p]++
			h.size++
		}
	}
	return h
}

// highest returns the largest pip appearing at least n times, skipping except.
func (h *hand) highest(n, except int) int {
	for p := MaxPip; p >= MinPip; p-- {
		if p != except && h.counts[p] >= n {
			return p
		}
	}
	return 0
}

// take marks the first n unused occurrences of pip by position.
func (h *hand) take(pip, n int) {
	for i, p := range h.pips {
		if n == 0 {
			return
		}
		if p == pip && !h.used[i] {
			h.used[i] = true
			n--
		}
	}
}

// kickers returns the n highest unused pips, padded with zeros.
func (h *hand) kickers(n int) []int {
	var rest []int
	for i, p := range h.pips {
		if p != 0 && !h.used[i] {
			rest = append(rest, p)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rest)))
	out := make([]int, n)
	copy(out, rest)
	return out
}

func (h *hand) hasAll(from, to int) bool {
	for p := from; p <= to; p++ {
		if h.counts[p] == 0 {
			return false
		}
	}
	return true
}

func weigh(pips []int, weights []float64) float64 {
	var sum float64
	for i, w := range weights {
		if i < len(pips) {
			sum += float64(pips[i]) * w
		}
	}
	return sum
}

// score evaluates fully resolved pips.
func (e *Evaluator) score(in []int) Result {
	pips := append([]int(nil), in...)
	h := newHand(pips)
	res := Result{Pips: pips}
	s := e.s

	switch {
	case h.size == 0:
		res.Rule = RuleNone

	case h.highest(5, 0) > 0:
		p := h.highest(5, 0)
		h.take(p, 5)
		res.Rule = RuleFiveOfAKind
		res.Score = s.FiveOfAKindBase + float64(p)*s.FiveOfAKindPip

	case h.highest(4, 0) > 0:
		p := h.highest(4, 0)
		h.take(p, 4)
		k := h.kickers(1)
		res.Rule = RuleFourOfAKind
		res.Score = s.FourOfAKindBase + float64(p)*s.FourOfAKindQuad + float64(k[0])*s.FourOfAKindKicker

	case h.highest(3, 0) > 0 && h.highest(2, h.highest(3, 0)) > 0:
		t := h.highest(3, 0)
		p := h.highest(2, t)
		h.take(t, 3)
		h.take(p, 2)
		res.Rule = RuleFullHouse
		res.Score = s.FullHouseBase + float64(t)*s.FullHouseTriple + float64(p)*s.FullHousePair

	case h.hasAll(2, 6):
		for p := 2; p <= 6; p++ {
			h.take(p, 1)
		}
		res.Rule = RuleStraightHigh
		res.Score = s.StraightHigh

	case h.hasAll(1, 5):
		for p := 1; p <= 5; p++ {
			h.take(p, 1)
		}
		res.Rule = RuleStraightLow
		res.Score = s.StraightLow

	case h.highest(3, 0) > 0:
		t := h.highest(3, 0)
		h.take(t, 3)
		res.Rule = RuleTriple
		res.Score = s.TripleBase + float64(t)*s.TriplePip + weigh(h.kickers(len(s.TripleKickers)), s.TripleKickers)

	case h.highest(2, 0) > 0 && h.highest(2, h.highest(2, 0)) > 0:
		big := h.highest(2, 0)
		small := h.highest(2, big)
		h.take(big, 2)
		h.take(small, 2)
		k := h.kickers(1)
		res.Rule = RuleTwoPair
		res.Score = s.TwoPairBase + float64(big)*s.TwoPairBig + float64(small)*s.TwoPairSmall + float64(k[0])*s.TwoPairKicker

	case h.highest(2, 0) > 0:
		p := h.highest(2, 0)
		h.take(p, 2)
		res.Rule = RuleOnePair
		res.Score = s.OnePairBase + float64(p)*s.OnePairPip + weigh(h.kickers(len(s.OnePairKickers)), s.OnePairKickers)

	default:
		top := h.kickers(max(1, len(s.HighCardWeights)))
		h.take(top[0], 1)
		res.Rule = RuleHighCard
		res.Score = weigh(top, s.HighCardWeights)
	}

	res.Mask = h.used
	return res
}
