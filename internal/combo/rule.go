package combo

// Rule is a combination category. Higher ordinals rank higher.
type Rule int

const (
	RuleNone Rule = iota
	RuleHighCard
	RuleOnePair
	RuleTwoPair
	RuleTriple
	RuleStraightLow
	RuleStraightHigh
	RuleFullHouse
	RuleFourOfAKind
	RuleFiveOfAKind
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleHighCard:
		return "High Card"
	case RuleOnePair:
		return "One Pair"
	case RuleTwoPair:
		return "Two Pair"
	case RuleTriple:
		return "Triple"
	case RuleStraightLow:
		return "Straight Low"
	case RuleStraightHigh:
		return "Straight High"
	case RuleFullHouse:
		return "Full House"
	case RuleFourOfAKind:
		return "Four of a Kind"
	case RuleFiveOfAKind:
		return "Five of a Kind"
	default:
		return "Unknown"
	}
}

// Rules lists every category from lowest to highest.
func Rules() []Rule {
	return []Rule{
		RuleNone, RuleHighCard, RuleOnePair, RuleTwoPair, RuleTriple,
		RuleStraightLow, RuleStraightHigh, RuleFullHouse, RuleFourOfAKind, RuleFiveOfAKind,
	}
}

// ParseRule returns the category with the given display name.
func ParseRule(name string) (Rule, bool) {
	for _, r := range Rules() {
		if r.String() == name {
			return r, true
		}
	}
	return RuleNone, false
}
