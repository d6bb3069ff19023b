package game

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Sides ---

const (
	SidePlayer   = 0
	SideOpponent = 1
)

// Opponent returns the other side.
func Opponent(side int) int {
	return 1 - side
}

func validSide(side int) bool {
	return side == SidePlayer || side == SideOpponent
}

// --- Enums ---

// Role decides how a card's share of a winning score is applied.
type Role int

const (
	RoleAttack Role = iota
	RoleCritical
	RoleHeal
)

func (r Role) String() string {
	switch r {
	case RoleAttack:
		return "Attack"
	case RoleCritical:
		return "Critical"
	case RoleHeal:
		return "Heal"
	default:
		return "Unknown"
	}
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "attack":
		return RoleAttack, nil
	case "critical":
		return RoleCritical, nil
	case "heal":
		return RoleHeal, nil
	}
	return RoleAttack, fmt.Errorf("unknown role %q", s)
}

func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseRole(value.Value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalYAML() (interface{}, error) {
	return strings.ToLower(r.String()), nil
}

type FaceStatus int

const (
	FaceUp FaceStatus = iota
	FaceDown
)

func (f FaceStatus) String() string {
	if f == FaceDown {
		return "face-down"
	}
	return "face-up"
}

// --- Card ---

// Card is a drawn card. It is a value: moving it between hand and slots
// copies it unchanged.
type Card struct {
	Name      string
	Pip       int  // 1-6; ignored for wild cards
	Wild      bool // joker, resolved by the evaluator
	Role      Role
	PoolIndex int // position in the deck pool it was drawn from
}

// Face returns "W" for a wild card, otherwise the pip.
func (c Card) Face() string {
	if c.Wild {
		return "W"
	}
	return strconv.Itoa(c.Pip)
}

func (c Card) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s %s", c.Face(), c.Role)
}
