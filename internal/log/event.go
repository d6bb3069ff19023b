package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventNewTurn
	EventDraw
	EventHandFull
	EventPlace
	EventFlip
	EventReveal
	EventReturn
	EventStateChange
	EventEvaluate
	EventDefenseCheck
	EventReflect
	EventBlock
	EventAmbush
	EventCancel
	EventDamage
	EventHeal
	EventHPChange
	EventDrawCount
	EventTurnTimeout
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventHandFull:
		return "HandFull"
	case EventPlace:
		return "Place"
	case EventFlip:
		return "Flip"
	case EventReveal:
		return "Reveal"
	case EventReturn:
		return "Return"
	case EventStateChange:
		return "StateChange"
	case EventEvaluate:
		return "Evaluate"
	case EventDefenseCheck:
		return "DefenseCheck"
	case EventReflect:
		return "Reflect"
	case EventBlock:
		return "Block"
	case EventAmbush:
		return "Ambush"
	case EventCancel:
		return "Cancel"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventHPChange:
		return "HPChange"
	case EventDrawCount:
		return "DrawCount"
	case EventTurnTimeout:
		return "TurnTimeout"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // resolution state name, or "Main" outside a transition
	Player  int       // acting side (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Rule    string    // combination name (if applicable)
	Amount  float64   // score, damage, heal, or draw count (if applicable)
	Details string    // human-readable detail string
}
