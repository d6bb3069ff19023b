package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.record(event)
}

// record stamps the sequence number and stores the event.
func (l *MemoryLogger) record(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// Since returns the events with a sequence number greater than seq.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.events {
		if e.Seq > seq {
			return append([]GameEvent(nil), l.events[i:]...)
		}
	}
	return nil
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	fmt.Fprintln(l.w, FormatEvent(l.record(event)))
}

// --- Formatting ---

// PlayerName returns "P1" or "P2" for display.
func PlayerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(matchID string, maxHP float64) GameEvent {
	return GameEvent{
		Phase:   "Main",
		Type:    EventMatchStart,
		Amount:  maxHP,
		Details: fmt.Sprintf("Match %s begins (%.0f HP each)", matchID, maxHP),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, PlayerName(player)),
	}
}

func NewDrawEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", PlayerName(player), cardName),
	}
}

func NewHandFullEvent(turn int, player int, maxCards int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventHandFull,
		Amount:  float64(maxCards),
		Details: fmt.Sprintf("%s hand is full (%d cards), draw skipped", PlayerName(player), maxCards),
	}
}

func NewPlaceEvent(turn int, player int, cardName string, slot int, faceDown bool) GameEvent {
	face := "face-up"
	if faceDown {
		face = "face-down"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventPlace,
		Card:    cardName,
		Details: fmt.Sprintf("%s places %s %s in slot %d", PlayerName(player), cardName, face, slot+1),
	}
}

func NewFlipEvent(turn int, player int, cardName string, slot int, faceDown bool) GameEvent {
	face := "face-up"
	if faceDown {
		face = "face-down"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventFlip,
		Card:    cardName,
		Details: fmt.Sprintf("%s flips slot %d %s", PlayerName(player), slot+1, face),
	}
}

func NewRevealEvent(turn int, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventReveal,
		Card:    cardName,
		Details: fmt.Sprintf("%s reveals %s in slot %d (not scored)", PlayerName(player), cardName, slot+1),
	}
}

func NewReturnEvent(turn int, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventReturn,
		Card:    cardName,
		Details: fmt.Sprintf("%s returns %s from slot %d to hand", PlayerName(player), cardName, slot+1),
	}
}

func NewStateChangeEvent(turn int, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   to,
		Player:  player,
		Type:    EventStateChange,
		Details: fmt.Sprintf("%s → %s", from, to),
	}
}

func NewEvaluateEvent(turn int, phase string, player int, role string, rule string, score float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvaluate,
		Rule:    rule,
		Amount:  score,
		Details: fmt.Sprintf("%s %s: %s (%.1f)", PlayerName(player), role, rule, score),
	}
}

func NewDefenseCheckEvent(turn int, phase string, player int, rule string, score float64, allWild bool) GameEvent {
	details := fmt.Sprintf("%s defends with %s (%.1f)", PlayerName(player), rule, score)
	if allWild {
		details += " [all wild]"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDefenseCheck,
		Rule:    rule,
		Amount:  score,
		Details: details,
	}
}

func NewReflectEvent(turn int, phase string, player int, rule string, score float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventReflect,
		Rule:    rule,
		Amount:  score,
		Details: fmt.Sprintf("%s reflects the attack with %s (%.1f)", PlayerName(player), rule, score),
	}
}

func NewBlockEvent(turn int, phase string, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventBlock,
		Details: fmt.Sprintf("%s blocks the attack completely", PlayerName(player)),
	}
}

func NewAmbushEvent(turn int, phase string, winner int, rule string, score float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventAmbush,
		Rule:    rule,
		Amount:  score,
		Details: fmt.Sprintf("%s wins the ambush with %s (%.1f)", PlayerName(winner), rule, score),
	}
}

func NewCancelEvent(turn int, phase string, player int, score float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCancel,
		Amount:  score,
		Details: fmt.Sprintf("Ambush tied at %.1f, both sides cancel", score),
	}
}

func NewDamageEvent(turn int, phase string, player int, target int, amount float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Amount:  amount,
		Details: fmt.Sprintf("%s deals %.1f damage to %s", PlayerName(player), amount, PlayerName(target)),
	}
}

func NewHealEvent(turn int, phase string, player int, amount float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHeal,
		Amount:  amount,
		Details: fmt.Sprintf("%s heals %.1f", PlayerName(player), amount),
	}
}

func NewHPChangeEvent(turn int, phase string, player int, oldHP, newHP float64, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHPChange,
		Amount:  newHP - oldHP,
		Details: fmt.Sprintf("%s HP: %.1f → %.1f (%s)", PlayerName(player), oldHP, newHP, reason),
	}
}

func NewDrawCountEvent(turn int, phase string, player int, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDrawCount,
		Amount:  float64(count),
		Details: fmt.Sprintf("%s will draw %d next turn", PlayerName(player), count),
	}
}

func NewTurnTimeoutEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventTurnTimeout,
		Details: fmt.Sprintf("%s ran out of time", PlayerName(player)),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", PlayerName(winner), reason),
	}
}
