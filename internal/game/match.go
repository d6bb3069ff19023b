package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/log"
	"github.com/peterkuimelis/pipduel/internal/planner"
)

// Observer receives every match event in order. Notify is called while the
// match lock is held, so it must not call back into the match.
type Observer interface {
	Notify(ctx context.Context, event log.GameEvent) error
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Rules     config.Rules
	Decks     [2]*Deck // nil uses DefaultDeck
	Logger    log.EventLogger
	Evaluator *combo.Evaluator // nil builds one from Rules.Scoring
	Seed      uint64           // RNG seed (0 for random)
	Observers []Observer
}

// Match owns both sides' hands, slots, and HP, and is the only place they change.
// It is safe for concurrent use.
type Match struct {
	ID     string
	Rules  config.Rules
	Logger log.EventLogger

	mu        sync.Mutex
	ctx       context.Context
	state     MatchState
	started   bool
	hands     [2]*Hand
	slots     [2][]*Slot
	hp        HPState
	decks     [2]*Deck
	rng       *rand.Rand
	ev        *combo.Evaluator
	resolver  *Resolver
	planner   *planner.Planner
	observers []Observer

	seq     int
	over    bool
	winner  int
	result  string
	outcome *Outcome
}

// NewMatch creates a match from the given config. Call Start to deal.
func NewMatch(cfg MatchConfig) (*Match, error) {
	rules := cfg.Rules
	if rules.Match.Slots == 0 {
		rules = config.Default()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	ev := cfg.Evaluator
	if ev == nil {
		ev = combo.New(rules.Scoring)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	m := &Match{
		ID:        uuid.New().String(),
		Rules:     rules,
		Logger:    logger,
		ctx:       context.Background(),
		hp:        NewHPState(rules.Match.MaxHP),
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ev:        ev,
		resolver:  NewResolver(ev, rules),
		planner:   planner.New(ev),
		observers: cfg.Observers,
		winner:    -1,
	}
	for side := range 2 {
		deck := cfg.Decks[side]
		if deck == nil {
			deck = DefaultDeck()
		}
		if len(deck.Pool) == 0 {
			return nil, fmt.Errorf("side %d: %w", side, ErrEmptyDeck)
		}
		m.decks[side] = deck
		m.hands[side] = NewHand(rules.Match.MaxCards)
		m.slots[side] = NewSlots(rules.Match.Slots)
	}
	return m, nil
}

// Start deals the opening hands and begins the player's first turn.
func (m *Match) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("match %s already started", m.ID)
	}
	m.started = true
	m.ctx = ctx

	m.log(log.NewMatchStartEvent(m.ID, m.Rules.Match.MaxHP))
	for side := range 2 {
		m.draw(side, m.Rules.Match.DrawCount)
	}
	m.state = MatchState{Turn: 1, IsPlayerTurn: true, TurnTimer: m.Rules.Match.TurnTime}
	m.log(log.NewTurnEvent(1, SidePlayer))
	return nil
}

// log stamps, records, and broadcasts an event.
func (m *Match) log(event log.GameEvent) {
	m.seq++
	event.Seq = m.seq
	m.Logger.Log(event)
	for _, o := range m.observers {
		o.Notify(m.ctx, event)
	}
}

// draw adds n cards from the side's deck, stopping at a full hand.
func (m *Match) draw(side, n int) {
	for range n {
		if m.hands[side].Full() {
			m.log(log.NewHandFullEvent(m.state.Turn, side, m.Rules.Match.MaxCards))
			return
		}
		c, ok := m.decks[side].Draw(m.rng)
		if !ok {
			return
		}
		m.hands[side].Add(c)
		m.log(log.NewDrawEvent(m.state.Turn, side, c.String()))
	}
}

// mutable checks that side may change its hand and slots right now.
// Caller must hold m.mu.
func (m *Match) mutable(side int) error {
	switch {
	case !validSide(side):
		return fmt.Errorf("side %d: %w", side, ErrBadIndex)
	case !m.started:
		return ErrNotStarted
	case m.over:
		return ErrMatchOver
	case m.state.IsTransitioning:
		return ErrTransitioning
	case m.state.Active() != side:
		return ErrNotYourTurn
	}
	return nil
}

func (m *Match) slot(side, index int) (*Slot, error) {
	if index < 0 || index >= len(m.slots[side]) {
		return nil, fmt.Errorf("slot %d: %w", index, ErrBadIndex)
	}
	return m.slots[side][index], nil
}

// Place moves a card from side's hand into one of its slots.
func (m *Match) Place(side, handIndex, slotIndex int, faceDown bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutable(side); err != nil {
		return err
	}
	s, err := m.slot(side, slotIndex)
	if err != nil {
		return err
	}
	if s.HasCard() {
		return ErrSlotOccupied
	}
	c, err := m.hands[side].Remove(handIndex)
	if err != nil {
		return fmt.Errorf("hand card %d: %w", handIndex, err)
	}
	s.Place(c, faceDown)
	m.log(log.NewPlaceEvent(m.state.Turn, side, c.String(), slotIndex, faceDown))
	return nil
}

// Flip toggles a slotted card between face-up and face-down.
func (m *Match) Flip(side, slotIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutable(side); err != nil {
		return err
	}
	s, err := m.slot(side, slotIndex)
	if err != nil {
		return err
	}
	if err := s.Flip(); err != nil {
		return err
	}
	c, _ := s.Card()
	m.log(log.NewFlipEvent(m.state.Turn, side, c.String(), slotIndex, s.IsFaceDown()))
	return nil
}

// Reveal shows a slotted card without letting it score.
func (m *Match) Reveal(side, slotIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutable(side); err != nil {
		return err
	}
	s, err := m.slot(side, slotIndex)
	if err != nil {
		return err
	}
	if err := s.Reveal(); err != nil {
		return err
	}
	c, _ := s.Card()
	m.log(log.NewRevealEvent(m.state.Turn, side, c.String(), slotIndex))
	return nil
}

// ReturnToHand takes a slotted card back into side's hand unchanged.
func (m *Match) ReturnToHand(side, slotIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutable(side); err != nil {
		return err
	}
	s, err := m.slot(side, slotIndex)
	if err != nil {
		return err
	}
	switch {
	case !s.HasCard():
		return ErrSlotEmpty
	case !s.AllowReturn:
		return ErrReturnLocked
	case m.hands[side].Full():
		return ErrHandFull
	}
	c, _ := s.Release()
	m.hands[side].Add(c)
	m.log(log.NewReturnEvent(m.state.Turn, side, c.String(), slotIndex))
	return nil
}

// Tick advances the turn timer by dt seconds and ends the turn when it runs
// out. The timer is frozen during a transition. Expiry and the start of the
// resolution happen under one lock, so a turn ended concurrently by EndTurn
// can never be followed by a stale timeout on the next turn.
func (m *Match) Tick(dt float64) (*Outcome, bool) {
	m.mu.Lock()
	if !m.started || m.over || m.state.IsTransitioning {
		m.mu.Unlock()
		return nil, false
	}
	m.state.TurnTimer -= dt
	if m.state.TurnTimer > 0 {
		m.mu.Unlock()
		return nil, false
	}
	m.state.TurnTimer = 0
	m.log(log.NewTurnTimeoutEvent(m.state.Turn, m.state.Active()))
	job := m.begin()
	m.mu.Unlock()
	return m.finish(job), true
}

// EndTurn resolves the active side's turn. It returns false without doing
// anything when another resolution is already running or the match is over.
// Once begun, a resolution always runs to completion.
func (m *Match) EndTurn() (*Outcome, bool) {
	m.mu.Lock()
	if !m.started || m.over || m.state.IsTransitioning {
		m.mu.Unlock()
		return nil, false
	}
	job := m.begin()
	m.mu.Unlock()
	return m.finish(job), true
}

// EndTurnFor ends side's turn. Unlike EndTurn it refuses, with the same
// errors as the slot mutators, when side is not the active side, so a request
// that raced a timeout cannot end the following turn.
func (m *Match) EndTurnFor(side int) (*Outcome, error) {
	m.mu.Lock()
	if err := m.mutable(side); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	job := m.begin()
	m.mu.Unlock()
	return m.finish(job), nil
}

// resolution is a turn resolution that has passed the gate.
type resolution struct {
	attacker      int
	attackerSlots []*Slot
	defenderSlots []*Slot
	hp            HPState
}

// begin closes the transition gate and snapshots what the resolver reads.
// Caller must hold m.mu and have checked the gate is open.
func (m *Match) begin() resolution {
	m.state.IsTransitioning = true
	attacker := m.state.Active()
	return resolution{
		attacker:      attacker,
		attackerSlots: cloneSlots(m.slots[attacker]),
		defenderSlots: cloneSlots(m.slots[Opponent(attacker)]),
		hp:            m.hp,
	}
}

// finish runs the resolver outside the lock, then commits and reopens the gate.
func (m *Match) finish(job resolution) *Outcome {
	out := m.resolver.ResolveTurn(job.attacker, job.attackerSlots, job.defenderSlots, job.hp)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(&out)
	m.state.IsTransitioning = false
	return &out
}

// apply commits an outcome: logs it, empties consumed slots, updates HP and
// draw counts, then hands the turn over. Caller must hold m.mu.
func (m *Match) apply(out *Outcome) {
	turn := m.state.Turn
	attacker := out.Attacker
	defender := Opponent(attacker)

	m.logOutcome(turn, out)

	for side := range 2 {
		for _, i := range out.Consumed[side] {
			m.slots[side][i].Release()
		}
	}
	m.hp.Current = out.HP
	// A side's own exchange and the opponent's both add to its next draw.
	for side := range 2 {
		m.state.PendingDrawCount[side] += out.NextDraw[side]
	}
	m.outcome = out

	for _, side := range []int{defender, attacker} {
		if m.hp.Current[side] <= 0 {
			m.over = true
			m.winner = Opponent(side)
			m.result = fmt.Sprintf("%s HP reached 0", log.PlayerName(side))
			m.log(log.NewWinEvent(turn, StateIdle.String(), m.winner, m.result))
			return
		}
	}

	m.state.IsPlayerTurn = !m.state.IsPlayerTurn
	m.state.Turn++
	m.state.TurnTimer = m.Rules.Match.TurnTime
	next := m.state.Active()
	m.log(log.NewTurnEvent(m.state.Turn, next))
	m.draw(next, m.state.PendingDrawCount[next])
	m.state.PendingDrawCount[next] = 0
}

// logOutcome replays an outcome as events in resolution order.
func (m *Match) logOutcome(turn int, out *Outcome) {
	attacker := out.Attacker
	defender := Opponent(attacker)
	states := out.Trace
	step := 0
	advance := func(to ResolutionState) {
		for step+1 < len(states) {
			from := states[step]
			step++
			m.log(log.NewStateChangeEvent(turn, attacker, from.String(), states[step].String()))
			if states[step] == to {
				return
			}
		}
	}

	advance(StateEvaluating)
	phase := StateEvaluating.String()
	m.log(log.NewEvaluateEvent(turn, phase, attacker, "attack", out.Attack.Rule.String(), out.Attack.Score))

	if out.Defense != nil {
		advance(StateDefending)
		phase = StateDefending.String()
		if out.Ambush != nil {
			m.log(log.NewEvaluateEvent(turn, phase, attacker, "ambush", out.Ambush.Rule.String(), out.Ambush.Score))
		}
		allWild := out.Kind == ExchangeReflect
		m.log(log.NewDefenseCheckEvent(turn, phase, defender, out.Defense.Rule.String(), out.Defense.Score, allWild))
		advance(StateDefenseResolved)
		phase = StateDefenseResolved.String()
		switch out.Kind {
		case ExchangeReflect:
			m.log(log.NewReflectEvent(turn, phase, defender, out.Defense.Rule.String(), out.Score))
		case ExchangeBlock:
			m.log(log.NewBlockEvent(turn, phase, defender))
		case ExchangeAmbush:
			m.log(log.NewAmbushEvent(turn, phase, out.Winner, out.RuleNames[out.Winner], out.Score))
		case ExchangeCancel:
			m.log(log.NewCancelEvent(turn, phase, attacker, out.Ambush.Score))
		}
	}

	advance(StateResolving)
	phase = StateResolving.String()
	if out.Winner >= 0 {
		loser := Opponent(out.Winner)
		reason := out.RuleNames[out.Winner]
		if out.Damage > 0 {
			m.log(log.NewDamageEvent(turn, phase, out.Winner, loser, out.Damage))
			old := out.HP[loser] - out.HPDelta[loser]
			m.log(log.NewHPChangeEvent(turn, phase, loser, old, out.HP[loser], reason))
		}
		if out.Heal > 0 {
			m.log(log.NewHealEvent(turn, phase, out.Winner, out.Heal))
			old := out.HP[out.Winner] - out.HPDelta[out.Winner]
			m.log(log.NewHPChangeEvent(turn, phase, out.Winner, old, out.HP[out.Winner], reason))
		}
	}

	advance(StateDrawPending)
	phase = StateDrawPending.String()
	for side := range 2 {
		m.log(log.NewDrawCountEvent(turn, phase, side, out.NextDraw[side]))
	}
	advance(StateIdle)
}

func cloneSlots(slots []*Slot) []*Slot {
	out := make([]*Slot, len(slots))
	for i, s := range slots {
		out[i] = s.clone()
	}
	return out
}

// --- Read-only queries, allowed during a transition ---

// State returns a copy of the turn bookkeeping.
func (m *Match) State() MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// HP returns both sides' hit points.
func (m *Match) HP() HPState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hp
}

// Over reports whether the match has ended, its winner, and why.
func (m *Match) Over() (bool, int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.over, m.winner, m.result
}

// Hand returns a copy of side's hand.
func (m *Match) Hand(side int) []Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hands[side].Cards()
}

// LastOutcome returns the most recent resolution, or nil before the first.
func (m *Match) LastOutcome() *Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

// SlotView is a read-only copy of one slot.
type SlotView struct {
	State    SlotState
	FaceDown bool
	Card     Card
}

// Slots returns copies of side's slots.
func (m *Match) Slots(side int) []SlotView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slotViews(m.slots[side])
}

func slotViews(slots []*Slot) []SlotView {
	out := make([]SlotView, len(slots))
	for i, s := range slots {
		c, _ := s.Card()
		out[i] = SlotView{State: s.State(), FaceDown: s.IsFaceDown(), Card: c}
	}
	return out
}

// Snapshot is a consistent copy of everything a client needs to draw the
// match, indexed by side.
type Snapshot struct {
	ID     string
	State  MatchState
	HP     HPState
	Over   bool
	Winner int
	Result string
	Hands  [2][]Card
	Slots  [2][]SlotView
	Boards [2]combo.Result
}

// Snapshot copies the match under a single lock, so no action can land
// between reading the state and reading the board.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	snap := Snapshot{
		ID:     m.ID,
		State:  m.state,
		HP:     m.hp,
		Over:   m.over,
		Winner: m.winner,
		Result: m.result,
	}
	var boards [2][]*Slot
	for side := range 2 {
		snap.Hands[side] = m.hands[side].Cards()
		snap.Slots[side] = slotViews(m.slots[side])
		boards[side] = cloneSlots(m.slots[side])
	}
	m.mu.Unlock()
	for side := range 2 {
		snap.Boards[side] = m.resolver.evaluate(collect(boards[side], (*Slot).HasVisibleCard))
	}
	return snap
}

// Board evaluates side's face-up scoring cards, for highlighting.
func (m *Match) Board(side int) combo.Result {
	m.mu.Lock()
	slots := cloneSlots(m.slots[side])
	m.mu.Unlock()
	return m.resolver.evaluate(collect(slots, (*Slot).HasVisibleCard))
}
