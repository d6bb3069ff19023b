package game

// Hand is the ordered set of cards a side can place, bounded by max.
type Hand struct {
	cards []Card
	max   int
}

func NewHand(max int) *Hand {
	return &Hand{max: max}
}

func (h *Hand) Len() int {
	return len(h.cards)
}

func (h *Hand) Full() bool {
	return len(h.cards) >= h.max
}

// Cards returns a copy of the hand.
func (h *Hand) Cards() []Card {
	return append([]Card(nil), h.cards...)
}

func (h *Hand) Card(i int) (Card, bool) {
	if i < 0 || i >= len(h.cards) {
		return Card{}, false
	}
	return h.cards[i], true
}

func (h *Hand) Add(c Card) error {
	if h.Full() {
		return ErrHandFull
	}
	h.cards = append(h.cards, c)
	return nil
}

// Remove takes the card at index i out of the hand.
func (h *Hand) Remove(i int) (Card, error) {
	if i < 0 || i >= len(h.cards) {
		return Card{}, ErrBadIndex
	}
	c := h.cards[i]
	h.cards = append(h.cards[:i], h.cards[i+1:]...)
	return c, nil
}

// HPState holds both sides' hit points.
type HPState struct {
	Current [2]float64
	Max     float64
}

func NewHPState(max float64) HPState {
	return HPState{Current: [2]float64{max, max}, Max: max}
}

// Damage lowers a side's HP, never below zero.
func (h *HPState) Damage(side int, amount float64) (old, updated float64) {
	old = h.Current[side]
	h.Current[side] = max(old-amount, 0)
	return old, h.Current[side]
}

// Heal raises a side's HP, never above Max.
func (h *HPState) Heal(side int, amount float64) (old, updated float64) {
	old = h.Current[side]
	h.Current[side] = min(old+amount, h.Max)
	return old, h.Current[side]
}

// MatchState is the turn bookkeeping. Only turn resolution mutates it.
type MatchState struct {
	Turn             int
	IsPlayerTurn     bool
	TurnTimer        float64 // seconds left in the current turn
	IsTransitioning  bool
	PendingDrawCount [2]int
}

// Active returns the side whose turn it is.
func (s MatchState) Active() int {
	if s.IsPlayerTurn {
		return SidePlayer
	}
	return SideOpponent
}
