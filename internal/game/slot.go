package game

// SlotState is the occupancy of a slot.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotOccupied
	// SlotRevealedOnly holds a card shown for display that never scores.
	SlotRevealedOnly
)

func (s SlotState) String() string {
	switch s {
	case SlotOccupied:
		return "Occupied"
	case SlotRevealedOnly:
		return "RevealedOnly"
	default:
		return "Empty"
	}
}

// Slot is a fixed board position holding at most one card.
// A nil *Slot behaves as an empty slot for every query.
type Slot struct {
	card        Card
	state       SlotState
	face        FaceStatus
	AllowReturn bool
}

func NewSlot() *Slot {
	return &Slot{AllowReturn: true}
}

// NewSlots returns n empty slots.
func NewSlots(n int) []*Slot {
	slots := make([]*Slot, n)
	for i := range slots {
		slots[i] = NewSlot()
	}
	return slots
}

func (s *Slot) State() SlotState {
	if s == nil {
		return SlotEmpty
	}
	return s.state
}

func (s *Slot) HasCard() bool {
	return s.State() != SlotEmpty
}

// HasVisibleCard reports a face-up card that counts toward scoring.
func (s *Slot) HasVisibleCard() bool {
	return s.State() == SlotOccupied && s.face == FaceUp
}

// IsFaceDown reports a face-down card, the only kind used for defense.
func (s *Slot) IsFaceDown() bool {
	return s.State() == SlotOccupied && s.face == FaceDown
}

// Card returns the held card.
func (s *Slot) Card() (Card, bool) {
	if !s.HasCard() {
		return Card{}, false
	}
	return s.card, true
}

func (s *Slot) Place(c Card, faceDown bool) error {
	if s == nil {
		return ErrBadIndex
	}
	if s.HasCard() {
		return ErrSlotOccupied
	}
	s.card = c
	s.state = SlotOccupied
	s.face = FaceUp
	if faceDown {
		s.face = FaceDown
	}
	return nil
}

// Release removes and returns the card, restoring the slot to empty face-up.
func (s *Slot) Release() (Card, bool) {
	if !s.HasCard() {
		return Card{}, false
	}
	c := s.card
	s.card = Card{}
	s.state = SlotEmpty
	s.face = FaceUp
	return c, true
}

// Flip toggles an occupied card between face-up and face-down.
func (s *Slot) Flip() error {
	switch s.State() {
	case SlotEmpty:
		return ErrSlotEmpty
	case SlotRevealedOnly:
		return ErrSlotRevealed
	}
	if s.face == FaceUp {
		s.face = FaceDown
	} else {
		s.face = FaceUp
	}
	return nil
}

// Reveal shows the card face-up without letting it score.
func (s *Slot) Reveal() error {
	switch s.State() {
	case SlotEmpty:
		return ErrSlotEmpty
	case SlotRevealedOnly:
		return ErrSlotRevealed
	}
	s.state = SlotRevealedOnly
	s.face = FaceUp
	return nil
}

func (s *Slot) clone() *Slot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
