package game

import "errors"

var (
	ErrTransitioning = errors.New("turn transition in progress")
	ErrNotYourTurn   = errors.New("not this side's turn")
	ErrMatchOver     = errors.New("match is over")
	ErrNotStarted    = errors.New("match has not started")
	ErrSlotOccupied  = errors.New("slot is occupied")
	ErrSlotEmpty     = errors.New("slot is empty")
	ErrSlotRevealed  = errors.New("slot holds a revealed card")
	ErrReturnLocked  = errors.New("slot does not allow returns")
	ErrHandFull      = errors.New("hand is full")
	ErrBadIndex      = errors.New("index out of range")
	ErrEmptyDeck     = errors.New("deck has no cards")
)
