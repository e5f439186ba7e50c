package engine

import "errors"

// Command rejection errors. Every mutating command either succeeds or
// rejects with one of these, leaving state untouched. None are fatal.
var (
	ErrInsufficientFunds      = errors.New("insufficient gold")
	ErrInsufficientMaterials  = errors.New("insufficient materials")
	ErrSlotBusy               = errors.New("production slot is busy")
	ErrNoActiveEvent          = errors.New("no active event")
	ErrEventNotAwaitingChoice = errors.New("active event is not awaiting a choice")
	ErrInvalidChoice          = errors.New("invalid event choice")
	ErrGameOver               = errors.New("game is over")
	ErrNotStarted             = errors.New("game has not started")
	ErrNotFound               = errors.New("not found")
)
