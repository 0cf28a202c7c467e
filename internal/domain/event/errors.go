package event

import "errors"

// Event domain errors
var (
	ErrEventNotFound = errors.New("event not found")

	// Scan window errors. ErrEventNotStarted and ErrEventEnded are the two
	// faces of the same rejection (event date is not today), kept separate so
	// the scanner can show which side of today the event falls on.
	ErrEventNotStarted = errors.New("this event has not started yet")
	ErrEventEnded      = errors.New("this event has already ended")
	ErrWindowNotOpen   = errors.New("session window not open yet")
	ErrWindowClosed    = errors.New("session window already closed")
)
