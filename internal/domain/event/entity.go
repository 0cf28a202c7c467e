package event

import (
	"time"
)

// Event statuses
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DefaultGracePeriodMinutes applies when an event is created without an
// explicit grace period.
const DefaultGracePeriodMinutes = 15

type Event struct {
	ID          string
	Title       string
	Description string
	EventDate   string // "YYYY-MM-DD"
	Venue       string

	// Session windows, zero-padded 24-hour "HH:MM". Window comparisons are
	// lexical on this canonical form.
	SignInStart  string
	SignInEnd    string
	SignOutStart string
	SignOutEnd   string

	GracePeriodMinutes int
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
