package student

import (
	"time"
)

// Registration statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

type Student struct {
	ID string // opaque document ID

	// StudentID is the institutional business key ("2021-00123"), unique
	// across all students. Attendance operations key on this, not on ID.
	StudentID string

	FirstName string
	LastName  string
	Email     string
	Course    string
	YearLevel string
	Section   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name used on scan confirmations and reports.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
