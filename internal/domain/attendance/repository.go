package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Insert creates a new record. The storage layer enforces the uniqueness
	// of (EventID, StudentID, Type); a violation surfaces as
	// ErrAlreadySignedIn or ErrAlreadySignedOut depending on the type, which
	// closes the check-then-insert race under concurrent double submission.
	Insert(ctx context.Context, rec Record) (Record, error)

	// Find retrieves the record matching (eventID, studentID, recordType).
	// Returns (nil, nil) when no record exists.
	Find(ctx context.Context, eventID, studentID, recordType string) (*Record, error)

	// ListByEvent retrieves all records for an event, newest first.
	ListByEvent(ctx context.Context, eventID string) ([]Record, error)

	// ListByStudent retrieves all records for a student across events,
	// newest first.
	ListByStudent(ctx context.Context, studentID string) ([]Record, error)

	// DeleteByEvent removes all records for an event (cascading event
	// deletion).
	DeleteByEvent(ctx context.Context, eventID string) error
}
