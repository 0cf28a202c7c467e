package event

import (
	"context"
)

// EventRepository defines data access methods for events.
type EventRepository interface {
	// Create creates a new event and returns it with its assigned ID.
	Create(ctx context.Context, ev Event) (Event, error)

	// GetByID retrieves an event by its opaque ID.
	GetByID(ctx context.Context, id string) (Event, error)

	// List retrieves all events, newest event date first.
	List(ctx context.Context) ([]Event, error)

	// Update updates an existing event.
	Update(ctx context.Context, ev Event) error

	// UpdateStatus sets only the status field.
	UpdateStatus(ctx context.Context, id string, status string) error

	// Delete removes an event together with its attendance records.
	Delete(ctx context.Context, id string) error
}
