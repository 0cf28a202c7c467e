package event

import (
	"context"
)

// EventService defines business logic for event management.
type EventService interface {
	// CreateEvent creates a new event from staff input.
	CreateEvent(ctx context.Context, req CreateEventRequest) (EventResponse, error)

	// GetEvent retrieves a single event by ID.
	GetEvent(ctx context.Context, id string) (EventResponse, error)

	// ListEvents retrieves all events, newest first.
	ListEvents(ctx context.Context) ([]EventResponse, error)

	// UpdateEvent replaces an event's editable fields.
	UpdateEvent(ctx context.Context, req UpdateEventRequest) (EventResponse, error)

	// DeleteEvent removes an event and its attendance records.
	DeleteEvent(ctx context.Context, id string) error

	// RefreshStatuses advances upcoming/ongoing/completed statuses based on
	// the current date. Run periodically by the scheduler.
	RefreshStatuses(ctx context.Context) error
}
