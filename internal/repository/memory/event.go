// Package memory provides in-memory repository implementations backing the
// service test suites. They honor the same contracts as the PostgreSQL
// repositories, including uniqueness enforcement on insert.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/google/uuid"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]event.Event)}
}

func (r *EventRepository) Create(ctx context.Context, ev event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()
	ev.UpdatedAt = ev.CreatedAt
	r.events[ev.ID] = ev
	return ev, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	return ev, nil
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]event.Event, 0, len(r.events))
	for _, ev := range r.events {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].EventDate != events[j].EventDate {
			return events[i].EventDate > events[j].EventDate
		}
		return events[i].SignInStart > events[j].SignInStart
	})
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, ev event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.events[ev.ID]
	if !ok {
		return event.ErrEventNotFound
	}
	ev.CreatedAt = existing.CreatedAt
	ev.UpdatedAt = time.Now().UTC()
	r.events[ev.ID] = ev
	return nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return event.ErrEventNotFound
	}
	ev.Status = status
	ev.UpdatedAt = time.Now().UTC()
	r.events[id] = ev
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return event.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}
