package postgresql

import (
	"context"
	"fmt"

	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type eventRepository struct {
	db *database.DB
}

// Create implements event.EventRepository.
func (r *eventRepository) Create(ctx context.Context, ev event.Event) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO events (
			title, description, event_date, venue,
			sign_in_start, sign_in_end, sign_out_start, sign_out_end,
			grace_period_minutes, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ev.Title,
		ev.Description,
		ev.EventDate,
		ev.Venue,
		ev.SignInStart,
		ev.SignInEnd,
		ev.SignOutStart,
		ev.SignOutEnd,
		ev.GracePeriodMinutes,
		ev.Status,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)

	if err != nil {
		return event.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	return ev, nil
}

// GetByID implements event.EventRepository.
func (r *eventRepository) GetByID(ctx context.Context, id string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, description, event_date, venue,
			   sign_in_start, sign_in_end, sign_out_start, sign_out_end,
			   grace_period_minutes, status, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var ev event.Event
	err := q.QueryRow(ctx, query, id).Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.Venue,
		&ev.SignInStart, &ev.SignInEnd, &ev.SignOutStart, &ev.SignOutEnd,
		&ev.GracePeriodMinutes, &ev.Status, &ev.CreatedAt, &ev.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, fmt.Errorf("failed to get event: %w", err)
	}

	return ev, nil
}

// List implements event.EventRepository.
func (r *eventRepository) List(ctx context.Context) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, description, event_date, venue,
			   sign_in_start, sign_in_end, sign_out_start, sign_out_end,
			   grace_period_minutes, status, created_at, updated_at
		FROM events
		ORDER BY event_date DESC, sign_in_start DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var ev event.Event
		if err := rows.Scan(
			&ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.Venue,
			&ev.SignInStart, &ev.SignInEnd, &ev.SignOutStart, &ev.SignOutEnd,
			&ev.GracePeriodMinutes, &ev.Status, &ev.CreatedAt, &ev.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// Update implements event.EventRepository.
func (r *eventRepository) Update(ctx context.Context, ev event.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE events
		SET title = $2, description = $3, event_date = $4, venue = $5,
			sign_in_start = $6, sign_in_end = $7, sign_out_start = $8, sign_out_end = $9,
			grace_period_minutes = $10, status = $11, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		ev.ID,
		ev.Title,
		ev.Description,
		ev.EventDate,
		ev.Venue,
		ev.SignInStart,
		ev.SignInEnd,
		ev.SignOutStart,
		ev.SignOutEnd,
		ev.GracePeriodMinutes,
		ev.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrEventNotFound
	}

	return nil
}

// UpdateStatus implements event.EventRepository.
func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrEventNotFound
	}

	return nil
}

// Delete implements event.EventRepository. The event and its attendance
// records go in one transaction.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM attendance_records WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete event attendance: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return event.ErrEventNotFound
		}
		return nil
	})
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepository{db: db}
}
