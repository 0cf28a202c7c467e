package attendance

import (
	"context"
)

// AttendanceService defines business logic for scan recording and reporting.
type AttendanceService interface {
	// RecordScan runs the full scan pipeline for the session's student:
	// payload validation, token freshness, event lookup, window evaluation,
	// duplicate rejection, then a durable insert with a server-assigned
	// timestamp.
	RecordScan(ctx context.Context, req ScanRequest) (RecordResponse, error)

	// GetEventSummary classifies every roster member against the event's
	// records. Recomputed from current data on every call; never cached.
	GetEventSummary(ctx context.Context, eventID string) (EventSummary, error)

	// ListEventAttendance lists an event's raw records, newest first.
	ListEventAttendance(ctx context.Context, eventID string) ([]RecordResponse, error)

	// ListMyAttendance lists the session student's records across events.
	ListMyAttendance(ctx context.Context) ([]RecordResponse, error)
}
