package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

const recordColumns = `id, event_id, student_id, type, timestamp,
	student_name, event_title, created_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EventID, &rec.StudentID, &rec.Type, &rec.Timestamp,
		&rec.StudentName, &rec.EventTitle, &rec.CreatedAt,
	)
	return rec, err
}

// Insert implements attendance.AttendanceRepository. The unique index on
// (event_id, student_id, type) makes concurrent double submission lose
// deterministically; the violation maps to the matching duplicate error.
func (r *attendanceRepository) Insert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			event_id, student_id, type, timestamp, student_name, event_title
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		rec.EventID,
		rec.StudentID,
		rec.Type,
		rec.Timestamp,
		rec.StudentName,
		rec.EventTitle,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if rec.Type == attendance.TypeSignOut {
				return attendance.Record{}, attendance.ErrAlreadySignedOut
			}
			return attendance.Record{}, attendance.ErrAlreadySignedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return rec, nil
}

// Find implements attendance.AttendanceRepository.
func (r *attendanceRepository) Find(ctx context.Context, eventID, studentID, recordType string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE event_id = $1 AND student_id = $2 AND type = $3
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, eventID, studentID, recordType))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance record: %w", err)
	}

	return &rec, nil
}

// ListByEvent implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE event_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by event: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListByStudent implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE student_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := q.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by student: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// DeleteByEvent implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete attendance by event: %w", err)
	}

	return nil
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository
func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
