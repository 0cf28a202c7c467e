package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type studentRepository struct {
	db *database.DB
}

const studentColumns = `id, student_id, first_name, last_name, email, course,
	year_level, section, status, created_at, updated_at`

func scanStudent(row pgx.Row) (student.Student, error) {
	var s student.Student
	err := row.Scan(
		&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Email, &s.Course,
		&s.YearLevel, &s.Section, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements student.StudentRepository.
func (r *studentRepository) Create(ctx context.Context, s student.Student) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO students (
			student_id, first_name, last_name, email, course,
			year_level, section, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.StudentID,
		s.FirstName,
		s.LastName,
		s.Email,
		s.Course,
		s.YearLevel,
		s.Section,
		s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return student.Student{}, student.ErrStudentIDExists
		}
		return student.Student{}, fmt.Errorf("failed to create student: %w", err)
	}

	return s, nil
}

// GetByID implements student.StudentRepository.
func (r *studentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	s, err := scanStudent(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return student.Student{}, student.ErrStudentNotFound
		}
		return student.Student{}, fmt.Errorf("failed to get student: %w", err)
	}

	return s, nil
}

// GetByStudentID implements student.StudentRepository.
func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1`

	s, err := scanStudent(q.QueryRow(ctx, query, studentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return student.Student{}, student.ErrStudentNotFound
		}
		return student.Student{}, fmt.Errorf("failed to get student by student ID: %w", err)
	}

	return s, nil
}

// List implements student.StudentRepository.
func (r *studentRepository) List(ctx context.Context) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + studentColumns + ` FROM students ORDER BY last_name, first_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

// ListByStatus implements student.StudentRepository.
func (r *studentRepository) ListByStatus(ctx context.Context, status string) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + studentColumns + ` FROM students WHERE status = $1 ORDER BY last_name, first_name`

	rows, err := q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list students by status: %w", err)
	}
	defer rows.Close()

	return collectStudents(rows)
}

func collectStudents(rows pgx.Rows) ([]student.Student, error) {
	var students []student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// Update implements student.StudentRepository.
func (r *studentRepository) Update(ctx context.Context, s student.Student) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE students
		SET student_id = $2, first_name = $3, last_name = $4, email = $5,
			course = $6, year_level = $7, section = $8, status = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID,
		s.StudentID,
		s.FirstName,
		s.LastName,
		s.Email,
		s.Course,
		s.YearLevel,
		s.Section,
		s.Status,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return student.ErrStudentIDExists
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// Delete implements student.StudentRepository.
func (r *studentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// NewStudentRepository creates a new PostgreSQL student repository
func NewStudentRepository(db *database.DB) student.StudentRepository {
	return &studentRepository{db: db}
}
