package student

import (
	"context"
)

// StudentRepository defines data access methods for students.
type StudentRepository interface {
	// Create creates a new student and returns it with its assigned ID.
	Create(ctx context.Context, s Student) (Student, error)

	// GetByID retrieves a student by opaque document ID.
	GetByID(ctx context.Context, id string) (Student, error)

	// GetByStudentID retrieves a student by the institutional business key.
	GetByStudentID(ctx context.Context, studentID string) (Student, error)

	// List retrieves all students ordered by last name. This is the roster
	// the summary aggregator joins attendance records against.
	List(ctx context.Context) ([]Student, error)

	// ListByStatus retrieves students filtered by registration status.
	ListByStatus(ctx context.Context, status string) ([]Student, error)

	// Update updates an existing student.
	Update(ctx context.Context, s Student) error

	// Delete removes a student.
	Delete(ctx context.Context, id string) error
}
