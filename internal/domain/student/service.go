package student

import (
	"context"
)

// StudentService defines business logic for student management.
type StudentService interface {
	// CreateStudent creates an approved student from staff entry.
	CreateStudent(ctx context.Context, req CreateStudentRequest) (StudentResponse, error)

	// Register creates a pending, self-registered student account.
	Register(ctx context.Context, req RegisterStudentRequest) (StudentResponse, error)

	// Approve marks a pending registration as approved.
	Approve(ctx context.Context, id string) (StudentResponse, error)

	// Reject deletes a pending registration.
	Reject(ctx context.Context, id string) error

	// GetStudent retrieves a student by opaque ID.
	GetStudent(ctx context.Context, id string) (StudentResponse, error)

	// ListStudents retrieves all students.
	ListStudents(ctx context.Context) ([]StudentResponse, error)

	// ListPending retrieves pending registrations.
	ListPending(ctx context.Context) ([]StudentResponse, error)

	// UpdateStudent replaces a student's editable fields.
	UpdateStudent(ctx context.Context, req UpdateStudentRequest) (StudentResponse, error)

	// UpdateProfile updates the logged-in student's own academic placement.
	// The subject comes from the session claims, never from the request.
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (StudentResponse, error)

	// DeleteStudent removes a student.
	DeleteStudent(ctx context.Context, id string) error
}
