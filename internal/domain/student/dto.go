package student

import (
	"github.com/KilluwheQT/qrams2.0/internal/pkg/validator"
)

// ========================================
// STUDENT DTOs
// ========================================

type CreateStudentRequest struct {
	StudentID string `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Course    string `json:"course"`
	YearLevel string `json:"year_level"`
	Section   string `json:"section"`
}

func (r *CreateStudentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{Field: "student_id", Message: "student_id is required"})
	} else if !validator.IsValidStudentID(r.StudentID) {
		errs = append(errs, validator.ValidationError{Field: "student_id", Message: "student_id must look like 2021-00123"})
	}
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email address"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RegisterStudentRequest is the self-registration variant; the resulting
// account stays pending until staff approve it.
type RegisterStudentRequest struct {
	CreateStudentRequest
}

type UpdateStudentRequest struct {
	ID string `json:"-"`
	CreateStudentRequest
}

// UpdateProfileRequest is the student-facing self-service edit. Only academic
// placement is editable; identity fields stay staff-managed.
type UpdateProfileRequest struct {
	Course    string `json:"course"`
	YearLevel string `json:"year_level"`
	Section   string `json:"section"`
}

type StudentResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Course    string `json:"course,omitempty"`
	YearLevel string `json:"year_level,omitempty"`
	Section   string `json:"section,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
