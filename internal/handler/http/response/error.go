package response

import (
	"errors"
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/qrtoken"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Scan rejections carry
// their domain message through to the client verbatim; the scanner shows it
// to the student as-is.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Token errors
	case errors.Is(err, qrtoken.ErrMissingToken):
		BadRequest(w, "TOKEN_MISSING", err.Error())
	case errors.Is(err, qrtoken.ErrExpired):
		BadRequest(w, "TOKEN_EXPIRED", err.Error())

	// Event domain errors
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Event not found")
	case errors.Is(err, event.ErrEventNotStarted),
		errors.Is(err, event.ErrEventEnded),
		errors.Is(err, event.ErrWindowNotOpen),
		errors.Is(err, event.ErrWindowClosed):
		Conflict(w, "OUTSIDE_WINDOW", err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadySignedIn),
		errors.Is(err, attendance.ErrAlreadySignedOut):
		Conflict(w, "DUPLICATE_SCAN", err.Error())
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Student domain errors
	case errors.Is(err, student.ErrStudentNotFound):
		NotFound(w, "Student not found")
	case errors.Is(err, student.ErrStudentIDExists):
		Conflict(w, "STUDENT_ID_EXISTS", "Student ID already exists")
	case errors.Is(err, student.ErrStudentNotApproved):
		Forbidden(w, "Registration has not been approved yet")
	case errors.Is(err, student.ErrAlreadyProcessed):
		Conflict(w, "ALREADY_PROCESSED", "Registration has already been processed")

	// Session domain errors
	case errors.Is(err, session.ErrStudentIDUnknown):
		Unauthorized(w, err.Error())
	case errors.Is(err, session.ErrSessionRevoked),
		errors.Is(err, session.ErrSessionInvalid):
		Unauthorized(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
