package event

import (
	"github.com/KilluwheQT/qrams2.0/internal/pkg/validator"
)

// ========================================
// EVENT DTOs
// ========================================

type CreateEventRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	EventDate          string `json:"event_date"`
	Venue              string `json:"venue"`
	SignInStart        string `json:"sign_in_start"`
	SignInEnd          string `json:"sign_in_end"`
	SignOutStart       string `json:"sign_out_start"`
	SignOutEnd         string `json:"sign_out_end"`
	GracePeriodMinutes *int   `json:"grace_period_minutes"`
	Status             string `json:"status"`
}

// Validate checks field presence and formats. It deliberately does not check
// that sign_in_end > sign_in_start or that the sign-in and sign-out windows
// are disjoint: staff sometimes configure overlapping or reversed windows on
// purpose (an always-closed window disables a session).
func (r *CreateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.Venue) {
		errs = append(errs, validator.ValidationError{Field: "venue", Message: "venue is required"})
	}
	if _, ok := validator.IsValidDate(r.EventDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "event_date", Message: "event_date must be YYYY-MM-DD"})
	}

	times := map[string]string{
		"sign_in_start":  r.SignInStart,
		"sign_in_end":    r.SignInEnd,
		"sign_out_start": r.SignOutStart,
		"sign_out_end":   r.SignOutEnd,
	}
	for field, value := range times {
		if !validator.IsValidTimeOfDay(value) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be zero-padded 24-hour HH:MM"})
		}
	}

	if r.GracePeriodMinutes != nil && *r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_period_minutes", Message: "grace period must be zero or positive"})
	}

	if r.Status != "" && !validator.IsInSlice(r.Status, []string{StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "invalid status"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEventRequest struct {
	ID string `json:"-"`
	CreateEventRequest
}

type EventResponse struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	EventDate          string `json:"event_date"`
	Venue              string `json:"venue"`
	SignInStart        string `json:"sign_in_start"`
	SignInEnd          string `json:"sign_in_end"`
	SignOutStart       string `json:"sign_out_start"`
	SignOutEnd         string `json:"sign_out_end"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}
