package attendance

import (
	"github.com/KilluwheQT/qrams2.0/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ScanRequest is the decoded QR payload a scanning client submits. The
// student's identity never rides in the payload; it comes from the session.
type ScanRequest struct {
	EventID string `json:"eventId"`
	Type    string `json:"type"`
	Token   string `json:"token"`
	TS      int64  `json:"ts"`
}

// Validate is the strict schema check that turns a parse-and-hope payload
// into an accept/reject decision. Token freshness is checked separately.
func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{Field: "eventId", Message: "eventId is required"})
	}
	if !validator.IsInSlice(r.Type, []string{TypeSignIn, TypeSignOut}) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be sign-in or sign-out"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	EventTitle  string `json:"event_title,omitempty"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
}

// StudentSummary is one roster member's classified attendance for an event.
type StudentSummary struct {
	StudentID string          `json:"student_id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Course    string          `json:"course,omitempty"`
	YearLevel string          `json:"year_level,omitempty"`
	Section   string          `json:"section,omitempty"`
	SignIn    *RecordResponse `json:"sign_in"`
	SignOut   *RecordResponse `json:"sign_out"`
	Status    string          `json:"status"`
}

// EventSummary is the derived, computed-on-read aggregate for one event.
// Every roster member appears in exactly one of complete/incomplete/absent;
// late is an overlay on complete and incomplete, not a fourth bucket.
type EventSummary struct {
	EventID       string           `json:"event_id"`
	EventTitle    string           `json:"event_title"`
	EventDate     string           `json:"event_date"`
	TotalStudents int              `json:"total_students"`
	SignedIn      int              `json:"signed_in"`
	SignedOut     int              `json:"signed_out"`
	Complete      int              `json:"complete"`
	Incomplete    int              `json:"incomplete"`
	Absent        int              `json:"absent"`
	Late          int              `json:"late"`
	Records       []StudentSummary `json:"records"`
}
