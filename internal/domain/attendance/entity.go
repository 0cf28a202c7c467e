package attendance

import (
	"time"
)

// Record types mirror the QR payload's scan type.
const (
	TypeSignIn  = "sign-in"
	TypeSignOut = "sign-out"
)

// Attendance statuses produced by the summary aggregator. These exact strings
// appear in reports and CSV exports.
const (
	StatusComplete        = "Complete"
	StatusIncompleteNoOut = "Incomplete (No Sign-Out)"
	StatusIncompleteNoIn  = "Incomplete (No Sign-In)"
	StatusAbsent          = "Absent"
	StatusLateComplete    = "Late (Complete)"
	StatusLateIncomplete  = "Late (Incomplete)"
)

// Record is a single sign-in or sign-out. At most one record exists per
// (EventID, StudentID, Type) triple; records are created exactly once and
// never updated.
type Record struct {
	ID        string
	EventID   string
	StudentID string // business key, not the student's opaque ID
	Type      string
	Timestamp time.Time // server-assigned capture time

	// Denormalized for display, as recorded at scan time.
	StudentName string
	EventTitle  string

	CreatedAt time.Time
}
