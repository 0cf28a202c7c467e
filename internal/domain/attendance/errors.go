package attendance

import "errors"

// Attendance domain errors
var (
	// Duplicate scan errors; the message distinguishes sign-in from sign-out
	// so the scanner can tell the student which half already happened.
	ErrAlreadySignedIn  = errors.New("student already signed in for this event")
	ErrAlreadySignedOut = errors.New("student already signed out for this event")

	ErrRecordNotFound = errors.New("attendance record not found")
)
