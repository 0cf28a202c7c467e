package session

import "errors"

// Session domain errors
var (
	ErrStudentIDUnknown = errors.New("student ID not found, check your ID and try again")
	ErrSessionRevoked   = errors.New("session has been logged out")
	ErrSessionInvalid   = errors.New("invalid or expired session")
)
