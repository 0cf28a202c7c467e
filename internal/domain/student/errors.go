package student

import "errors"

// Student domain errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentIDExists    = errors.New("student ID already exists")
	ErrStudentNotApproved = errors.New("student registration has not been approved yet")
	ErrAlreadyProcessed   = errors.New("registration has already been processed")
)
