package session

// ========================================
// SESSION DTOs
// ========================================

// LoginRequest opens a student session by institutional student ID. There is
// no password; the session is an identification step for scan attribution,
// not an authentication boundary.
type LoginRequest struct {
	StudentID string `json:"student_id"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Student   StudentInfo `json:"student"`
}

type StudentInfo struct {
	StudentID string `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Course    string `json:"course,omitempty"`
	YearLevel string `json:"year_level,omitempty"`
	Section   string `json:"section,omitempty"`
}
