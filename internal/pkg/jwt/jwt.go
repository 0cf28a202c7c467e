package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Roles carried in the "role" claim.
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

// StudentClaims is the identity a student session carries. The scan pipeline
// attributes attendance to these values, never to the request body.
type StudentClaims struct {
	SessionID   string
	StudentID   string
	StudentName string
	Course      string
	YearLevel   string
	Section     string
}

type Service interface {
	// GenerateStudentToken issues a session token for an approved student.
	GenerateStudentToken(claims StudentClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// RevokeSession marks a session ID as logged out.
	RevokeSession(sessionID string)
	IsSessionRevoked(sessionID string) bool
}

type JWTService struct {
	secretKey         string
	sessionExpiration string
	tokenAuth         *jwtauth.JWTAuth
	revokedSessions   map[string]int64 // sid -> unix second the revocation stops mattering
	mu                sync.RWMutex
}

func NewJWTService(secretKey string, sessionExpiration string) Service {
	return &JWTService{
		secretKey:         secretKey,
		sessionExpiration: sessionExpiration,
		tokenAuth:         jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedSessions:   make(map[string]int64),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateStudentToken(claims StudentClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.sessionExpiration)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	sid := claims.SessionID
	if sid == "" {
		sid = uuid.NewString()
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sid":          sid,
		"student_id":   claims.StudentID,
		"student_name": claims.StudentName,
		"course":       claims.Course,
		"year_level":   claims.YearLevel,
		"section":      claims.Section,
		"role":         RoleStudent,
		"exp":          expiresAt,
	})
	return tokenString, expiresAt, err
}

// RevokeSession records a logged-out session ID. A revoked sid only matters
// until the token carrying it expires, so entries are kept for one session
// lifetime and swept on the next revocation.
func (j *JWTService) RevokeSession(sessionID string) {
	ttl, err := time.ParseDuration(j.sessionExpiration)
	if err != nil {
		ttl = 24 * time.Hour
	}
	now := time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	for sid, expiresAt := range j.revokedSessions {
		if expiresAt < now.Unix() {
			delete(j.revokedSessions, sid)
		}
	}
	j.revokedSessions[sessionID] = now.Add(ttl).Unix()
}

func (j *JWTService) IsSessionRevoked(sessionID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedSessions[sessionID]
	return revoked
}
