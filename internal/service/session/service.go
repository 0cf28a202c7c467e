package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
)

type SessionServiceImpl struct {
	student.StudentRepository
	jwtService jwt.Service
}

// Login implements session.SessionService.
func (s *SessionServiceImpl) Login(ctx context.Context, req session.LoginRequest) (session.LoginResponse, error) {
	st, err := s.StudentRepository.GetByStudentID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return session.LoginResponse{}, session.ErrStudentIDUnknown
		}
		return session.LoginResponse{}, err
	}

	if st.Status != student.StatusApproved {
		return session.LoginResponse{}, student.ErrStudentNotApproved
	}

	token, expiresAt, err := s.jwtService.GenerateStudentToken(jwt.StudentClaims{
		StudentID:   st.StudentID,
		StudentName: st.FullName(),
		Course:      st.Course,
		YearLevel:   st.YearLevel,
		Section:     st.Section,
	})
	if err != nil {
		return session.LoginResponse{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	metrics.StudentLogin()

	return session.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Student: session.StudentInfo{
			StudentID: st.StudentID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
			Course:    st.Course,
			YearLevel: st.YearLevel,
			Section:   st.Section,
		},
	}, nil
}

// Logout implements session.SessionService. Revocation is keyed on the sid
// claim so a re-login issues a fresh, unrevoked session.
func (s *SessionServiceImpl) Logout(ctx context.Context) error {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return session.ErrSessionInvalid
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return session.ErrSessionInvalid
	}

	s.jwtService.RevokeSession(sid)
	return nil
}

// NewSessionService creates a new session service
func NewSessionService(studentRepo student.StudentRepository, jwtService jwt.Service) session.SessionService {
	return &SessionServiceImpl{
		StudentRepository: studentRepo,
		jwtService:        jwtService,
	}
}
