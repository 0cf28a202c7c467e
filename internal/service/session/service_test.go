package session

import (
	"context"
	"testing"

	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/KilluwheQT/qrams2.0/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (session.SessionService, *memory.StudentRepository, jwt.Service) {
	t.Helper()
	studentRepo := memory.NewStudentRepository()
	jwtService := jwt.NewJWTService("test-secret-key", "12h")
	return NewSessionService(studentRepo, jwtService), studentRepo, jwtService
}

func seedStudent(t *testing.T, repo *memory.StudentRepository, studentID, status string) {
	t.Helper()
	_, err := repo.Create(context.Background(), student.Student{
		StudentID: studentID,
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Course:    "BSIT",
		Status:    status,
	})
	require.NoError(t, err)
}

func TestLoginIssuesSession(t *testing.T) {
	svc, repo, jwtService := newService(t)
	seedStudent(t, repo, "2021-00123", student.StatusApproved)

	resp, err := svc.Login(context.Background(), session.LoginRequest{StudentID: "2021-00123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, "2021-00123", resp.Student.StudentID)
	assert.Equal(t, "Juan", resp.Student.FirstName)

	// Token verifies with the issuing key and carries the identity claims.
	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.Token)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2021-00123", claims["student_id"])
	assert.Equal(t, "Juan Dela Cruz", claims["student_name"])
	assert.Equal(t, jwt.RoleStudent, claims["role"])
	assert.NotEmpty(t, claims["sid"])
}

func TestLoginUnknownStudentID(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), session.LoginRequest{StudentID: "2021-99999"})
	assert.ErrorIs(t, err, session.ErrStudentIDUnknown)
}

func TestLoginPendingRegistration(t *testing.T) {
	svc, repo, _ := newService(t)
	seedStudent(t, repo, "2021-00123", student.StatusPending)

	_, err := svc.Login(context.Background(), session.LoginRequest{StudentID: "2021-00123"})
	assert.ErrorIs(t, err, student.ErrStudentNotApproved)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo, jwtService := newService(t)
	seedStudent(t, repo, "2021-00123", student.StatusApproved)

	resp, err := svc.Login(context.Background(), session.LoginRequest{StudentID: "2021-00123"})
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.Token)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	sid := claims["sid"].(string)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	require.NoError(t, svc.Logout(ctx))
	assert.True(t, jwtService.IsSessionRevoked(sid))

	// A fresh login gets a new, unrevoked session.
	again, err := svc.Login(context.Background(), session.LoginRequest{StudentID: "2021-00123"})
	require.NoError(t, err)
	token2, err := jwtauth.VerifyToken(jwtService.JWTAuth(), again.Token)
	require.NoError(t, err)
	claims2, err := token2.AsMap(context.Background())
	require.NoError(t, err)
	assert.False(t, jwtService.IsSessionRevoked(claims2["sid"].(string)))
}

func TestLogoutWithoutSession(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.Logout(context.Background())
	assert.ErrorIs(t, err, session.ErrSessionInvalid)
}
