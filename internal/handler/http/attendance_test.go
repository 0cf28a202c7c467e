package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/config"
	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/qrtoken"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/sse"
	"github.com/KilluwheQT/qrams2.0/internal/repository/memory"
	attendanceService "github.com/KilluwheQT/qrams2.0/internal/service/attendance"
	eventService "github.com/KilluwheQT/qrams2.0/internal/service/event"
	"github.com/KilluwheQT/qrams2.0/internal/service/qrdisplay"
	reportService "github.com/KilluwheQT/qrams2.0/internal/service/report"
	sessionService "github.com/KilluwheQT/qrams2.0/internal/service/session"
	studentService "github.com/KilluwheQT/qrams2.0/internal/service/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router     http.Handler
	jwtService jwt.Service
	tokener    *qrtoken.Tokener
	eventID    string
}

// newTestServer assembles the full router against in-memory repositories.
// The seeded event runs today with all-day windows so scans made with the
// real clock land inside them.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.LogLevel = "error"
	cfg.App.FrontendURL = "http://localhost:3000"

	eventRepo := memory.NewEventRepository()
	studentRepo := memory.NewStudentRepository()
	attendanceRepo := memory.NewAttendanceRepository()

	jwtService := jwt.NewJWTService("test-secret-key", "1h")
	tokener := qrtoken.New(30, nil)
	hub := sse.NewHub()

	events := eventService.NewEventService(eventRepo, attendanceRepo, time.UTC)
	students := studentService.NewStudentService(studentRepo)
	sessions := sessionService.NewSessionService(studentRepo, jwtService)
	attendances := attendanceService.NewAttendanceService(attendanceRepo, eventRepo, studentRepo, tokener, time.UTC)
	displays := qrdisplay.NewDisplayService(eventRepo, tokener, hub, 10)
	reports := reportService.NewReportService(attendances, eventRepo, studentRepo, time.UTC)

	router := NewRouter(cfg, jwtService, Handlers{
		Session:    NewSessionHandler(sessions),
		Event:      NewEventHandler(events),
		Student:    NewStudentHandler(students),
		Attendance: NewAttendanceHandler(attendances),
		QR:         NewQRHandler(displays),
		Report:     NewReportHandler(reports),
	})

	ev, err := eventRepo.Create(ctx, event.Event{
		Title:        "General Assembly",
		EventDate:    time.Now().UTC().Format("2006-01-02"),
		Venue:        "Gymnasium",
		SignInStart:  "00:00",
		SignInEnd:    "23:59",
		SignOutStart: "00:00",
		SignOutEnd:   "23:59",
		Status:       event.StatusOngoing,
	})
	require.NoError(t, err)

	_, err = studentRepo.Create(ctx, student.Student{
		StudentID: "2021-00123",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Status:    student.StatusApproved,
	})
	require.NoError(t, err)

	return &testServer{
		router:     router,
		jwtService: jwtService,
		tokener:    tokener,
		eventID:    ev.ID,
	}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, studentID string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"student_id": studentID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func (s *testServer) staffToken(t *testing.T) string {
	t.Helper()
	_, tokenString, err := s.jwtService.JWTAuth().Encode(map[string]interface{}{
		"sub":  "staff-1",
		"role": jwt.RoleStaff,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return tokenString
}

func TestScanEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "2021-00123")

	payload := s.tokener.Payload(s.eventID, attendance.TypeSignIn)

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/scan", token, payload)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate submission conflicts.
	payload = s.tokener.Payload(s.eventID, attendance.TypeSignIn)
	rec = s.do(t, http.MethodPost, "/api/v1/attendance/scan", token, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already signed in")
}

func TestScanRequiresSession(t *testing.T) {
	s := newTestServer(t)

	payload := s.tokener.Payload(s.eventID, attendance.TypeSignIn)
	rec := s.do(t, http.MethodPost, "/api/v1/attendance/scan", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScanAfterLogoutRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "2021-00123")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := s.tokener.Payload(s.eventID, attendance.TypeSignIn)
	rec = s.do(t, http.MethodPost, "/api/v1/attendance/scan", token, payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScanExpiredTokenRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "2021-00123")

	payload := s.tokener.Payload(s.eventID, attendance.TypeSignIn)
	payload.TS -= 120_000 // two minutes stale

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/scan", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestQRSnapshotIsPublic(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/qr/"+s.eventID+"/sign-in", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\"token\"")
}

func TestStaffRoutesRequireStaffRole(t *testing.T) {
	s := newTestServer(t)

	// Student tokens cannot reach staff routes.
	token := s.login(t, "2021-00123")
	rec := s.do(t, http.MethodGet, "/api/v1/events", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/events", s.staffToken(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaffSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)
	staff := s.staffToken(t)

	token := s.login(t, "2021-00123")
	payload := s.tokener.Payload(s.eventID, attendance.TypeSignIn)
	rec := s.do(t, http.MethodPost, "/api/v1/attendance/scan", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/events/"+s.eventID+"/summary", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data attendance.EventSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalStudents)
	assert.Equal(t, 1, body.Data.SignedIn)
	assert.Equal(t, 1, body.Data.Incomplete)
}

func TestProfileUpdateEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "2021-00123")

	rec := s.do(t, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"course":     "BSCS",
		"year_level": "4",
		"section":    "B",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data student.StudentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BSCS", body.Data.Course)
	assert.Equal(t, "B", body.Data.Section)
	assert.Equal(t, "2021-00123", body.Data.StudentID)

	// No session, no edit.
	rec = s.do(t, http.MethodPut, "/api/v1/profile", "", map[string]string{"section": "C"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"student_id": "2021-99999"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
