package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/qrtoken"
	"github.com/KilluwheQT/qrams2.0/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc            *AttendanceServiceImpl
	eventRepo      *memory.EventRepository
	studentRepo    *memory.StudentRepository
	attendanceRepo *memory.AttendanceRepository
	tokener        *qrtoken.Tokener
	now            time.Time
	event          event.Event
}

// newFixture wires the service against in-memory repositories with a frozen
// clock. The seeded event runs on the clock's date with a 07:00-08:00
// sign-in window, 16:00-17:00 sign-out window, and a 15 minute grace period.
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		eventRepo:      memory.NewEventRepository(),
		studentRepo:    memory.NewStudentRepository(),
		attendanceRepo: memory.NewAttendanceRepository(),
		now:            now,
	}
	f.tokener = qrtoken.New(30, func() time.Time { return f.now })

	svc := NewAttendanceService(f.attendanceRepo, f.eventRepo, f.studentRepo, f.tokener, time.UTC)
	f.svc = svc.(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.now }

	ev, err := f.eventRepo.Create(context.Background(), event.Event{
		Title:              "General Assembly",
		EventDate:          now.Format("2006-01-02"),
		Venue:              "Gymnasium",
		SignInStart:        "07:00",
		SignInEnd:          "08:00",
		SignOutStart:       "16:00",
		SignOutEnd:         "17:00",
		GracePeriodMinutes: 15,
		Status:             event.StatusOngoing,
	})
	require.NoError(t, err)
	f.event = ev

	return f
}

func (f *fixture) addStudent(t *testing.T, studentID, first, last, status string) {
	t.Helper()
	_, err := f.studentRepo.Create(context.Background(), student.Student{
		StudentID: studentID,
		FirstName: first,
		LastName:  last,
		Course:    "BSIT",
		YearLevel: "3",
		Section:   "A",
		Status:    status,
	})
	require.NoError(t, err)
}

// sessionCtx builds a context carrying the session claims the scan pipeline
// reads, the same shape the verifier middleware produces.
func sessionCtx(t *testing.T, studentID, studentName string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"sid":          "test-session",
		"student_id":   studentID,
		"student_name": studentName,
		"role":         "student",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func (f *fixture) scanRequest(scanType string) attendance.ScanRequest {
	payload := f.tokener.Payload(f.event.ID, scanType)
	return attendance.ScanRequest{
		EventID: payload.EventID,
		Type:    payload.Type,
		Token:   payload.Token,
		TS:      payload.TS,
	}
}

func TestRecordScanAcceptsFreshSignIn(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	resp, err := f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignIn))
	require.NoError(t, err)
	assert.Equal(t, "2021-00123", resp.StudentID)
	assert.Equal(t, "Juan Dela Cruz", resp.StudentName)
	assert.Equal(t, attendance.TypeSignIn, resp.Type)
	assert.Equal(t, "General Assembly", resp.EventTitle)

	// Server assigns the timestamp; the payload's ts never becomes the
	// recorded time.
	rec, err := f.attendanceRepo.Find(ctx, f.event.ID, "2021-00123", attendance.TypeSignIn)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, now, rec.Timestamp)
}

func TestRecordScanRejectsDuplicate(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	_, err := f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignIn))
	require.NoError(t, err)

	_, err = f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignIn))
	assert.ErrorIs(t, err, attendance.ErrAlreadySignedIn)

	// A second account scanning is unaffected.
	f.addStudent(t, "2021-00456", "Maria", "Santos", student.StatusApproved)
	other := sessionCtx(t, "2021-00456", "Maria Santos")
	_, err = f.svc.RecordScan(other, f.scanRequest(attendance.TypeSignIn))
	assert.NoError(t, err)
}

func TestRecordScanRejectsDuplicateSignOut(t *testing.T) {
	now := time.Date(2025, 6, 2, 16, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	_, err := f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignOut))
	require.NoError(t, err)

	_, err = f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignOut))
	assert.ErrorIs(t, err, attendance.ErrAlreadySignedOut)
}

func TestRecordScanRejectsStaleToken(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	req := f.scanRequest(attendance.TypeSignIn)

	// Student walks away with the photo and submits it late.
	f.now = now.Add(61 * time.Second)
	_, err := f.svc.RecordScan(ctx, req)
	assert.ErrorIs(t, err, qrtoken.ErrExpired)

	// No record was written.
	rec, err := f.attendanceRepo.Find(ctx, f.event.ID, "2021-00123", attendance.TypeSignIn)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRecordScanRejectsMissingToken(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	req := f.scanRequest(attendance.TypeSignIn)
	req.Token = ""
	_, err := f.svc.RecordScan(ctx, req)
	assert.ErrorIs(t, err, qrtoken.ErrMissingToken)
}

func TestRecordScanRejectsOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 2, 6, 30, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	_, err := f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignIn))
	assert.ErrorIs(t, err, event.ErrWindowNotOpen)
	assert.Contains(t, err.Error(), "07:00")
}

func TestRecordScanRejectsWrongDay(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	// Tomorrow's event
	future, err := f.eventRepo.Create(context.Background(), event.Event{
		Title:       "Future Event",
		EventDate:   now.AddDate(0, 0, 1).Format("2006-01-02"),
		Venue:       "Hall",
		SignInStart: "07:00", SignInEnd: "08:00",
		SignOutStart: "16:00", SignOutEnd: "17:00",
	})
	require.NoError(t, err)

	req := f.scanRequest(attendance.TypeSignIn)
	req.EventID = future.ID
	_, err = f.svc.RecordScan(ctx, req)
	assert.ErrorIs(t, err, event.ErrEventNotStarted)
}

func TestRecordScanRejectsUnknownEvent(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	req := f.scanRequest(attendance.TypeSignIn)
	req.EventID = "does-not-exist"
	_, err := f.svc.RecordScan(ctx, req)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestRecordScanRejectsMalformedPayload(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	req := f.scanRequest("open-gate")
	_, err := f.svc.RecordScan(ctx, req)
	assert.Error(t, err)
}

func TestRecordScanWithoutSession(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)

	_, err := f.svc.RecordScan(context.Background(), f.scanRequest(attendance.TypeSignIn))
	assert.ErrorIs(t, err, session.ErrSessionInvalid)
}

func (f *fixture) insertRecord(t *testing.T, studentID, scanType string, ts time.Time) {
	t.Helper()
	_, err := f.attendanceRepo.Insert(context.Background(), attendance.Record{
		EventID:   f.event.ID,
		StudentID: studentID,
		Type:      scanType,
		Timestamp: ts,
	})
	require.NoError(t, err)
}

func TestGetEventSummaryClassification(t *testing.T) {
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	day := func(h, m int) time.Time {
		return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
	}

	f.addStudent(t, "2021-00001", "Ana", "Reyes", student.StatusApproved)
	f.addStudent(t, "2021-00002", "Ben", "Cruz", student.StatusApproved)
	f.addStudent(t, "2021-00003", "Carla", "Lim", student.StatusApproved)
	f.addStudent(t, "2021-00004", "Dan", "Uy", student.StatusApproved)
	f.addStudent(t, "2021-00005", "Eva", "Tan", student.StatusApproved)
	f.addStudent(t, "2021-00006", "Fe", "Go", student.StatusApproved)
	// Pending registrations are not on the roster.
	f.addStudent(t, "2021-00099", "Gil", "Ong", student.StatusPending)

	// Ana: on time, both halves.
	f.insertRecord(t, "2021-00001", attendance.TypeSignIn, day(7, 5))
	f.insertRecord(t, "2021-00001", attendance.TypeSignOut, day(16, 10))
	// Ben: signed in past the 07:15 grace deadline, both halves.
	f.insertRecord(t, "2021-00002", attendance.TypeSignIn, day(7, 20))
	f.insertRecord(t, "2021-00002", attendance.TypeSignOut, day(16, 20))
	// Carla: on time, never signed out.
	f.insertRecord(t, "2021-00003", attendance.TypeSignIn, day(7, 5))
	// Dan: late and never signed out.
	f.insertRecord(t, "2021-00004", attendance.TypeSignIn, day(7, 30))
	// Eva: only a sign-out.
	f.insertRecord(t, "2021-00005", attendance.TypeSignOut, day(16, 5))
	// Fe: absent.

	summary, err := f.svc.GetEventSummary(context.Background(), f.event.ID)
	require.NoError(t, err)

	statuses := make(map[string]string, len(summary.Records))
	for _, row := range summary.Records {
		statuses[row.StudentID] = row.Status
	}

	assert.Equal(t, attendance.StatusComplete, statuses["2021-00001"])
	assert.Equal(t, attendance.StatusLateComplete, statuses["2021-00002"])
	assert.Equal(t, attendance.StatusIncompleteNoOut, statuses["2021-00003"])
	assert.Equal(t, attendance.StatusLateIncomplete, statuses["2021-00004"])
	assert.Equal(t, attendance.StatusIncompleteNoIn, statuses["2021-00005"])
	assert.Equal(t, attendance.StatusAbsent, statuses["2021-00006"])
	assert.NotContains(t, statuses, "2021-00099")

	assert.Equal(t, 6, summary.TotalStudents)
	assert.Equal(t, 4, summary.SignedIn)
	assert.Equal(t, 3, summary.SignedOut)
	assert.Equal(t, 2, summary.Complete)
	assert.Equal(t, 3, summary.Incomplete)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 2, summary.Late)

	// Every roster member lands in exactly one primary bucket.
	assert.Equal(t, summary.TotalStudents, summary.Complete+summary.Incomplete+summary.Absent)
}

func TestGetEventSummaryCountsOffRosterRecords(t *testing.T) {
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00001", "Ana", "Reyes", student.StatusApproved)
	f.insertRecord(t, "2021-00001", attendance.TypeSignIn, time.Date(2025, 6, 2, 7, 5, 0, 0, time.UTC))

	// A scan from a student since removed from the roster. The record keeps
	// counting toward the signed totals even though no roster row carries it.
	f.insertRecord(t, "2021-99999", attendance.TypeSignIn, time.Date(2025, 6, 2, 7, 6, 0, 0, time.UTC))
	f.insertRecord(t, "2021-99999", attendance.TypeSignOut, time.Date(2025, 6, 2, 16, 5, 0, 0, time.UTC))

	summary, err := f.svc.GetEventSummary(context.Background(), f.event.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SignedIn)
	assert.Equal(t, 1, summary.SignedOut)

	// The roster view is unchanged: one member, one row, counts still add up.
	assert.Equal(t, 1, summary.TotalStudents)
	require.Len(t, summary.Records, 1)
	assert.Equal(t, "2021-00001", summary.Records[0].StudentID)
	assert.Equal(t, summary.TotalStudents, summary.Complete+summary.Incomplete+summary.Absent)
}

func TestGetEventSummaryExactGraceBoundary(t *testing.T) {
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.addStudent(t, "2021-00001", "Ana", "Reyes", student.StatusApproved)
	f.addStudent(t, "2021-00002", "Ben", "Cruz", student.StatusApproved)

	// Exactly at the deadline is on time; one second past is late.
	deadline := time.Date(2025, 6, 2, 7, 15, 0, 0, time.UTC)
	f.insertRecord(t, "2021-00001", attendance.TypeSignIn, deadline)
	f.insertRecord(t, "2021-00002", attendance.TypeSignIn, deadline.Add(time.Second))

	summary, err := f.svc.GetEventSummary(context.Background(), f.event.ID)
	require.NoError(t, err)

	statuses := make(map[string]string)
	for _, row := range summary.Records {
		statuses[row.StudentID] = row.Status
	}
	assert.Equal(t, attendance.StatusIncompleteNoOut, statuses["2021-00001"])
	assert.Equal(t, attendance.StatusLateIncomplete, statuses["2021-00002"])
}

func TestGetEventSummaryEmptyRoster(t *testing.T) {
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	summary, err := f.svc.GetEventSummary(context.Background(), f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalStudents)
	assert.Empty(t, summary.Records)
	assert.Equal(t, 0, summary.Complete+summary.Incomplete+summary.Absent)
}

func TestListMyAttendance(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 10, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.addStudent(t, "2021-00123", "Juan", "Dela Cruz", student.StatusApproved)
	ctx := sessionCtx(t, "2021-00123", "Juan Dela Cruz")

	_, err := f.svc.RecordScan(ctx, f.scanRequest(attendance.TypeSignIn))
	require.NoError(t, err)

	records, err := f.svc.ListMyAttendance(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2021-00123", records[0].StudentID)

	// No claims means an invalid session, not an internal failure.
	_, err = f.svc.ListMyAttendance(context.Background())
	assert.ErrorIs(t, err, session.ErrSessionInvalid)
}
