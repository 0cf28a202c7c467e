package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/metrics"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/qrtoken"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	event.EventRepository
	student.StudentRepository
	tokener *qrtoken.Tokener
	loc     *time.Location
	now     func() time.Time
}

func toResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:          rec.ID,
		EventID:     rec.EventID,
		EventTitle:  rec.EventTitle,
		StudentID:   rec.StudentID,
		StudentName: rec.StudentName,
		Type:        rec.Type,
		Timestamp:   rec.Timestamp.Format(time.RFC3339),
	}
}

// sessionStudent pulls the scan's subject out of the session claims. Identity
// never comes from the request body.
func sessionStudent(ctx context.Context) (studentID, studentName string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: no claims in context", session.ErrSessionInvalid)
	}

	studentID, ok := claims["student_id"].(string)
	if !ok || studentID == "" {
		return "", "", fmt.Errorf("%w: student_id claim missing", session.ErrSessionInvalid)
	}
	studentName, _ = claims["student_name"].(string)
	return studentID, studentName, nil
}

// RecordScan implements attendance.AttendanceService. The pipeline order is
// fixed: schema, token freshness, event existence, window, duplicate, insert.
// A stale token is reported as expired even when the window is also closed.
func (a *AttendanceServiceImpl) RecordScan(ctx context.Context, req attendance.ScanRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		metrics.ScanRejected(req.Type, metrics.ReasonMalformed)
		return attendance.RecordResponse{}, err
	}

	if err := a.tokener.Validate(req.Token, req.TS); err != nil {
		if errors.Is(err, qrtoken.ErrMissingToken) {
			metrics.ScanRejected(req.Type, metrics.ReasonTokenMissing)
		} else {
			metrics.ScanRejected(req.Type, metrics.ReasonTokenExpired)
		}
		return attendance.RecordResponse{}, err
	}

	ev, err := a.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			metrics.ScanRejected(req.Type, metrics.ReasonEventUnknown)
		} else {
			metrics.ScanRejected(req.Type, metrics.ReasonStorage)
		}
		return attendance.RecordResponse{}, err
	}

	now := a.now().In(a.loc)
	if err := event.EvaluateWindow(ev, req.Type, now); err != nil {
		if errors.Is(err, event.ErrEventNotStarted) || errors.Is(err, event.ErrEventEnded) {
			metrics.ScanRejected(req.Type, metrics.ReasonOutsideDay)
		} else {
			metrics.ScanRejected(req.Type, metrics.ReasonWindow)
		}
		return attendance.RecordResponse{}, err
	}

	studentID, studentName, err := sessionStudent(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	// Fast duplicate check; the storage unique index still backstops the
	// race between two concurrent submissions.
	existing, err := a.AttendanceRepository.Find(ctx, req.EventID, studentID, req.Type)
	if err != nil {
		metrics.ScanRejected(req.Type, metrics.ReasonStorage)
		return attendance.RecordResponse{}, err
	}
	if existing != nil {
		metrics.ScanRejected(req.Type, metrics.ReasonDuplicate)
		return attendance.RecordResponse{}, duplicateError(req.Type)
	}

	rec, err := a.AttendanceRepository.Insert(ctx, attendance.Record{
		EventID:     req.EventID,
		StudentID:   studentID,
		Type:        req.Type,
		Timestamp:   a.now().UTC(),
		StudentName: studentName,
		EventTitle:  ev.Title,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadySignedIn) || errors.Is(err, attendance.ErrAlreadySignedOut) {
			metrics.ScanRejected(req.Type, metrics.ReasonDuplicate)
		} else {
			metrics.ScanRejected(req.Type, metrics.ReasonStorage)
		}
		return attendance.RecordResponse{}, err
	}

	metrics.ScanAccepted(req.Type)
	return toResponse(rec), nil
}

func duplicateError(scanType string) error {
	if scanType == attendance.TypeSignOut {
		return attendance.ErrAlreadySignedOut
	}
	return attendance.ErrAlreadySignedIn
}

// GetEventSummary implements attendance.AttendanceService. The summary is
// derived on read from the roster and the event's records; nothing here is
// persisted.
func (a *AttendanceServiceImpl) GetEventSummary(ctx context.Context, eventID string) (attendance.EventSummary, error) {
	ev, err := a.EventRepository.GetByID(ctx, eventID)
	if err != nil {
		return attendance.EventSummary{}, err
	}

	roster, err := a.StudentRepository.ListByStatus(ctx, student.StatusApproved)
	if err != nil {
		return attendance.EventSummary{}, err
	}

	records, err := a.AttendanceRepository.ListByEvent(ctx, eventID)
	if err != nil {
		return attendance.EventSummary{}, err
	}

	type pair struct {
		signIn  *attendance.Record
		signOut *attendance.Record
	}
	// SignedIn/SignedOut count the event's records themselves, so a scan
	// from a student later removed from the roster stays in the totals.
	byStudent := make(map[string]*pair, len(records))
	signedIn, signedOut := 0, 0
	for i := range records {
		rec := records[i]
		p := byStudent[rec.StudentID]
		if p == nil {
			p = &pair{}
			byStudent[rec.StudentID] = p
		}
		switch rec.Type {
		case attendance.TypeSignIn:
			p.signIn = &records[i]
			signedIn++
		case attendance.TypeSignOut:
			p.signOut = &records[i]
			signedOut++
		}
	}

	deadline, hasDeadline := event.SignInDeadline(ev, a.loc)

	summary := attendance.EventSummary{
		EventID:       ev.ID,
		EventTitle:    ev.Title,
		EventDate:     ev.EventDate,
		TotalStudents: len(roster),
		SignedIn:      signedIn,
		SignedOut:     signedOut,
		Records:       make([]attendance.StudentSummary, 0, len(roster)),
	}

	for _, st := range roster {
		p := byStudent[st.StudentID]
		var signIn, signOut *attendance.Record
		if p != nil {
			signIn, signOut = p.signIn, p.signOut
		}

		late := hasDeadline && signIn != nil && signIn.Timestamp.In(a.loc).After(deadline)
		status := classify(signIn != nil, signOut != nil, late)

		row := attendance.StudentSummary{
			StudentID: st.StudentID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
			Course:    st.Course,
			YearLevel: st.YearLevel,
			Section:   st.Section,
			Status:    status,
		}
		if signIn != nil {
			r := toResponse(*signIn)
			row.SignIn = &r
		}
		if signOut != nil {
			r := toResponse(*signOut)
			row.SignOut = &r
		}

		switch {
		case status == attendance.StatusAbsent:
			summary.Absent++
		case strings.Contains(status, "Incomplete"):
			summary.Incomplete++
		default:
			summary.Complete++
		}
		if strings.Contains(status, "Late") {
			summary.Late++
		}

		summary.Records = append(summary.Records, row)
	}

	return summary, nil
}

// classify maps a roster member's record pair to a display status. Late only
// applies when a sign-in exists; a missing sign-in can never be late.
func classify(hasIn, hasOut, late bool) string {
	switch {
	case hasIn && hasOut && late:
		return attendance.StatusLateComplete
	case hasIn && hasOut:
		return attendance.StatusComplete
	case hasIn && late:
		return attendance.StatusLateIncomplete
	case hasIn:
		return attendance.StatusIncompleteNoOut
	case hasOut:
		return attendance.StatusIncompleteNoIn
	default:
		return attendance.StatusAbsent
	}
}

// ListEventAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEventAttendance(ctx context.Context, eventID string) ([]attendance.RecordResponse, error) {
	if _, err := a.EventRepository.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toResponse(rec))
	}
	return responses, nil
}

// ListMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMyAttendance(ctx context.Context) ([]attendance.RecordResponse, error) {
	studentID, _, err := sessionStudent(ctx)
	if err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toResponse(rec))
	}
	return responses, nil
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	eventRepo event.EventRepository,
	studentRepo student.StudentRepository,
	tokener *qrtoken.Tokener,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EventRepository:      eventRepo,
		StudentRepository:    studentRepo,
		tokener:              tokener,
		loc:                  loc,
		now:                  time.Now,
	}
}
