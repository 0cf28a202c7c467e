package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
)

// Stats is the staff dashboard rollup.
type Stats struct {
	TotalEvents          int `json:"total_events"`
	OngoingEvents        int `json:"ongoing_events"`
	UpcomingEvents       int `json:"upcoming_events"`
	TotalStudents        int `json:"total_students"`
	PendingRegistrations int `json:"pending_registrations"`
}

// Service produces exports and rollups derived from attendance data.
type Service interface {
	// EventCSV renders an event's summary as a CSV download. Returns the
	// file contents and a suggested filename.
	EventCSV(ctx context.Context, eventID string) ([]byte, string, error)

	// DashboardStats computes the staff dashboard counters.
	DashboardStats(ctx context.Context) (Stats, error)
}

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
	event.EventRepository
	student.StudentRepository
	loc *time.Location
}

var csvHeader = []string{"Student ID", "Name", "Course", "Year", "Section", "Sign-In", "Sign-Out", "Status"}

// EventCSV implements Service. Missing halves render as "N/A" so the export
// reads the same as the summary screen.
func (r *ReportServiceImpl) EventCSV(ctx context.Context, eventID string) ([]byte, string, error) {
	summary, err := r.attendanceService.GetEventSummary(ctx, eventID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range summary.Records {
		record := []string{
			row.StudentID,
			row.LastName + ", " + row.FirstName,
			row.Course,
			row.YearLevel,
			row.Section,
			r.formatScan(row.SignIn),
			r.formatScan(row.SignOut),
			row.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	filename := fmt.Sprintf("attendance_%s_%s.csv", slugify(summary.EventTitle), summary.EventDate)
	return buf.Bytes(), filename, nil
}

func (r *ReportServiceImpl) formatScan(rec *attendance.RecordResponse) string {
	if rec == nil {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, rec.Timestamp)
	if err != nil {
		return rec.Timestamp
	}
	return t.In(r.loc).Format("2006-01-02 15:04:05")
}

func slugify(title string) string {
	slug := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		case c == ' ', c == '-', c == '_':
			return '-'
		default:
			return -1
		}
	}, title)
	if slug == "" {
		slug = "event"
	}
	return slug
}

// DashboardStats implements Service.
func (r *ReportServiceImpl) DashboardStats(ctx context.Context) (Stats, error) {
	events, err := r.EventRepository.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	students, err := r.StudentRepository.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalEvents: len(events),
	}
	for _, ev := range events {
		switch ev.Status {
		case event.StatusOngoing:
			stats.OngoingEvents++
		case event.StatusUpcoming:
			stats.UpcomingEvents++
		}
	}
	for _, st := range students {
		if st.Status == student.StatusPending {
			stats.PendingRegistrations++
		} else {
			stats.TotalStudents++
		}
	}

	return stats, nil
}

// NewReportService creates a new report service
func NewReportService(
	attendanceService attendance.AttendanceService,
	eventRepo event.EventRepository,
	studentRepo student.StudentRepository,
	loc *time.Location,
) Service {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
		EventRepository:   eventRepo,
		StudentRepository: studentRepo,
		loc:               loc,
	}
}
