package event

import (
	"context"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
)

type EventServiceImpl struct {
	event.EventRepository
	attendance.AttendanceRepository
	loc *time.Location
}

func toResponse(ev event.Event) event.EventResponse {
	return event.EventResponse{
		ID:                 ev.ID,
		Title:              ev.Title,
		Description:        ev.Description,
		EventDate:          ev.EventDate,
		Venue:              ev.Venue,
		SignInStart:        ev.SignInStart,
		SignInEnd:          ev.SignInEnd,
		SignOutStart:       ev.SignOutStart,
		SignOutEnd:         ev.SignOutEnd,
		GracePeriodMinutes: ev.GracePeriodMinutes,
		Status:             ev.Status,
		CreatedAt:          ev.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          ev.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateEvent implements event.EventService.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, req event.CreateEventRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	grace := event.DefaultGracePeriodMinutes
	if req.GracePeriodMinutes != nil {
		grace = *req.GracePeriodMinutes
	}

	status := req.Status
	if status == "" {
		status = statusFor(req.EventDate, req.SignOutEnd, time.Now().In(s.loc))
	}

	ev, err := s.EventRepository.Create(ctx, event.Event{
		Title:              req.Title,
		Description:        req.Description,
		EventDate:          req.EventDate,
		Venue:              req.Venue,
		SignInStart:        req.SignInStart,
		SignInEnd:          req.SignInEnd,
		SignOutStart:       req.SignOutStart,
		SignOutEnd:         req.SignOutEnd,
		GracePeriodMinutes: grace,
		Status:             status,
	})
	if err != nil {
		return event.EventResponse{}, err
	}

	return toResponse(ev), nil
}

// GetEvent implements event.EventService.
func (s *EventServiceImpl) GetEvent(ctx context.Context, id string) (event.EventResponse, error) {
	ev, err := s.EventRepository.GetByID(ctx, id)
	if err != nil {
		return event.EventResponse{}, err
	}
	return toResponse(ev), nil
}

// ListEvents implements event.EventService.
func (s *EventServiceImpl) ListEvents(ctx context.Context) ([]event.EventResponse, error) {
	events, err := s.EventRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]event.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, toResponse(ev))
	}
	return responses, nil
}

// UpdateEvent implements event.EventService.
func (s *EventServiceImpl) UpdateEvent(ctx context.Context, req event.UpdateEventRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	ev, err := s.EventRepository.GetByID(ctx, req.ID)
	if err != nil {
		return event.EventResponse{}, err
	}

	ev.Title = req.Title
	ev.Description = req.Description
	ev.EventDate = req.EventDate
	ev.Venue = req.Venue
	ev.SignInStart = req.SignInStart
	ev.SignInEnd = req.SignInEnd
	ev.SignOutStart = req.SignOutStart
	ev.SignOutEnd = req.SignOutEnd
	if req.GracePeriodMinutes != nil {
		ev.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if req.Status != "" {
		ev.Status = req.Status
	}

	if err := s.EventRepository.Update(ctx, ev); err != nil {
		return event.EventResponse{}, err
	}

	return s.GetEvent(ctx, req.ID)
}

// DeleteEvent implements event.EventService. Attendance records go with the
// event so a re-created event starts from a clean sheet.
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.EventRepository.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.AttendanceRepository.DeleteByEvent(ctx, id); err != nil {
		return err
	}
	return s.EventRepository.Delete(ctx, id)
}

// RefreshStatuses implements event.EventService. Cancelled events are left
// alone; everything else is re-derived from the wall clock in the deployment
// timezone.
func (s *EventServiceImpl) RefreshStatuses(ctx context.Context) error {
	events, err := s.EventRepository.List(ctx)
	if err != nil {
		return err
	}

	now := time.Now().In(s.loc)
	for _, ev := range events {
		if ev.Status == event.StatusCancelled {
			continue
		}
		next := statusFor(ev.EventDate, ev.SignOutEnd, now)
		if next == ev.Status {
			continue
		}
		if err := s.EventRepository.UpdateStatus(ctx, ev.ID, next); err != nil {
			return err
		}
	}
	return nil
}

// statusFor derives an event's lifecycle status from the clock. Same lexical
// date and time-of-day comparisons the scan window evaluator uses.
func statusFor(eventDate, signOutEnd string, now time.Time) string {
	today := now.Format("2006-01-02")
	switch {
	case eventDate > today:
		return event.StatusUpcoming
	case eventDate < today:
		return event.StatusCompleted
	case now.Format("15:04") > signOutEnd:
		return event.StatusCompleted
	default:
		return event.StatusOngoing
	}
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo event.EventRepository,
	attendanceRepo attendance.AttendanceRepository,
	loc *time.Location,
) event.EventService {
	return &EventServiceImpl{
		EventRepository:      eventRepo,
		AttendanceRepository: attendanceRepo,
		loc:                  loc,
	}
}
