package event

import (
	"fmt"
	"time"
)

// Scan types, shared with the attendance domain through the QR payload.
const (
	ScanTypeSignIn  = "sign-in"
	ScanTypeSignOut = "sign-out"
)

// EvaluateWindow decides whether now falls inside the event's session window
// for the given scan type. It only answers admit/reject; lateness is a
// reporting-time classification applied by the summary aggregator against the
// server-recorded timestamp, not here.
//
// now must already be in the deployment timezone. Time-of-day comparisons are
// lexical on zero-padded "HH:MM", which preserves ordering exactly because the
// representation is canonical.
func EvaluateWindow(ev Event, scanType string, now time.Time) error {
	today := now.Format("2006-01-02")
	if ev.EventDate != today {
		if ev.EventDate > today {
			return ErrEventNotStarted
		}
		return ErrEventEnded
	}

	current := now.Format("15:04")

	switch scanType {
	case ScanTypeSignIn:
		if current < ev.SignInStart {
			return fmt.Errorf("%w: sign-in starts at %s", ErrWindowNotOpen, ev.SignInStart)
		}
		if current > ev.SignInEnd {
			return fmt.Errorf("%w: sign-in ended at %s", ErrWindowClosed, ev.SignInEnd)
		}
	case ScanTypeSignOut:
		if current < ev.SignOutStart {
			return fmt.Errorf("%w: sign-out starts at %s", ErrWindowNotOpen, ev.SignOutStart)
		}
		if current > ev.SignOutEnd {
			return fmt.Errorf("%w: sign-out ended at %s", ErrWindowClosed, ev.SignOutEnd)
		}
	default:
		return fmt.Errorf("unknown scan type %q", scanType)
	}

	return nil
}

// SignInDeadline returns the moment after which a sign-in counts as late:
// eventDate + signInStart + grace period, in loc. The second return is false
// when the event's date or start time cannot be parsed.
func SignInDeadline(ev Event, loc *time.Location) (time.Time, bool) {
	start, err := time.ParseInLocation("2006-01-02 15:04", ev.EventDate+" "+ev.SignInStart, loc)
	if err != nil {
		return time.Time{}, false
	}
	grace := ev.GracePeriodMinutes
	if grace < 0 {
		grace = 0
	}
	return start.Add(time.Duration(grace) * time.Minute), true
}
