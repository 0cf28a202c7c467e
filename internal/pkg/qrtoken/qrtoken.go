package qrtoken

import (
	"errors"
	"strconv"
	"time"
)

// DefaultValiditySeconds is the default length of one token slot. The display
// and scanner sides must agree on this value for tokens to verify.
const DefaultValiditySeconds = 30

var (
	ErrMissingToken = errors.New("missing security token")
	ErrExpired      = errors.New("QR code has expired, scan a fresh code")
)

// Payload is the JSON object encoded into a QR symbol. It is ephemeral and
// never persisted.
type Payload struct {
	EventID string `json:"eventId"`
	Type    string `json:"type"`
	Token   string `json:"token"`
	TS      int64  `json:"ts"` // generation time, unix milliseconds
}

// Tokener derives and verifies rotating time-slot tokens. The zero value is
// not usable; construct with New. All methods are pure functions of the
// injected clock and the window length.
type Tokener struct {
	window int64
	now    func() time.Time
}

func New(validitySeconds int, now func() time.Time) *Tokener {
	if validitySeconds <= 0 {
		validitySeconds = DefaultValiditySeconds
	}
	if now == nil {
		now = time.Now
	}
	return &Tokener{window: int64(validitySeconds), now: now}
}

// WindowSeconds returns the slot length in seconds.
func (t *Tokener) WindowSeconds() int64 {
	return t.window
}

func (t *Tokener) slot(unixSeconds int64) int64 {
	return unixSeconds / t.window
}

func encodeSlot(slot int64) string {
	return strconv.FormatInt(slot, 36)
}

// Token returns the token for the current slot: the base-36 encoding of
// floor(unixSeconds / W). Length grows over time and is not fixed-width.
func (t *Tokener) Token() string {
	return encodeSlot(t.slot(t.now().Unix()))
}

// Payload builds a complete QR payload for an event and scan type.
func (t *Tokener) Payload(eventID, scanType string) Payload {
	now := t.now()
	return Payload{
		EventID: eventID,
		Type:    scanType,
		Token:   encodeSlot(t.slot(now.Unix())),
		TS:      now.UnixMilli(),
	}
}

// SecondsRemaining reports how long the current slot's token stays current.
func (t *Tokener) SecondsRemaining() int64 {
	unix := t.now().Unix()
	return (t.slot(unix)+1)*t.window - unix
}

// Validate decides whether a scanned token is genuine and fresh. It accepts
// the current slot's token or the previous slot's (grace slot covering the
// gap between generation and scan completion). Payloads older than two
// windows are rejected before the token itself is checked, which also covers
// clock-skewed or stale captured images. Validate never mutates state, so a
// failed check leaves the caller free to retry with the next frame.
func (t *Tokener) Validate(token string, tsMillis int64) error {
	if token == "" || tsMillis <= 0 {
		return ErrMissingToken
	}

	now := t.now().Unix()
	generated := tsMillis / 1000

	if now-generated > 2*t.window {
		return ErrExpired
	}

	currentSlot := t.slot(now)
	if token == encodeSlot(currentSlot) || token == encodeSlot(currentSlot-1) {
		return nil
	}
	return ErrExpired
}
