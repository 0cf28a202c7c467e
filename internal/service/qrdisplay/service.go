package qrdisplay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/metrics"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/qrtoken"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/sse"
	qrcode "github.com/skip2/go-qrcode"
)

// Frame is one rotation of a display's QR content. Payload is the exact JSON
// string encoded into the QR symbol; scanners decode it back into a
// ScanRequest.
type Frame struct {
	EventID          string `json:"event_id"`
	Type             string `json:"type"`
	Token            string `json:"token"`
	TS               int64  `json:"ts"`
	Payload          string `json:"payload"`
	SecondsRemaining int64  `json:"seconds_remaining"`
	WindowSeconds    int64  `json:"window_seconds"`
}

// Service drives the projected QR displays: point-in-time frames, rendered
// PNG symbols, and a live SSE rotation stream per (event, scan type).
type Service interface {
	Snapshot(ctx context.Context, eventID, scanType string) (Frame, error)
	PNG(ctx context.Context, eventID, scanType string, size int) ([]byte, error)

	// Subscribe attaches to the rotation stream for an event and scan type,
	// starting the rotator if this is the first subscriber. The returned
	// cleanup must be called when the client disconnects.
	Subscribe(ctx context.Context, eventID, scanType string) (chan sse.Event, func(), error)
}

type DisplayServiceImpl struct {
	event.EventRepository
	tokener        *qrtoken.Tokener
	hub            *sse.Hub
	refreshSeconds int

	mu       sync.Mutex
	rotators map[string]struct{}
}

func topicFor(eventID, scanType string) string {
	return eventID + "/" + scanType
}

func validScanType(scanType string) bool {
	return scanType == attendance.TypeSignIn || scanType == attendance.TypeSignOut
}

func (s *DisplayServiceImpl) frame(eventID, scanType string) (Frame, error) {
	payload := s.tokener.Payload(eventID, scanType)
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	return Frame{
		EventID:          payload.EventID,
		Type:             payload.Type,
		Token:            payload.Token,
		TS:               payload.TS,
		Payload:          string(raw),
		SecondsRemaining: s.tokener.SecondsRemaining(),
		WindowSeconds:    s.tokener.WindowSeconds(),
	}, nil
}

// Snapshot implements Service.
func (s *DisplayServiceImpl) Snapshot(ctx context.Context, eventID, scanType string) (Frame, error) {
	if !validScanType(scanType) {
		return Frame{}, fmt.Errorf("invalid scan type %q", scanType)
	}
	if _, err := s.EventRepository.GetByID(ctx, eventID); err != nil {
		return Frame{}, err
	}
	return s.frame(eventID, scanType)
}

// PNG implements Service. The symbol encodes the payload JSON only; the
// countdown rides in the SSE stream, not the image.
func (s *DisplayServiceImpl) PNG(ctx context.Context, eventID, scanType string, size int) ([]byte, error) {
	f, err := s.Snapshot(ctx, eventID, scanType)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(f.Payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// Subscribe implements Service.
func (s *DisplayServiceImpl) Subscribe(ctx context.Context, eventID, scanType string) (chan sse.Event, func(), error) {
	if !validScanType(scanType) {
		return nil, nil, fmt.Errorf("invalid scan type %q", scanType)
	}
	if _, err := s.EventRepository.GetByID(ctx, eventID); err != nil {
		return nil, nil, err
	}

	topic := topicFor(eventID, scanType)
	ch, cleanup := s.hub.Subscribe(topic)
	s.ensureRotator(eventID, scanType)

	// Immediate frame so the display never waits a full tick to paint.
	if f, err := s.frame(eventID, scanType); err == nil {
		select {
		case ch <- sse.Event{Topic: topic, Event: "qr", Data: f}:
		default:
		}
	}

	return ch, cleanup, nil
}

// ensureRotator starts the per-topic rotation goroutine if it is not already
// running. The rotator publishes a frame whenever the token rolls to a new
// slot and at the redraw cadence in between, and exits once the last
// subscriber leaves.
func (s *DisplayServiceImpl) ensureRotator(eventID, scanType string) {
	topic := topicFor(eventID, scanType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.rotators[topic]; running {
		return
	}
	s.rotators[topic] = struct{}{}

	go s.rotate(eventID, scanType)
}

// stopIfIdle deregisters the topic's rotator when no subscribers remain. The
// recheck and the registry removal happen under one lock, so a Subscribe
// racing with shutdown either keeps this rotator alive or finds the registry
// empty and starts a fresh one.
func (s *DisplayServiceImpl) stopIfIdle(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hub.SubscriberCount(topic) > 0 {
		return false
	}
	delete(s.rotators, topic)
	return true
}

func (s *DisplayServiceImpl) rotate(eventID, scanType string) {
	topic := topicFor(eventID, scanType)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastToken := ""
	lastPublish := time.Time{}
	refresh := time.Duration(s.refreshSeconds) * time.Second

	for range ticker.C {
		if s.stopIfIdle(topic) {
			return
		}

		token := s.tokener.Token()
		if token == lastToken && time.Since(lastPublish) < refresh {
			continue
		}

		f, err := s.frame(eventID, scanType)
		if err != nil {
			continue
		}

		s.hub.Publish(topic, sse.Event{Topic: topic, Event: "qr", Data: f})
		metrics.QRFramePublished(scanType)
		lastToken = token
		lastPublish = time.Now()
	}
}

// NewDisplayService creates a new QR display service
func NewDisplayService(
	eventRepo event.EventRepository,
	tokener *qrtoken.Tokener,
	hub *sse.Hub,
	refreshSeconds int,
) Service {
	if refreshSeconds <= 0 {
		refreshSeconds = 10
	}
	return &DisplayServiceImpl{
		EventRepository: eventRepo,
		tokener:         tokener,
		hub:             hub,
		refreshSeconds:  refreshSeconds,
		rotators:        make(map[string]struct{}),
	}
}
