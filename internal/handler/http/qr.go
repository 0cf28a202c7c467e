package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/KilluwheQT/qrams2.0/internal/service/qrdisplay"
	"github.com/go-chi/chi/v5"
)

type QRHandler interface {
	Snapshot(w http.ResponseWriter, r *http.Request)
	Image(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type qrHandlerImpl struct {
	displayService qrdisplay.Service
}

func NewQRHandler(displayService qrdisplay.Service) QRHandler {
	return &qrHandlerImpl{displayService: displayService}
}

// Snapshot implements QRHandler. Returns the current frame as JSON for
// clients that render their own QR symbol.
func (h *qrHandlerImpl) Snapshot(w http.ResponseWriter, r *http.Request) {
	frame, err := h.displayService.Snapshot(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, frame)
}

// Image implements QRHandler. Returns the current frame rendered as a PNG.
// The image is valid for one slot at most; clients must not cache it.
func (h *qrHandlerImpl) Image(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > 1024 {
			response.BadRequest(w, "BAD_REQUEST", "size must be between 64 and 1024")
			return
		}
		size = parsed
	}

	png, err := h.displayService.PNG(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "type"), size)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// Stream implements QRHandler. Streams rotating frames over SSE until the
// display disconnects.
func (h *qrHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	events, cleanup, err := h.displayService.Subscribe(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
