package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/domain/event"
	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EventHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	eventService event.EventService
}

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandlerImpl{eventService: eventService}
}

// Create implements EventHandler.
func (h *eventHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req event.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode create event request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format")
		return
	}

	resp, err := h.eventService.CreateEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event created", resp)
}

// Get implements EventHandler.
func (h *eventHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eventService.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements EventHandler.
func (h *eventHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Update implements EventHandler.
func (h *eventHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req event.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode update event request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format")
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.eventService.UpdateEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event updated", resp)
}

// Delete implements EventHandler.
func (h *eventHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event deleted", nil)
}
