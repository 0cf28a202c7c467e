package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
	EventSummary(w http.ResponseWriter, r *http.Request)
	ListByEvent(w http.ResponseWriter, r *http.Request)
	MyAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Scan implements AttendanceHandler. The body is the decoded QR payload; the
// student comes from the session, never from the body.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode scan request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid QR payload")
		return
	}

	resp, err := h.attendanceService.RecordScan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Signed in"
	if resp.Type == attendance.TypeSignOut {
		message = "Signed out"
	}
	response.Created(w, message, resp)
}

// EventSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) EventSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.GetEventSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListByEvent implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByEvent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ListEventAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// MyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyAttendance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ListMyAttendance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
