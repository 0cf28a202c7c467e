package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type StudentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type studentHandlerImpl struct {
	studentService student.StudentService
}

func NewStudentHandler(studentService student.StudentService) StudentHandler {
	return &studentHandlerImpl{studentService: studentService}
}

// Create implements StudentHandler.
func (h *studentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req student.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode create student request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format")
		return
	}

	resp, err := h.studentService.CreateStudent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Student created", resp)
}

// Register implements StudentHandler. Public self-registration; the account
// stays pending until staff approve it.
func (h *studentHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req student.RegisterStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode register request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format")
		return
	}

	resp, err := h.studentService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Registration submitted, wait for approval", resp)
}

// Approve implements StudentHandler.
func (h *studentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	resp, err := h.studentService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Registration approved", resp)
}

// Reject implements StudentHandler.
func (h *studentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Reject(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Registration rejected", nil)
}

// Get implements StudentHandler.
func (h *studentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.studentService.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements StudentHandler.
func (h *studentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.studentService.ListStudents(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListPending implements StudentHandler.
func (h *studentHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	resp, err := h.studentService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Update implements StudentHandler.
func (h *studentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req student.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode update student request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format")
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.studentService.UpdateStudent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Student updated", resp)
}

// UpdateProfile implements StudentHandler. The logged-in student edits their
// own placement; the session claims name the subject.
func (h *studentHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req student.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode update profile request", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format")
		return
	}

	resp, err := h.studentService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated", resp)
}

// Delete implements StudentHandler.
func (h *studentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.DeleteStudent(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Student deleted", nil)
}
