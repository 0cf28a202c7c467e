package http

import (
	"fmt"
	"net/http"

	"github.com/KilluwheQT/qrams2.0/internal/handler/http/response"
	"github.com/KilluwheQT/qrams2.0/internal/service/report"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	EventCSV(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// EventCSV implements ReportHandler.
func (h *reportHandlerImpl) EventCSV(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.reportService.EventCSV(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

// Dashboard implements ReportHandler.
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.DashboardStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
