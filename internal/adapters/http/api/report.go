package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/arasmand/chatpulse/internal/app"
	"github.com/arasmand/chatpulse/internal/domain/model"
)

// ReportProvider computes a full synchronous report for a session.
type ReportProvider interface {
	Report(ctx context.Context, sessionID string, filter model.TimeFilter) (app.Report, error)
}

// ReportHandler handles synchronous full-report requests.
type ReportHandler struct {
	reports ReportProvider
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports ReportProvider) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleGetReport handles GET /report?session_id=...&from=&to= requests.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing session_id"))
		return
	}
	filter := model.TimeFilter{
		From: queryInt64(r, "from"),
		To:   queryInt64(r, "to"),
	}

	report, err := h.reports.Report(r.Context(), sessionID, filter)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
