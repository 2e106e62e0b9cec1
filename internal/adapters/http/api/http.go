// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arasmand/chatpulse/internal/adapters/repository"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/feed"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the app service.
type Dependencies interface {
	// Ingest appends messages and member metadata to a session.
	Ingest(ctx context.Context, sessionID string, members []feed.MemberInfo, msgs []model.Message) error

	// Submit enqueues an analysis job for async processing.
	Submit(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (jobID string, duplicate, ok bool)

	// Result returns the cached snapshot for (session, kind, filter).
	Result(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (repository.Snapshot, error)

	// Sessions lists known session ids.
	Sessions(ctx context.Context) []string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	messagesHandler *MessagesHandler
	analysesHandler *AnalysesHandler
	reportHandler   *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, stats StatsProvider, reports ReportProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(stats),
		messagesHandler: NewMessagesHandler(deps),
		analysesHandler: NewAnalysesHandler(deps),
		reportHandler:   NewReportHandler(reports),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/messages", MetricsMiddleware(s.messagesHandler.HandlePostMessages, "messages"))
	mux.HandleFunc("/analyses", MetricsMiddleware(s.analysesHandler.HandlePostAnalysis, "analyses"))
	mux.HandleFunc("/analyses/", MetricsMiddleware(s.analysesHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
