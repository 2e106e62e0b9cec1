package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/arasmand/chatpulse/internal/adapters/repository"
	"github.com/arasmand/chatpulse/internal/domain/model"
)

// analysisRequest mirrors the wire schema for POST /analyses.
type analysisRequest struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	From      int64  `json:"from,omitempty"`
	To        int64  `json:"to,omitempty"`
}

func (r analysisRequest) validate() error {
	switch {
	case strings.TrimSpace(r.SessionID) == "":
		return errors.New("missing session_id")
	case !model.ValidKind(model.AnalysisKind(r.Kind)):
		return errors.New("unknown kind: " + r.Kind)
	}
	return nil
}

type submitResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

// AnalysesHandler handles analysis submission and snapshot reads.
type AnalysesHandler struct {
	deps Dependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps Dependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

// HandlePostAnalysis handles POST /analyses requests: enqueue one
// analysis job for async computation.
func (h *AnalysesHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	filter := model.TimeFilter{From: req.From, To: req.To}
	jobID, duplicate, ok := h.deps.Submit(r.Context(), req.SessionID, model.AnalysisKind(req.Kind), filter)
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, submitResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{Status: "accepted", JobID: jobID})
}

// HandleGetAnalysis handles GET /analyses/{kind}?session_id=...&from=&to=
// requests, returning the cached snapshot.
func (h *AnalysesHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	kind := model.AnalysisKind(strings.TrimPrefix(r.URL.Path, "/analyses/"))
	if !model.ValidKind(kind) {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("unknown kind: "+string(kind)))
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

	snap, err := h.deps.Result(r.Context(), sessionID, kind, filter)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_ready", ErrNotReady)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func queryInt64(r *http.Request, key string) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
