package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/feed"
)

// messageRequest mirrors the wire schema for one ingested message.
type messageRequest struct {
	ID        int64  `json:"id"`
	SenderID  int64  `json:"sender_id"`
	Timestamp int64  `json:"timestamp"`
	Content   string `json:"content"`
	Type      string `json:"type"`
}

// memberRequest carries optional member naming metadata.
type memberRequest struct {
	ID          int64  `json:"id"`
	PlatformID  string `json:"platform_id"`
	DisplayName string `json:"display_name"`
}

// ingestRequest mirrors the wire schema for POST /messages.
type ingestRequest struct {
	SessionID string           `json:"session_id"`
	Members   []memberRequest  `json:"members,omitempty"`
	Messages  []messageRequest `json:"messages"`
}

func (r ingestRequest) validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.New("missing session_id")
	}
	if len(r.Messages) == 0 {
		return errors.New("missing messages")
	}
	for i, m := range r.Messages {
		if m.SenderID == 0 {
			return errors.New("missing sender_id")
		}
		if m.Timestamp <= 0 {
			return errors.New("missing timestamp")
		}
		if i > 0 && m.Timestamp < r.Messages[i-1].Timestamp {
			return errors.New("messages out of order")
		}
	}
	return nil
}

type ingestResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
}

// MessagesHandler handles message ingestion.
type MessagesHandler struct {
	deps Dependencies
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(deps Dependencies) *MessagesHandler {
	return &MessagesHandler{deps: deps}
}

// HandlePostMessages handles POST /messages requests.
func (h *MessagesHandler) HandlePostMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	members := make([]feed.MemberInfo, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, feed.MemberInfo{
			ID:          m.ID,
			PlatformID:  m.PlatformID,
			DisplayName: m.DisplayName,
		})
	}
	msgs := make([]model.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, model.Message{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Timestamp: m.Timestamp,
			Content:   m.Content,
			Type:      model.ParseMessageType(m.Type),
		})
	}

	if err := h.deps.Ingest(r.Context(), req.SessionID, members, msgs); err != nil {
		writeError(w, http.StatusBadRequest, "ingest_failed", err)
		return
	}
	writeJSON(w, http.StatusAccepted, ingestResponse{Status: "accepted", Accepted: len(msgs)})
}
