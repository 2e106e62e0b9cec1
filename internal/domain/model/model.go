// Package model contains domain records passed between layers.
package model

import "fmt"

// MessageType classifies a chat message payload.
type MessageType int

// Message type values. The zero value is Text because text dominates
// real exports and untyped rows default to it at the import boundary.
const (
	TypeText MessageType = iota
	TypeImage
	TypeSticker
	TypeLink
	TypeVideo
	TypeFile
	TypeSystem
	TypeOther
)

var typeNames = map[MessageType]string{
	TypeText:    "text",
	TypeImage:   "image",
	TypeSticker: "sticker",
	TypeLink:    "link",
	TypeVideo:   "video",
	TypeFile:    "file",
	TypeSystem:  "system",
	TypeOther:   "other",
}

func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseMessageType converts a wire name to a MessageType.
// Unknown names map to TypeOther.
func ParseMessageType(s string) MessageType {
	for t, name := range typeNames {
		if name == s {
			return t
		}
	}
	return TypeOther
}

// Member is an immutable snapshot of a chat participant.
// Identity is ID; PlatformID is the upstream account identifier and is
// only used to disambiguate colliding display names.
type Member struct {
	ID           int64  `json:"id"`
	PlatformID   string `json:"platform_id"`
	DisplayName  string `json:"display_name"`
	MessageCount int    `json:"message_count"`
}

// Message is a single chat message. Slices of Message handed to the
// analytics packages are ordered by (Timestamp, ID) ascending and are
// never re-sorted downstream.
type Message struct {
	ID        int64       `json:"id"`
	SenderID  int64       `json:"sender_id"`
	Timestamp int64       `json:"timestamp"` // unix seconds
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
}

// AnalysisKind names one of the computed analytics.
type AnalysisKind string

// Analysis kinds accepted by the service and the HTTP API.
const (
	KindGraph      AnalysisKind = "graph"
	KindRepeat     AnalysisKind = "repeat"
	KindNightOwl   AnalysisKind = "nightowl"
	KindDragonKing AnalysisKind = "dragonking"
	KindCheckIn    AnalysisKind = "checkin"
	KindDiving     AnalysisKind = "diving"
	KindBattle     AnalysisKind = "battle"
)

// Kinds lists every analysis kind in a stable order.
func Kinds() []AnalysisKind {
	return []AnalysisKind{
		KindGraph, KindRepeat, KindNightOwl, KindDragonKing,
		KindCheckIn, KindDiving, KindBattle,
	}
}

// ValidKind reports whether k names a known analysis.
func ValidKind(k AnalysisKind) bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// TimeFilter optionally restricts an analysis to [From, To) unix seconds.
// Zero values mean unbounded on that side.
type TimeFilter struct {
	From int64 `json:"from,omitempty"`
	To   int64 `json:"to,omitempty"`
}

// Contains reports whether ts falls inside the filter window.
func (f TimeFilter) Contains(ts int64) bool {
	if f.From != 0 && ts < f.From {
		return false
	}
	if f.To != 0 && ts >= f.To {
		return false
	}
	return true
}

// Fingerprint returns a stable identity string for the filter,
// used in job fingerprints and snapshot keys.
func (f TimeFilter) Fingerprint() string {
	if f.From == 0 && f.To == 0 {
		return "all"
	}
	return fmt.Sprintf("%d-%d", f.From, f.To)
}

// Job is one queued analysis request.
type Job struct {
	JobID     string       `json:"job_id"`
	SessionID string       `json:"session_id"`
	Kind      AnalysisKind `json:"kind"`
	Filter    TimeFilter   `json:"filter"`
}

// Fingerprint identifies the work a job represents, independent of its
// JobID, so identical in-flight requests collapse to one computation.
func (j Job) Fingerprint() string {
	return j.SessionID + "|" + string(j.Kind) + "|" + j.Filter.Fingerprint()
}
