// Package repository defines the analysis snapshot store interface and
// errors. Snapshots are the caller-level cache of computed analyses;
// the analytics core itself never caches.
package repository

import (
	"context"
	"time"

	"github.com/arasmand/chatpulse/internal/domain/model"
)

// Snapshot is one stored analysis result.
type Snapshot struct {
	SessionID  string             `json:"session_id"`
	Kind       model.AnalysisKind `json:"kind"`
	Filter     model.TimeFilter   `json:"filter"`
	ComputedAt time.Time          `json:"computed_at"`
	DurationMS float64            `json:"duration_ms"`
	Result     any                `json:"result"`
}

// Key identifies a snapshot.
func (s Snapshot) Key() string {
	return s.SessionID + "|" + string(s.Kind) + "|" + s.Filter.Fingerprint()
}

// Store provides read/write access to computed snapshots.
type Store interface {
	// Put stores or replaces the snapshot for its key.
	Put(ctx context.Context, snap Snapshot) error

	// Get returns the snapshot for (session, kind, filter).
	// Returns ErrNotFound when nothing was computed yet.
	Get(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (Snapshot, error)

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) int
}
