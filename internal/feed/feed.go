// Package feed defines the message feed contract the analytics consume:
// member snapshots and chronologically ordered message slices. The feed
// is the boundary between whatever holds the chat log and the pure
// analytics; algorithms never reach past it.
package feed

import (
	"context"
	"errors"

	"github.com/arasmand/chatpulse/internal/domain/model"
)

// Sentinel kinds for feed errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnordered       = errors.New("messages out of order")
)

// SystemSenderID marks synthetic system rows in upstream exports. The
// feed filters this pseudo-member out of every snapshot.
const SystemSenderID int64 = 0

// Feed supplies immutable input snapshots for a session.
type Feed interface {
	// Members returns the member snapshot for a session, excluding the
	// synthetic system pseudo-member.
	Members(ctx context.Context, sessionID string) ([]model.Member, error)

	// Messages returns the session's messages ordered ascending by
	// (timestamp, id), optionally restricted by filter, excluding
	// system rows.
	Messages(ctx context.Context, sessionID string, filter model.TimeFilter) ([]model.Message, error)

	// Sessions lists known session ids.
	Sessions(ctx context.Context) []string
}
