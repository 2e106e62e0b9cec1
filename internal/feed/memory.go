package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/pkg/metrics"
)

// MemberInfo names a member at ingest time.
type MemberInfo struct {
	ID          int64
	PlatformID  string
	DisplayName string
}

// InMemory is a session-keyed in-memory feed. Appends keep the message
// slice ordered by (timestamp, id); snapshots are copies so callers can
// hold them across later appends.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]*session
	nextID   int64
}

type session struct {
	messages []model.Message
	members  map[int64]MemberInfo
	counts   map[int64]int
}

// NewInMemory creates an empty feed.
func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]*session)}
}

// RegisterMember records naming info for a member of a session. Members
// are also created implicitly on first message; registration only adds
// display metadata.
func (f *InMemory) RegisterMember(ctx context.Context, sessionID string, info MemberInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.session(sessionID)
	s.members[info.ID] = info
}

// Append adds messages to a session. Messages with a zero ID get one
// assigned. Timestamps may not move backwards relative to the stored
// tail: the upstream log is append-only and chronologically ordered.
func (f *InMemory) Append(ctx context.Context, sessionID string, msgs []model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.session(sessionID)

	for _, msg := range msgs {
		if msg.SenderID == SystemSenderID || msg.Type == model.TypeSystem {
			continue
		}
		if n := len(s.messages); n > 0 && msg.Timestamp < s.messages[n-1].Timestamp {
			return fmt.Errorf("%w: timestamp %d before tail", ErrUnordered, msg.Timestamp)
		}
		if msg.ID == 0 {
			f.nextID++
			msg.ID = f.nextID
		}
		s.messages = append(s.messages, msg)
		s.counts[msg.SenderID]++
		if _, ok := s.members[msg.SenderID]; !ok {
			s.members[msg.SenderID] = MemberInfo{
				ID:          msg.SenderID,
				DisplayName: fmt.Sprintf("member-%d", msg.SenderID),
			}
		}
	}
	f.updateGauges()
	return nil
}

// Members implements Feed.
func (f *InMemory) Members(ctx context.Context, sessionID string) ([]model.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	members := make([]model.Member, 0, len(s.members))
	for id, info := range s.members {
		members = append(members, model.Member{
			ID:           id,
			PlatformID:   info.PlatformID,
			DisplayName:  info.DisplayName,
			MessageCount: s.counts[id],
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

// Messages implements Feed.
func (f *InMemory) Messages(ctx context.Context, sessionID string, filter model.TimeFilter) ([]model.Message, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	out := make([]model.Message, 0, len(s.messages))
	for _, msg := range s.messages {
		if filter.Contains(msg.Timestamp) {
			out = append(out, msg)
		}
	}
	return out, nil
}

// Sessions implements Feed.
func (f *InMemory) Sessions(ctx context.Context) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]string, 0, len(f.sessions))
	for id := range f.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// session returns the named session, creating it when absent. Callers
// hold f.mu.
func (f *InMemory) session(sessionID string) *session {
	s, ok := f.sessions[sessionID]
	if !ok {
		s = &session{
			members: make(map[int64]MemberInfo),
			counts:  make(map[int64]int),
		}
		f.sessions[sessionID] = s
	}
	return s
}

// updateGauges refreshes the feed metrics. Callers hold f.mu.
func (f *InMemory) updateGauges() {
	total := 0
	for _, s := range f.sessions {
		total += len(s.messages)
	}
	metrics.UpdateFeedMessages(total)
	metrics.UpdateFeedSessions(len(f.sessions))
}
