package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/arasmand/chatpulse/internal/domain/model"
)

const defaultShardCount = 8

// MemoryStore is a sharded in-memory snapshot store. Sharding keeps
// write contention low when many workers publish results at once.
type MemoryStore struct {
	shardCount int
	shards     []*shard
}

type shard struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore creates a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{snaps: make(map[string]Snapshot)}
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, snap Snapshot) error {
	key := snap.Key()
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.snaps[key] = snap
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (Snapshot, error) {
	key := Snapshot{SessionID: sessionID, Kind: kind, Filter: filter}.Key()
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	snap, ok := sh.snaps[key]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return snap, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.snaps)
		sh.mu.RUnlock()
	}
	return total
}
