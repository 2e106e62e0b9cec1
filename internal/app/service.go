// Package app provides the core business service that implements the
// dependencies required by the HTTP API: message ingestion, async
// analysis jobs, cached snapshots, and synchronous reports.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/arasmand/chatpulse/internal/adapters/mq/queue"
	workerpool "github.com/arasmand/chatpulse/internal/adapters/mq/worker"
	"github.com/arasmand/chatpulse/internal/adapters/repository"
	"github.com/arasmand/chatpulse/internal/domain/dedupe"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/internal/feed"
	"github.com/arasmand/chatpulse/pkg/logger"
	"github.com/arasmand/chatpulse/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 50_000
)

// Ingestor is the optional write side of a feed. The bundled in-memory
// feed implements it; a read-only feed wired in by a caller may not.
type Ingestor interface {
	RegisterMember(ctx context.Context, sessionID string, info feed.MemberInfo)
	Append(ctx context.Context, sessionID string, msgs []model.Message) error
}

// Service wires the feed, job pipeline and snapshot store together.
type Service struct {
	mu sync.RWMutex

	// Core components
	feed     feed.Feed
	store    repository.Store
	deduper  dedupe.Deduper
	jobQueue jobqueue.Queue
	pool     *workerpool.Pool
	analyzer *analyzer

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	analytics   Analytics

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the in-flight job dedupe set.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFeed replaces the bundled in-memory feed.
func WithFeed(f feed.Feed) Option {
	return func(s *Service) {
		if f != nil {
			s.feed = f
		}
	}
}

// WithAnalytics sets the analytics configuration.
func WithAnalytics(a Analytics) Option {
	return func(s *Service) {
		s.analytics = a
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		analytics:  DefaultAnalytics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analytics service...")

	if s.feed == nil {
		s.feed = feed.NewInMemory()
	}
	s.store = repository.NewMemoryStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.analyzer = newAnalyzer(s.feed, s.analytics)

	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, s.analyzer, s.store,
		workerpool.WithReleased(func(ctx context.Context, fingerprint string) {
			s.deduper.Unrecord(ctx, fingerprint)
		}),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping analytics service...")

	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// Ingest appends messages (and optional member metadata) to a session.
// It fails when the configured feed is read-only.
func (s *Service) Ingest(ctx context.Context, sessionID string, members []feed.MemberInfo, msgs []model.Message) error {
	ing, ok := s.feed.(Ingestor)
	if !ok {
		return fmt.Errorf("feed does not accept writes")
	}
	for _, m := range members {
		ing.RegisterMember(ctx, sessionID, m)
	}
	if err := ing.Append(ctx, sessionID, msgs); err != nil {
		return fmt.Errorf("append to session %s: %w", sessionID, err)
	}
	return nil
}

// Submit enqueues an analysis job. The returned duplicate flag is true
// when an identical job is already in flight; ok is false only on queue
// backpressure.
func (s *Service) Submit(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (jobID string, duplicate, ok bool) {
	job := model.Job{
		JobID:     uuid.NewString(),
		SessionID: sessionID,
		Kind:      kind,
		Filter:    filter,
	}

	fp := job.Fingerprint()
	if s.deduper.SeenAndRecord(ctx, fp) {
		metrics.RecordDuplicateJob()
		s.logger.Debug(ctx, "duplicate job collapsed", logger.String("fingerprint", fp))
		return "", true, true
	}

	if !s.jobQueue.Enqueue(ctx, job) {
		// Give the fingerprint back so the caller can retry.
		s.deduper.Unrecord(ctx, fp)
		return "", false, false
	}
	return job.JobID, false, true
}

// Result returns the cached snapshot for (session, kind, filter).
func (s *Service) Result(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (repository.Snapshot, error) {
	return s.store.Get(ctx, sessionID, kind, filter)
}

// Compute runs one analysis synchronously, bypassing queue and cache.
func (s *Service) Compute(ctx context.Context, sessionID string, kind model.AnalysisKind, filter model.TimeFilter) (any, error) {
	start := time.Now()
	result, err := s.analyzer.Run(ctx, model.Job{SessionID: sessionID, Kind: kind, Filter: filter})
	elapsed := float64(time.Since(start).Milliseconds())
	metrics.ObserveAnalysisDuration(string(kind), elapsed)
	if err != nil {
		metrics.RecordAnalysisError(string(kind))
		return nil, err
	}
	metrics.RecordAnalysis(string(kind))
	return result, nil
}

// Sessions lists the feed's known sessions.
func (s *Service) Sessions(ctx context.Context) []string {
	return s.feed.Sessions(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.jobQueue.Len(ctx)
		stats["snapshots"] = s.store.Count(ctx)
		stats["sessions"] = len(s.feed.Sessions(ctx))
		stats["inFlight"] = s.deduper.Size()
	}
	return stats
}
