// Package worker defines the contracts for asynchronous analysis
// execution: workers dequeue jobs, run the requested analysis, and
// publish the resulting snapshot.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/arasmand/chatpulse/internal/adapters/repository"
	"github.com/arasmand/chatpulse/internal/domain/model"
	"github.com/arasmand/chatpulse/pkg/logger"
	"github.com/arasmand/chatpulse/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.Job

// Runner executes one analysis job and returns its result record.
type Runner interface {
	Run(ctx context.Context, job Job) (any, error)
}

// Sink receives finished snapshots.
type Sink interface {
	Put(ctx context.Context, snap repository.Snapshot) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Released is called once a job's fingerprint may be requested again,
// whatever the outcome.
type Released func(ctx context.Context, fingerprint string)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReleased sets the fingerprint release hook.
func WithReleased(fn Released) Option {
	return func(w *Worker) {
		w.released = fn
	}
}

// Worker processes jobs until stopped.
type Worker struct {
	queue    Queue
	runner   Runner
	sink     Sink
	released Released
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(queue Queue, runner Runner, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		runner:   runner,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or Shutdown is
// called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "job failed",
					logger.String("jobID", job.JobID),
					logger.String("kind", string(job.Kind)),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process runs one job and publishes its snapshot.
func (w *Worker) process(ctx context.Context, job Job) error {
	if w.released != nil {
		defer w.released(ctx, job.Fingerprint())
	}

	start := time.Now()
	result, err := w.runner.Run(ctx, job)
	elapsed := float64(time.Since(start).Milliseconds())
	metrics.ObserveAnalysisDuration(string(job.Kind), elapsed)

	if err != nil {
		metrics.RecordAnalysisError(string(job.Kind))
		metrics.RecordWorkerError()
		return fmt.Errorf("run %s for session %s: %w", job.Kind, job.SessionID, err)
	}
	metrics.RecordAnalysis(string(job.Kind))

	snap := repository.Snapshot{
		SessionID:  job.SessionID,
		Kind:       job.Kind,
		Filter:     job.Filter,
		ComputedAt: time.Now(),
		DurationMS: elapsed,
		Result:     result,
	}
	if err := w.sink.Put(ctx, snap); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store snapshot: %w", err)
	}

	w.logger.Debug(ctx, "job done",
		logger.String("jobID", job.JobID),
		logger.String("kind", string(job.Kind)),
		logger.Float64("ms", elapsed),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates workerCount workers over the same queue. Counts below
// one default to a CPU-based size.
func NewPool(workerCount int, queue Queue, runner Runner, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		named := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = New(queue, runner, sink, named...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits bounded time for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Shutdown gracefully shuts down the pool, bounded by a pool-wide
// timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		close(w.shutdown)
	}
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
