// Package metrics provides Prometheus metrics for the chatpulse
// analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chatpulse"

// Analysis metrics.
var (
	analysesRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "runs_total",
		Help:      "Completed analysis computations by kind.",
	}, []string{"kind"})

	analysesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "failures_total",
		Help:      "Failed analysis computations by kind.",
	}, []string{"kind"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "duration_ms",
		Help:      "Analysis computation duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"kind"})
)

// Queue metrics.
var (
	queueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "size",
		Help:      "Current number of queued analysis jobs.",
	})

	queueCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "capacity",
		Help:      "Configured queue capacity.",
	})

	queueEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "enqueued_total",
		Help:      "Jobs accepted by the queue.",
	})

	queueRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "rejected_total",
		Help:      "Jobs rejected by the queue, by reason.",
	}, []string{"reason"})

	queueDequeued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "dequeued_total",
		Help:      "Jobs handed to workers.",
	})
)

// Worker metrics.
var (
	workerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "count",
		Help:      "Number of running analysis workers.",
	})

	workerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "errors_total",
		Help:      "Worker job processing errors.",
	})

	duplicateJobs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "duplicate_jobs_total",
		Help:      "Jobs collapsed by the in-flight deduper.",
	})
)

// Feed metrics.
var (
	feedMessages = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "messages",
		Help:      "Messages held by the in-memory feed across sessions.",
	})

	feedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "sessions",
		Help:      "Sessions held by the in-memory feed.",
	})
)

// HTTP metrics.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint and status.",
	}, []string{"endpoint", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint"})
)

// System metrics.
var (
	systemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current heap allocation in bytes.",
	})

	systemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current goroutine count.",
	})

	systemGCPause = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "gc_pause_ms",
		Help:      "Average GC pause time in milliseconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

// RecordAnalysis counts one completed analysis of the given kind.
func RecordAnalysis(kind string) { analysesRun.WithLabelValues(kind).Inc() }

// RecordAnalysisError counts one failed analysis of the given kind.
func RecordAnalysisError(kind string) { analysesFailed.WithLabelValues(kind).Inc() }

// ObserveAnalysisDuration records how long an analysis took.
func ObserveAnalysisDuration(kind string, ms float64) {
	analysisDuration.WithLabelValues(kind).Observe(ms)
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(n int) { queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(n int) { queueCapacity.Set(float64(n)) }

// RecordQueueEnqueue counts one accepted job.
func RecordQueueEnqueue() { queueEnqueued.Inc() }

// RecordQueueReject counts one rejected job with its reason.
func RecordQueueReject(reason string) { queueRejected.WithLabelValues(reason).Inc() }

// RecordQueueDequeue counts one job handed to a worker.
func RecordQueueDequeue() { queueDequeued.Inc() }

// UpdateWorkerCount sets the running worker gauge.
func UpdateWorkerCount(n int) { workerCount.Set(float64(n)) }

// RecordWorkerError counts one failed job.
func RecordWorkerError() { workerErrors.Inc() }

// RecordDuplicateJob counts one deduplicated job submission.
func RecordDuplicateJob() { duplicateJobs.Inc() }

// UpdateFeedMessages sets the total stored message gauge.
func UpdateFeedMessages(n int) { feedMessages.Set(float64(n)) }

// UpdateFeedSessions sets the stored session gauge.
func UpdateFeedSessions(n int) { feedSessions.Set(float64(n)) }

// RecordHTTPRequest counts one request by endpoint and status code.
func RecordHTTPRequest(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// ObserveHTTPDuration records request latency for an endpoint.
func ObserveHTTPDuration(endpoint string, ms float64) {
	httpDuration.WithLabelValues(endpoint).Observe(ms)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) { systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { systemGoroutines.Set(float64(n)) }

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(ms float64) { systemGCPause.Observe(ms) }
