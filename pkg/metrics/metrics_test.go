package metrics

import "testing"

// The collectors register once via promauto; these tests only assert
// the helpers accept their inputs without panicking.
func TestRecorders(t *testing.T) {
	RecordAnalysis("graph")
	RecordAnalysisError("graph")
	ObserveAnalysisDuration("graph", 12.5)

	UpdateQueueSize(3)
	UpdateQueueCapacity(100)
	RecordQueueEnqueue()
	RecordQueueReject("queue_full")
	RecordQueueDequeue()

	UpdateWorkerCount(4)
	RecordWorkerError()
	RecordDuplicateJob()

	UpdateFeedMessages(10)
	UpdateFeedSessions(2)

	RecordHTTPRequest("healthz", "200")
	ObserveHTTPDuration("healthz", 1.5)

	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(8)
	RecordSystemGCPauseTime(0.3)
}
