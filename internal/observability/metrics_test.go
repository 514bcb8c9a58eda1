package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordRequest("/api/tickets/analyze", "POST", 201)
	metrics.RecordRequest("/api/tickets/analyze", "POST", 201)
	metrics.RecordOperation("event.ticket_analyzed")
	metrics.RecordFailure("pipeline.classify", "SCHEMA_VALIDATION")

	snap := metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/tickets/analyze|POST|201"])
	assert.Equal(t, int64(1), snap.Operations["event.ticket_analyzed"])
	assert.Equal(t, int64(1), snap.Failures["pipeline.classify|SCHEMA_VALIDATION"])
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordOperation("op")

	snap := metrics.Snapshot()
	snap.Operations["op"] = 99

	assert.Equal(t, int64(1), metrics.Snapshot().Operations["op"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordRequest("/", "GET", 200)
	metrics.RecordOperation("op")
	metrics.RecordFailure("op", "INTERNAL_ERROR")
	assert.Empty(t, metrics.Snapshot().Requests)
}
