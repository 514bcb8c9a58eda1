package observability

import (
	"strconv"
	"sync"
)

// Metrics provides basic in-memory counters keyed by operation and
// error kind.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	operations   map[string]int64
	failures     map[string]int64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests   map[string]int64 `json:"requests"`
	Operations map[string]int64 `json:"operations"`
	Failures   map[string]int64 `json:"failures"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		operations:   make(map[string]int64),
		failures:     make(map[string]int64),
	}
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordOperation increments the counter for a completed service operation.
func (m *Metrics) RecordOperation(operation string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[operation]++
}

// RecordFailure increments the counter for a failed service operation.
func (m *Metrics) RecordFailure(operation, code string) {
	if m == nil {
		return
	}
	key := operation + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:   make(map[string]int64),
		Operations: make(map[string]int64),
		Failures:   make(map[string]int64),
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.operations {
		snap.Operations[k] = v
	}
	for k, v := range m.failures {
		snap.Failures[k] = v
	}
	return snap
}
