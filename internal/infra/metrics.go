package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	messagesBroadcast  atomic.Uint64
	commandsExecuted   atomic.Uint64
	validationFailures atomic.Uint64
	fetchFailures      atomic.Uint64
	deliveryFailures   atomic.Uint64

	// Latency tracking (exchange command pipeline)
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordBroadcast records one chat line fanned out to the registry.
func (m *Metrics) RecordBroadcast() {
	m.messagesBroadcast.Add(1)
}

// RecordCommand records an exchange pipeline run with latency.
func (m *Metrics) RecordCommand(latencyNs int64) {
	m.commandsExecuted.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordValidationFailure records a rejected exchange command.
func (m *Metrics) RecordValidationFailure() {
	m.validationFailures.Add(1)
}

// RecordFetchFailure records a date skipped because its fetch failed.
func (m *Metrics) RecordFetchFailure() {
	m.fetchFailures.Add(1)
}

// RecordDeliveryFailure records a write to a gone connection.
func (m *Metrics) RecordDeliveryFailure() {
	m.deliveryFailures.Add(1)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	MessagesBroadcast  uint64    `json:"messages_broadcast"`
	CommandsExecuted   uint64    `json:"commands_executed"`
	ValidationFailures uint64    `json:"validation_failures"`
	FetchFailures      uint64    `json:"fetch_failures"`
	DeliveryFailures   uint64    `json:"delivery_failures"`
	AvgCommandNs       int64     `json:"avg_command_ns"`
	ActiveConnections  int32     `json:"active_connections"`
	Timestamp          time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		MessagesBroadcast:  m.messagesBroadcast.Load(),
		CommandsExecuted:   m.commandsExecuted.Load(),
		ValidationFailures: m.validationFailures.Load(),
		FetchFailures:      m.fetchFailures.Load(),
		DeliveryFailures:   m.deliveryFailures.Load(),
		AvgCommandNs:       avgLatency,
		ActiveConnections:  m.activeConnections.Load(),
		Timestamp:          time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.messagesBroadcast.Store(0)
	m.commandsExecuted.Store(0)
	m.validationFailures.Store(0)
	m.fetchFailures.Store(0)
	m.deliveryFailures.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeConnections.Store(0)
}
