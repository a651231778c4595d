package groupcv

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting splitter metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package prom).
type MetricsCollector interface {
	// RecordCombination is called for every enumerated group combination.
	// accepted is false if the robustness filter dropped it.
	RecordCombination(accepted bool)

	// RecordEnumeration is called when an enumeration ends, either because it
	// was exhausted or because the caller stopped iterating.
	RecordEnumeration(visited, yielded, rejected int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCombination(bool)                         {}
func (NoopMetricsCollector) RecordEnumeration(int, int, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	Combinations     atomic.Int64
	Accepted         atomic.Int64
	Rejected         atomic.Int64
	Enumerations     atomic.Int64
	EnumerationNanos atomic.Int64
	FoldsYielded     atomic.Int64
}

// RecordCombination implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCombination(accepted bool) {
	b.Combinations.Add(1)
	if accepted {
		b.Accepted.Add(1)
	} else {
		b.Rejected.Add(1)
	}
}

// RecordEnumeration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEnumeration(_, yielded, _ int, duration time.Duration) {
	b.Enumerations.Add(1)
	b.FoldsYielded.Add(int64(yielded))
	b.EnumerationNanos.Add(duration.Nanoseconds())
}

// Stats is a point-in-time copy of BasicMetricsCollector counters.
type Stats struct {
	Combinations        int64
	Accepted            int64
	Rejected            int64
	Enumerations        int64
	FoldsYielded        int64
	AvgEnumerationNanos int64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		Combinations: b.Combinations.Load(),
		Accepted:     b.Accepted.Load(),
		Rejected:     b.Rejected.Load(),
		Enumerations: b.Enumerations.Load(),
		FoldsYielded: b.FoldsYielded.Load(),
	}
	if s.Enumerations > 0 {
		s.AvgEnumerationNanos = b.EnumerationNanos.Load() / s.Enumerations
	}
	return s
}
