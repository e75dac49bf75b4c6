package jsonlddb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// metrics/prometheus package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert call.
	// triples is the number of canonical triples, err is nil if successful.
	RecordInsert(triples int, duration time.Duration, err error)

	// RecordRemove is called after each remove call.
	RecordRemove(triples int, duration time.Duration, err error)

	// RecordFrame is called after a frame has been planned and its eager
	// parts resolved. Lazy consumption of the result is not included.
	RecordFrame(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRemove(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFrame(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTriples    atomic.Int64
	InsertTotalNanos atomic.Int64
	RemoveCount      atomic.Int64
	RemoveErrors     atomic.Int64
	RemoveTriples    atomic.Int64
	FrameCount       atomic.Int64
	FrameErrors      atomic.Int64
	FrameTotalNanos  atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(triples int, duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
		return
	}
	b.InsertTriples.Add(int64(triples))
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(triples int, _ time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
		return
	}
	b.RemoveTriples.Add(int64(triples))
}

// RecordFrame implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFrame(duration time.Duration, err error) {
	b.FrameCount.Add(1)
	b.FrameTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FrameErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertTriples:  b.InsertTriples.Load(),
		InsertAvgNanos: avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		RemoveTriples:  b.RemoveTriples.Load(),
		FrameCount:     b.FrameCount.Load(),
		FrameErrors:    b.FrameErrors.Load(),
		FrameAvgNanos:  avg(b.FrameTotalNanos.Load(), b.FrameCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertTriples  int64
	InsertAvgNanos int64
	RemoveCount    int64
	RemoveErrors   int64
	RemoveTriples  int64
	FrameCount     int64
	FrameErrors    int64
	FrameAvgNanos  int64
}
