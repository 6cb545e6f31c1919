package tabledb

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the prometheus subpackage).
type MetricsCollector interface {
	// RecordInsert is called after each batch insert.
	// rows is the batch size, err is nil if successful.
	RecordInsert(rows int, duration time.Duration, err error)

	// RecordDelete is called after each delete. rows is the number of rows
	// tombstoned.
	RecordDelete(rows int, duration time.Duration, err error)

	// RecordUpdate is called after each update.
	RecordUpdate(rows int, duration time.Duration, err error)

	// RecordProject is called after each projection. rows is the result size.
	RecordProject(rows int, duration time.Duration, err error)

	// RecordExport is called after each export with the bytes written.
	RecordExport(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordDelete(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordUpdate(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordProject(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordExport(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertRows       atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	DeleteCount      atomic.Int64
	DeleteRows       atomic.Int64
	DeleteErrors     atomic.Int64
	UpdateCount      atomic.Int64
	UpdateRows       atomic.Int64
	UpdateErrors     atomic.Int64
	ProjectCount     atomic.Int64
	ProjectRows      atomic.Int64
	ProjectErrors    atomic.Int64
	ProjectNanos     atomic.Int64
	ExportCount      atomic.Int64
	ExportBytes      atomic.Int64
	ExportErrors     atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(rows int, duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
		return
	}
	b.InsertRows.Add(int64(rows))
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(rows int, duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
		return
	}
	b.DeleteRows.Add(int64(rows))
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(rows int, duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
		return
	}
	b.UpdateRows.Add(int64(rows))
}

// RecordProject implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProject(rows int, duration time.Duration, err error) {
	b.ProjectCount.Add(1)
	b.ProjectNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ProjectErrors.Add(1)
		return
	}
	b.ProjectRows.Add(int64(rows))
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(bytes int64, duration time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
		return
	}
	b.ExportBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:     b.InsertCount.Load(),
		InsertRows:      b.InsertRows.Load(),
		InsertErrors:    b.InsertErrors.Load(),
		InsertAvgNanos:  avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteRows:      b.DeleteRows.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		UpdateCount:     b.UpdateCount.Load(),
		UpdateRows:      b.UpdateRows.Load(),
		UpdateErrors:    b.UpdateErrors.Load(),
		ProjectCount:    b.ProjectCount.Load(),
		ProjectRows:     b.ProjectRows.Load(),
		ProjectErrors:   b.ProjectErrors.Load(),
		ProjectAvgNanos: avg(b.ProjectNanos.Load(), b.ProjectCount.Load()),
		ExportCount:     b.ExportCount.Load(),
		ExportBytes:     b.ExportBytes.Load(),
		ExportErrors:    b.ExportErrors.Load(),
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
	InsertCount     int64
	InsertRows      int64
	InsertErrors    int64
	InsertAvgNanos  int64
	DeleteCount     int64
	DeleteRows      int64
	DeleteErrors    int64
	UpdateCount     int64
	UpdateRows      int64
	UpdateErrors    int64
	ProjectCount    int64
	ProjectRows     int64
	ProjectErrors   int64
	ProjectAvgNanos int64
	ExportCount     int64
	ExportBytes     int64
	ExportErrors    int64
}
