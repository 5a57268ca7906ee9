package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks catalog, store and pipeline counters
type Metrics struct {
	catalogCalls     int64
	catalogErrors    int64
	catalogLatency   int64 // Total latency in nanoseconds
	storeWrites      int64
	storeWriteErrors int64
	storeReadErrors  int64
	skippedEntries   int64
	pipelineRuns     int64
	pipelineFailures int64
}

// MetricsSnapshot is the JSON view of Metrics.
type MetricsSnapshot struct {
	CatalogCalls        int64   `json:"catalog_calls"`
	CatalogErrors       int64   `json:"catalog_errors"`
	CatalogAvgLatencyMs float64 `json:"catalog_avg_latency_ms"`
	CatalogErrorRate    float64 `json:"catalog_error_rate"`
	StoreWrites         int64   `json:"store_writes"`
	StoreWriteErrors    int64   `json:"store_write_errors"`
	StoreReadErrors     int64   `json:"store_read_errors"`
	SkippedEntries      int64   `json:"skipped_entries"`
	PipelineRuns        int64   `json:"pipeline_runs"`
	PipelineFailures    int64   `json:"pipeline_failures"`
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		catalogCalls:     atomic.LoadInt64(&globalMetrics.catalogCalls),
		catalogErrors:    atomic.LoadInt64(&globalMetrics.catalogErrors),
		catalogLatency:   atomic.LoadInt64(&globalMetrics.catalogLatency),
		storeWrites:      atomic.LoadInt64(&globalMetrics.storeWrites),
		storeWriteErrors: atomic.LoadInt64(&globalMetrics.storeWriteErrors),
		storeReadErrors:  atomic.LoadInt64(&globalMetrics.storeReadErrors),
		skippedEntries:   atomic.LoadInt64(&globalMetrics.skippedEntries),
		pipelineRuns:     atomic.LoadInt64(&globalMetrics.pipelineRuns),
		pipelineFailures: atomic.LoadInt64(&globalMetrics.pipelineFailures),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.catalogCalls, 0)
	atomic.StoreInt64(&globalMetrics.catalogErrors, 0)
	atomic.StoreInt64(&globalMetrics.catalogLatency, 0)
	atomic.StoreInt64(&globalMetrics.storeWrites, 0)
	atomic.StoreInt64(&globalMetrics.storeWriteErrors, 0)
	atomic.StoreInt64(&globalMetrics.storeReadErrors, 0)
	atomic.StoreInt64(&globalMetrics.skippedEntries, 0)
	atomic.StoreInt64(&globalMetrics.pipelineRuns, 0)
	atomic.StoreInt64(&globalMetrics.pipelineFailures, 0)
}

func recordCatalogCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.catalogCalls, 1)
	atomic.AddInt64(&globalMetrics.catalogLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.catalogErrors, 1)
	}
}

func recordStoreWrite(err error) {
	atomic.AddInt64(&globalMetrics.storeWrites, 1)
	if err != nil {
		atomic.AddInt64(&globalMetrics.storeWriteErrors, 1)
	}
}

func recordStoreReadError() {
	atomic.AddInt64(&globalMetrics.storeReadErrors, 1)
}

func recordSkippedEntry() {
	atomic.AddInt64(&globalMetrics.skippedEntries, 1)
}

func recordPipelineRun(err error) {
	atomic.AddInt64(&globalMetrics.pipelineRuns, 1)
	if err != nil {
		atomic.AddInt64(&globalMetrics.pipelineFailures, 1)
	}
}

// AverageCatalogLatency returns the average latency in milliseconds
func (m Metrics) AverageCatalogLatency() float64 {
	if m.catalogCalls == 0 {
		return 0
	}
	avgNs := float64(m.catalogLatency) / float64(m.catalogCalls)
	return avgNs / 1e6
}

// CatalogErrorRate returns the error rate as a percentage
func (m Metrics) CatalogErrorRate() float64 {
	if m.catalogCalls == 0 {
		return 0
	}
	return float64(m.catalogErrors) / float64(m.catalogCalls) * 100
}

// Snapshot converts the counters for JSON output.
func (m Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		CatalogCalls:        m.catalogCalls,
		CatalogErrors:       m.catalogErrors,
		CatalogAvgLatencyMs: m.AverageCatalogLatency(),
		CatalogErrorRate:    m.CatalogErrorRate(),
		StoreWrites:         m.storeWrites,
		StoreWriteErrors:    m.storeWriteErrors,
		StoreReadErrors:     m.storeReadErrors,
		SkippedEntries:      m.skippedEntries,
		PipelineRuns:        m.pipelineRuns,
		PipelineFailures:    m.pipelineFailures,
	}
}
