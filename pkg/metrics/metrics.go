package metrics

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Operation identifies a timed service operation.
type Operation string

const (
	OpStem      Operation = "stem"
	OpAnalyze   Operation = "analyze"
	OpCompare   Operation = "compare"
	OpVectorize Operation = "vectorize"
	OpSearch    Operation = "search"
	OpDocument  Operation = "document"
)

// Operations lists every timed operation in export order.
var Operations = []Operation{OpStem, OpAnalyze, OpCompare, OpVectorize, OpSearch, OpDocument}

// Collector collects stemming service metrics
type Collector struct {
	wordsStemmed       atomic.Uint64
	correctionsApplied atomic.Uint64
	documentsAdded     atomic.Uint64
	documentsDeleted   atomic.Uint64

	// WebSocket streams
	activeStreams atomic.Int64
	totalStreams  atomic.Uint64

	mu         sync.RWMutex
	operations map[Operation]*operationStats

	startTime time.Time
}

type operationStats struct {
	total     atomic.Uint64
	failed    atomic.Uint64
	totalTime atomic.Uint64 // nanoseconds
	timings   *TimingHistogram
}

// TimingHistogram stores timing data in buckets for histogram generation
type TimingHistogram struct {
	// <1ms, 1-10ms, 10-100ms, 100ms-1s, >1s
	buckets [5]atomic.Uint64

	mu               sync.Mutex
	recentTimings    []time.Duration
	maxRecentTimings int
}

// bucketBounds are the upper bounds of the first four buckets in seconds.
var bucketBounds = []string{"0.001", "0.01", "0.1", "1.0"}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	c := &Collector{
		operations: make(map[Operation]*operationStats, len(Operations)),
		startTime:  time.Now(),
	}
	for _, op := range Operations {
		c.operations[op] = &operationStats{timings: NewTimingHistogram(1000)}
	}
	return c
}

// NewTimingHistogram creates a histogram keeping the last maxRecent timings
// for percentiles.
func NewTimingHistogram(maxRecent int) *TimingHistogram {
	return &TimingHistogram{
		recentTimings:    make([]time.Duration, 0, maxRecent),
		maxRecentTimings: maxRecent,
	}
}

func (c *Collector) stats(op Operation) *operationStats {
	c.mu.RLock()
	s := c.operations[op]
	c.mu.RUnlock()
	if s != nil {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s = c.operations[op]; s == nil {
		s = &operationStats{timings: NewTimingHistogram(1000)}
		c.operations[op] = s
	}
	return s
}

// Record records one execution of op.
func (c *Collector) Record(op Operation, duration time.Duration, success bool) {
	s := c.stats(op)
	s.total.Add(1)
	if !success {
		s.failed.Add(1)
	}
	s.totalTime.Add(uint64(duration.Nanoseconds()))
	s.timings.Record(duration)
}

// Time returns a function that records op when called.
//
//	defer mc.Time(metrics.OpSearch)(&err)
func (c *Collector) Time(op Operation) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		c.Record(op, time.Since(start), errp == nil || *errp == nil)
	}
}

// RecordWords counts stemmed words and how many of them were corrected.
func (c *Collector) RecordWords(stemmed, corrected int) {
	c.wordsStemmed.Add(uint64(stemmed))
	c.correctionsApplied.Add(uint64(corrected))
}

// RecordDocumentAdded counts a stored document.
func (c *Collector) RecordDocumentAdded() {
	c.documentsAdded.Add(1)
}

// RecordDocumentDeleted counts a deleted document.
func (c *Collector) RecordDocumentDeleted() {
	c.documentsDeleted.Add(1)
}

// RecordStreamStart counts an opened WebSocket stream.
func (c *Collector) RecordStreamStart() {
	c.totalStreams.Add(1)
	c.activeStreams.Add(1)
}

// RecordStreamEnd counts a closed WebSocket stream.
func (c *Collector) RecordStreamEnd() {
	c.activeStreams.Add(-1)
}

// Record adds a timing to the histogram
func (th *TimingHistogram) Record(duration time.Duration) {
	ms := duration.Milliseconds()
	switch {
	case ms < 1:
		th.buckets[0].Add(1)
	case ms < 10:
		th.buckets[1].Add(1)
	case ms < 100:
		th.buckets[2].Add(1)
	case ms < 1000:
		th.buckets[3].Add(1)
	default:
		th.buckets[4].Add(1)
	}

	th.mu.Lock()
	defer th.mu.Unlock()

	if len(th.recentTimings) >= th.maxRecentTimings {
		th.recentTimings = th.recentTimings[1:]
	}
	th.recentTimings = append(th.recentTimings, duration)
}

// Buckets returns the non-cumulative bucket counts.
func (th *TimingHistogram) Buckets() [5]uint64 {
	var out [5]uint64
	for i := range th.buckets {
		out[i] = th.buckets[i].Load()
	}
	return out
}

// Percentiles holds timing percentiles.
type Percentiles struct {
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
}

// Percentiles calculates P50, P95, P99 from recent timings
func (th *TimingHistogram) Percentiles() Percentiles {
	th.mu.Lock()
	sorted := slices.Clone(th.recentTimings)
	th.mu.Unlock()

	if len(sorted) == 0 {
		return Percentiles{}
	}
	slices.Sort(sorted)

	return Percentiles{
		P50: sorted[len(sorted)*50/100],
		P95: sorted[len(sorted)*95/100],
		P99: sorted[len(sorted)*99/100],
	}
}

// OperationSnapshot is a point-in-time view of one operation.
type OperationSnapshot struct {
	Total         uint64      `json:"total"`
	Failed        uint64      `json:"failed"`
	SuccessRate   float64     `json:"success_rate"`
	AvgDurationMs float64     `json:"avg_duration_ms"`
	Histogram     [5]uint64   `json:"timing_histogram"`
	Percentiles   Percentiles `json:"timing_percentiles"`
}

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	UptimeSeconds      float64                         `json:"uptime_seconds"`
	WordsStemmed       uint64                          `json:"words_stemmed"`
	CorrectionsApplied uint64                          `json:"corrections_applied"`
	DocumentsAdded     uint64                          `json:"documents_added"`
	DocumentsDeleted   uint64                          `json:"documents_deleted"`
	ActiveStreams      int64                           `json:"active_streams"`
	TotalStreams       uint64                          `json:"total_streams"`
	Goroutines         int                             `json:"goroutines"`
	HeapInUseBytes     uint64                          `json:"heap_in_use_bytes"`
	Operations         map[Operation]OperationSnapshot `json:"operations"`
}

// Snapshot returns the current metrics
func (c *Collector) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snap := Snapshot{
		WordsStemmed:       c.wordsStemmed.Load(),
		CorrectionsApplied: c.correctionsApplied.Load(),
		DocumentsAdded:     c.documentsAdded.Load(),
		DocumentsDeleted:   c.documentsDeleted.Load(),
		ActiveStreams:      c.activeStreams.Load(),
		TotalStreams:       c.totalStreams.Load(),
		Goroutines:         runtime.NumGoroutine(),
		HeapInUseBytes:     mem.HeapInuse,
		Operations:         make(map[Operation]OperationSnapshot),
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	snap.UptimeSeconds = time.Since(c.startTime).Seconds()
	for op, s := range c.operations {
		total := s.total.Load()
		failed := s.failed.Load()
		var avg float64
		if total > 0 {
			avg = float64(s.totalTime.Load()) / float64(total) / 1e6
		}
		snap.Operations[op] = OperationSnapshot{
			Total:         total,
			Failed:        failed,
			SuccessRate:   calculateSuccessRate(total, failed),
			AvgDurationMs: avg,
			Histogram:     s.timings.Buckets(),
			Percentiles:   s.timings.Percentiles(),
		}
	}
	return snap
}

// Reset zeroes every counter except the active stream count, which reflects
// current state.
func (c *Collector) Reset() {
	c.wordsStemmed.Store(0)
	c.correctionsApplied.Store(0)
	c.documentsAdded.Store(0)
	c.documentsDeleted.Store(0)
	c.totalStreams.Store(0)

	c.mu.Lock()
	for op := range c.operations {
		c.operations[op] = &operationStats{timings: NewTimingHistogram(1000)}
	}
	c.startTime = time.Now()
	c.mu.Unlock()
}

func calculateSuccessRate(total, failed uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-failed) / float64(total) * 100
}
