package client

import (
	"sync"
	"time"
)

// telemetryBuffer is a bounded ring buffer of call records. When full, the
// oldest record is overwritten.
type telemetryBuffer struct {
	mu      sync.Mutex
	records []CallRecord
	next    int
	filled  bool
}

func newTelemetryBuffer(size int) *telemetryBuffer {
	return &telemetryBuffer{records: make([]CallRecord, size)}
}

func (t *telemetryBuffer) record(r CallRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records[t.next] = r
	t.next++
	if t.next == len(t.records) {
		t.next = 0
		t.filled = true
	}
}

// snapshot returns the buffered records, oldest first.
func (t *telemetryBuffer) snapshot() []CallRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.filled {
		out := make([]CallRecord, t.next)
		copy(out, t.records[:t.next])
		return out
	}
	out := make([]CallRecord, 0, len(t.records))
	out = append(out, t.records[t.next:]...)
	out = append(out, t.records[:t.next]...)
	return out
}

// stats aggregates the buffer into counters and rates.
func (t *telemetryBuffer) stats() TelemetryStats {
	records := t.snapshot()

	stats := TelemetryStats{Calls: len(records)}
	if len(records) == 0 {
		return stats
	}

	var total time.Duration
	for _, r := range records {
		total += r.Duration
		if !r.Success {
			stats.Errors++
		}
		if r.CacheHit {
			stats.CacheHits++
		}
	}
	stats.AvgDuration = total / time.Duration(len(records))
	stats.ErrorRate = float64(stats.Errors) / float64(len(records))
	stats.CacheHitRate = float64(stats.CacheHits) / float64(len(records))
	return stats
}
