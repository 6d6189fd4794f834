package wikipedia

import (
	"slices"
	"sync"
	"time"
)

type fetchSample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// StatsSnapshot aggregates the fetches inside the window.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
	WindowS  float64 `json:"window_s"`
}

// Stats keeps a rolling window of fetch latencies. A nil *Stats discards
// everything.
type Stats struct {
	mu      sync.Mutex
	samples []fetchSample
	window  time.Duration
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		samples: make([]fetchSample, 0, 256),
		window:  window,
	}
}

// Record adds one fetch. Negative durations count as zero.
func (s *Stats) Record(d time.Duration, failed bool) {
	if s == nil {
		return
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, fetchSample{at: now, duration: max(d, 0), failed: failed})
}

func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{WindowS: s.window.Seconds()}
	if len(s.samples) == 0 {
		return snap
	}

	ms := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		v := sm.duration.Milliseconds()
		ms = append(ms, v)
		sum += v
		if sm.failed {
			snap.Failures++
		}
	}
	slices.Sort(ms)

	snap.Count = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(sum) / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

// pruneLocked drops samples older than the window, in place.
func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm fetchSample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
