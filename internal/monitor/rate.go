package monitor

import (
	"sync"
	"time"
)

// RateDetector tracks byte throughput and detects bursts using a sliding window.
type RateDetector struct {
	mu         sync.Mutex
	window     time.Duration
	buckets    []int64     // per-second byte counters
	timestamps []time.Time // timestamp for each bucket
	threshold  float64     // burst threshold multiplier (e.g., 3.0 = 3x average)
	now        func() time.Time
}

// NewRateDetector creates a rate detector with the given window duration and burst threshold.
// threshold is the multiplier over the moving average that flags a burst.
func NewRateDetector(window time.Duration, threshold float64) *RateDetector {
	if window < time.Second {
		window = 10 * time.Second
	}
	if threshold <= 0 {
		threshold = 3.0
	}
	return &RateDetector{
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
}

// Record adds n bytes at the current time.
// Returns true if the current second is a burst.
func (r *RateDetector) Record(n int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.prune(now)

	truncated := now.Truncate(time.Second)
	if len(r.timestamps) > 0 && r.timestamps[len(r.timestamps)-1].Equal(truncated) {
		r.buckets[len(r.buckets)-1] += int64(n)
	} else {
		r.buckets = append(r.buckets, int64(n))
		r.timestamps = append(r.timestamps, truncated)
	}

	return r.isBursting()
}

// CurrentRate returns bytes per second over the last window.
func (r *RateDetector) CurrentRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(r.now())

	var total int64
	for _, b := range r.buckets {
		total += b
	}
	return float64(total) / r.window.Seconds()
}

// prune removes buckets older than the window. Must be called with lock held.
func (r *RateDetector) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.timestamps) && r.timestamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.buckets = r.buckets[i:]
		r.timestamps = r.timestamps[i:]
	}
}

// isBursting checks if the latest bucket exceeds threshold * average. Must be called with lock held.
func (r *RateDetector) isBursting() bool {
	if len(r.buckets) < 3 {
		return false // not enough data
	}

	var sum int64
	for i := 0; i < len(r.buckets)-1; i++ {
		sum += r.buckets[i]
	}
	avg := float64(sum) / float64(len(r.buckets)-1)
	if avg == 0 {
		return false
	}

	latest := float64(r.buckets[len(r.buckets)-1])
	return latest > avg*r.threshold
}
