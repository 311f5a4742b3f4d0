// Package monitor provides runtime statistics for the relay.
package monitor

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/atomic"
)

// Stats collects relay counters. The relay loop writes; any goroutine may read.
type Stats struct {
	blocksIn    atomic.Uint64
	blocksOut   atomic.Uint64
	bytesIn     atomic.Uint64
	bytesOut    atomic.Uint64
	fullEvents  atomic.Uint64
	emptyEvents atomic.Uint64
	peak        atomic.Int64
	occupancy   atomic.Int64
	startTime   time.Time
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordRead counts one ingested block of n bytes and the resulting occupancy.
func (s *Stats) RecordRead(n, occupancy int) {
	s.blocksIn.Inc()
	s.bytesIn.Add(uint64(n))
	s.setOccupancy(occupancy)
}

// RecordWrite counts one emitted block of n bytes and the resulting occupancy.
func (s *Stats) RecordWrite(n, occupancy int) {
	s.blocksOut.Inc()
	s.bytesOut.Add(uint64(n))
	s.setOccupancy(occupancy)
}

// RecordFull counts one full-condition report.
func (s *Stats) RecordFull() {
	s.fullEvents.Inc()
}

// RecordEmpty counts one drain to zero occupancy.
func (s *Stats) RecordEmpty() {
	s.emptyEvents.Inc()
}

func (s *Stats) setOccupancy(n int) {
	v := int64(n)
	s.occupancy.Store(v)
	for {
		p := s.peak.Load()
		if v <= p || s.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

// BlocksIn returns the number of ingested blocks.
func (s *Stats) BlocksIn() uint64 { return s.blocksIn.Load() }

// BlocksOut returns the number of emitted blocks.
func (s *Stats) BlocksOut() uint64 { return s.blocksOut.Load() }

// BytesIn returns the number of ingested bytes.
func (s *Stats) BytesIn() uint64 { return s.bytesIn.Load() }

// BytesOut returns the number of emitted bytes.
func (s *Stats) BytesOut() uint64 { return s.bytesOut.Load() }

// FullEvents returns how often the full condition was reported.
func (s *Stats) FullEvents() uint64 { return s.fullEvents.Load() }

// EmptyEvents returns how often the ring drained to zero.
func (s *Stats) EmptyEvents() uint64 { return s.emptyEvents.Load() }

// Occupancy returns the most recently recorded number of queued blocks.
func (s *Stats) Occupancy() int { return int(s.occupancy.Load()) }

// Peak returns the highest recorded number of queued blocks.
func (s *Stats) Peak() int { return int(s.peak.Load()) }

// Elapsed returns the time since monitoring started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// Rate returns the average emitted bytes per second.
func (s *Stats) Rate() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.BytesOut()) / elapsed
}

// Summary returns a formatted summary string.
func (s *Stats) Summary() string {
	return fmt.Sprintf(
		"── Summary ──\n"+
			"  Read:       %d blocks (%s)\n"+
			"  Written:    %d blocks (%s)\n"+
			"  Queued:     %d (peak %d)\n"+
			"  Full/Empty: %d/%d\n"+
			"  Duration:   %s\n"+
			"  Throughput: %s/s\n"+
			"─────────────",
		s.BlocksIn(), humanize.IBytes(s.BytesIn()),
		s.BlocksOut(), humanize.IBytes(s.BytesOut()),
		s.Occupancy(), s.Peak(),
		s.FullEvents(), s.EmptyEvents(),
		s.Elapsed().Round(time.Millisecond),
		humanize.IBytes(uint64(s.Rate())),
	)
}
