// Package relay implements the fill-then-drain flow control between the
// input and output of pipebuffer.
package relay

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Geun-Oh/pipebuffer/internal/buffer"
	"github.com/Geun-Oh/pipebuffer/internal/monitor"
	"github.com/Geun-Oh/pipebuffer/internal/notify"
	"github.com/Geun-Oh/pipebuffer/internal/poll"
)

// DefaultWait is the bound on a single readiness wait.
const DefaultWait = 5 * time.Millisecond

// Options configures a Scheduler. Ring, Poller, Input and Output are required.
type Options struct {
	Ring     *buffer.Ring
	Poller   poll.Poller
	Input    io.Reader
	Output   io.Writer
	Notifier notify.Notifier       // defaults to notify.Nop
	Stats    *monitor.Stats        // defaults to a fresh collector
	Rate     *monitor.RateDetector // optional input burst detection
	Wait     time.Duration         // defaults to DefaultWait
	Logger   *zap.Logger           // defaults to a no-op logger
}

// Scheduler is the single-threaded relay loop. It exclusively owns its ring
// and state; none of its methods are goroutine-safe.
type Scheduler struct {
	ring     *buffer.Ring
	poller   poll.Poller
	in       io.Reader
	out      io.Writer
	notifier notify.Notifier
	stats    *monitor.Stats
	rate     *monitor.RateDetector
	wait     time.Duration
	logger   *zap.Logger
	state    State
}

// New creates a Scheduler in the Priming state.
func New(opts Options) *Scheduler {
	s := &Scheduler{
		ring:     opts.Ring,
		poller:   opts.Poller,
		in:       opts.Input,
		out:      opts.Output,
		notifier: opts.Notifier,
		stats:    opts.Stats,
		rate:     opts.Rate,
		wait:     opts.Wait,
		logger:   opts.Logger,
		state:    Priming,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.stats == nil {
		s.stats = monitor.NewStats()
	}
	if s.wait <= 0 {
		s.wait = DefaultWait
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// State returns the current flow-control state.
func (s *Scheduler) State() State { return s.state }

// Ring returns the block store driven by the scheduler.
func (s *Scheduler) Ring() *buffer.Ring { return s.ring }

// Stats returns the counters updated by the scheduler.
func (s *Scheduler) Stats() *monitor.Stats { return s.stats }

// Run steps the loop until a fatal condition occurs or ctx is done.
// It never returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "relay interrupted")
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
}

// Step runs one iteration: wait, settle the full state, ingest at most one
// block, emit at most one block.
func (s *Scheduler) Step() error {
	watchOutput := s.state != Priming && !s.ring.IsEmpty()
	ready, err := s.poller.Wait(watchOutput, s.wait)
	if err != nil {
		s.logger.Error("wait failed", zap.Error(err))
		return newError(ErrWait, err, "wait for readiness")
	}

	if s.ring.IsFull() {
		s.state = Full
	} else if s.state == Full {
		s.state = Draining
	}

	if ready.Input && s.state != Full {
		// Fresh input pauses draining until the ring fills again.
		s.state = Priming
		if err := s.ingest(); err != nil {
			return err
		}
	}

	if s.state != Priming && !s.ring.IsEmpty() {
		return s.emit()
	}
	return nil
}

func (s *Scheduler) ingest() error {
	b, err := s.ring.Fill(s.in)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, buffer.ErrEmptyRead) {
			s.logger.Error("input closed", zap.Int("queued", s.ring.Len()))
			return newError(ErrInputClosed, err, "read input")
		}
		s.logger.Error("input failed", zap.Error(err), zap.Int("queued", s.ring.Len()))
		return newError(ErrInput, err, "read input")
	}

	s.stats.RecordRead(b.Len, s.ring.Len())
	if ce := s.logger.Check(zapcore.DebugLevel, "read"); ce != nil {
		ce.Write(zap.Int("bytes", b.Len), zap.Uint64("seq", b.Seq))
	}
	if s.rate != nil && s.rate.Record(b.Len) {
		s.logger.Debug("input burst", zap.Float64("bytes_per_sec", s.rate.CurrentRate()))
	}
	return nil
}

func (s *Scheduler) emit() error {
	if s.state == Full {
		s.logger.Warn("buffer full", zap.Int("queued", s.ring.Len()))
		s.stats.RecordFull()
		s.notifier.Full()
	}

	b := s.ring.Peek()
	n, err := s.out.Write(b.Data)
	if err != nil {
		s.logger.Error("output failed", zap.Error(err), zap.Stringer("block", b))
		return newError(ErrOutput, err, "write output")
	}
	if ce := s.logger.Check(zapcore.DebugLevel, "write"); ce != nil {
		ce.Write(zap.Int("bytes", n), zap.Uint64("seq", b.Seq))
	}

	s.ring.Pop()
	s.stats.RecordWrite(b.Len, s.ring.Len())
	if s.ring.IsEmpty() {
		s.stats.RecordEmpty()
		s.notifier.Empty()
		s.state = Draining
	}
	return nil
}
