// Package pipeline wires a source and a sink through the relay.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Geun-Oh/pipebuffer/internal/buffer"
	"github.com/Geun-Oh/pipebuffer/internal/config"
	"github.com/Geun-Oh/pipebuffer/internal/monitor"
	"github.com/Geun-Oh/pipebuffer/internal/notify"
	"github.com/Geun-Oh/pipebuffer/internal/poll"
	"github.com/Geun-Oh/pipebuffer/internal/relay"
	"github.com/Geun-Oh/pipebuffer/internal/sink"
	"github.com/Geun-Oh/pipebuffer/internal/source"
)

// Config holds pipeline configuration.
type Config struct {
	Source   source.Source
	Sink     sink.Sink
	Settings config.Config
	Stats    *monitor.Stats
	Logger   *zap.Logger
	Poller   poll.Poller // optional; defaults to select(2) over the endpoints
	Summary  io.Writer   // optional; receives the stats summary on exit
}

// Run starts the source and relays it into the sink until the relay stops.
// The relay has no clean exit, so Run always returns an error.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Source == nil {
		return errors.New("pipeline: source is required")
	}
	if cfg.Sink == nil {
		return errors.New("pipeline: sink is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stats := cfg.Stats
	if stats == nil {
		stats = monitor.NewStats()
	}

	if err := cfg.Source.Start(ctx); err != nil {
		return multierr.Append(
			errors.Wrap(err, "pipeline: start source"),
			wrapClose(cfg.Sink.Name(), cfg.Sink.Close()),
		)
	}

	poller := cfg.Poller
	if poller == nil {
		sel, err := poll.NewSelect(cfg.Source.Fd(), cfg.Sink.Fd())
		if err != nil {
			return multierr.Combine(
				errors.Wrap(err, "pipeline: watch endpoints"),
				wrapClose(cfg.Sink.Name(), cfg.Sink.Close()),
				wrapClose(cfg.Source.Name(), cfg.Source.Close()),
			)
		}
		poller = sel
	}

	s := cfg.Settings
	sched := relay.New(relay.Options{
		Ring:     buffer.NewRing(s.Slots, int(s.BlockSize)),
		Poller:   poller,
		Input:    cfg.Source,
		Output:   cfg.Sink,
		Notifier: notify.NewFiles(s.FullSignal, s.EmptySignal, logger.Named("notify")),
		Stats:    stats,
		Rate:     monitor.NewRateDetector(10*time.Second, 3.0),
		Wait:     s.Wait,
		Logger:   logger.Named("relay"),
	})

	logger.Info("relay started",
		zap.String("source", cfg.Source.Name()),
		zap.String("sink", cfg.Sink.Name()),
		zap.Int("block_size", int(s.BlockSize)),
		zap.Int("slots", s.Slots),
		zap.Duration("wait", s.Wait),
	)

	err := sched.Run(ctx)

	// Blocks still queued are dropped, not drained.
	logger.Info("relay stopped",
		zap.Uint64("blocks_in", stats.BlocksIn()),
		zap.Uint64("blocks_out", stats.BlocksOut()),
		zap.Int("dropped", sched.Ring().Len()),
		zap.Error(err),
	)
	if cfg.Summary != nil {
		fmt.Fprintln(cfg.Summary, stats.Summary())
	}

	closeErr := multierr.Combine(
		wrapClose(cfg.Sink.Name(), cfg.Sink.Close()),
		wrapClose(cfg.Source.Name(), cfg.Source.Close()),
	)
	return multierr.Append(err, closeErr)
}

func wrapClose(name string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "pipeline: close %s", name)
}
