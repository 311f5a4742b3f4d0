package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Geun-Oh/pipebuffer/internal/config"
	"github.com/Geun-Oh/pipebuffer/internal/logging"
	"github.com/Geun-Oh/pipebuffer/internal/monitor"
	"github.com/Geun-Oh/pipebuffer/internal/pipeline"
	"github.com/Geun-Oh/pipebuffer/internal/sink"
	"github.com/Geun-Oh/pipebuffer/internal/source"
)

var (
	flags   config.Flags
	rootCmd = &cobra.Command{
		Use:   "pipebuffer [flags] [command [args...]]",
		Short: "pipebuffer absorbs rate mismatches in shell pipelines",
		Long: `pipebuffer copies its input to its output through a fixed buffer of blocks.
Output starts once the buffer has filled, so a slow consumer does not stall a
fast producer. The buffer touches signal files when it fills up and when it
drains. If a command is given, its stdout is relayed instead of stdin.

pipebuffer runs until its input ends and then exits with status 1; blocks still
buffered at that point are dropped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

func init() {
	rootCmd.Flags().SetInterspersed(false)
	flags.Bind(rootCmd.Flags())
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := flags.Resolve(cmd.Flags(), args)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Verbose)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := newSource(cfg)
	snk, err := newSink(cfg)
	if err != nil {
		return err
	}

	stats := monitor.NewStats()
	dumpStatsOnSignal(ctx, stats, os.Stderr)

	var summary io.Writer
	if cfg.ShowStats {
		summary = os.Stderr
	}

	return pipeline.Run(ctx, &pipeline.Config{
		Source:   src,
		Sink:     snk,
		Settings: cfg,
		Stats:    stats,
		Logger:   logger,
		Summary:  summary,
	})
}

func newSource(cfg config.Config) source.Source {
	switch {
	case len(cfg.Exec) > 0:
		return source.NewExecSource(cfg.Exec[0], cfg.Exec[1:])
	case cfg.Input != "":
		return source.NewFileSource(cfg.Input)
	default:
		return source.NewStdinSource()
	}
}

func newSink(cfg config.Config) (sink.Sink, error) {
	if cfg.Output != "" {
		return sink.NewFileSink(cfg.Output)
	}
	return sink.NewStdoutSink(), nil
}

// dumpStatsOnSignal writes the stats summary to w on every stats signal
// until ctx is done.
func dumpStatsOnSignal(ctx context.Context, stats *monitor.Stats, w io.Writer) {
	ch := make(chan os.Signal, 1)
	if !notifyStats(ch) {
		return
	}
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ch:
				fmt.Fprintln(w, stats.Summary())
			case <-ctx.Done():
				return
			}
		}
	}()
}
