package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Geun-Oh/pipebuffer/internal/config"
	"github.com/Geun-Oh/pipebuffer/internal/monitor"
	"github.com/Geun-Oh/pipebuffer/internal/poll"
	"github.com/Geun-Oh/pipebuffer/internal/relay"
	"github.com/Geun-Oh/pipebuffer/internal/sink"
	"github.com/Geun-Oh/pipebuffer/internal/source"
)

func testSettings(dir string) config.Config {
	cfg := config.Default()
	cfg.BlockSize = 4
	cfg.Slots = 3
	cfg.Wait = time.Millisecond
	cfg.FullSignal = filepath.Join(dir, "full")
	cfg.EmptySignal = filepath.Join(dir, "empty")
	return cfg
}

func TestRunFileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(in, []byte("aaaabbbbccccddddeee"), 0o644))

	snk, err := sink.NewFileSink(out)
	require.NoError(t, err)
	core, logs := observer.New(zapcore.InfoLevel)
	stats := monitor.NewStats()
	var summary bytes.Buffer

	err = Run(context.Background(), &Config{
		Source:   source.NewFileSource(in),
		Sink:     snk,
		Settings: testSettings(dir),
		Stats:    stats,
		Logger:   zap.New(core),
		Summary:  &summary,
	})

	// A regular file stays readable at EOF, so the relay dies on the first
	// read past the end with the last two blocks still queued.
	require.Error(t, err)
	assert.True(t, errors.Is(err, relay.ErrInputClosed))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "aaaabbbbcccc", string(data))

	assert.FileExists(t, filepath.Join(dir, "full"))
	assert.NoFileExists(t, filepath.Join(dir, "empty"))
	assert.Equal(t, uint64(3), stats.FullEvents())

	assert.Equal(t, 1, logs.FilterMessage("relay started").Len())
	stopped := logs.FilterMessage("relay stopped").All()
	require.Len(t, stopped, 1)
	assert.Equal(t, int64(2), stopped[0].ContextMap()["dropped"])
	assert.Equal(t, 3, logs.FilterMessage("buffer full").Len())
	assert.Contains(t, summary.String(), "Written:    3 blocks")
}

// idleAfter reports the input readable while data remains, then times out.
type idleAfter struct {
	r *bytes.Reader
}

func (p idleAfter) Wait(bool, time.Duration) (poll.Readiness, error) {
	return poll.Readiness{Input: p.r.Len() > 0}, nil
}

// readerSource adapts an in-memory reader to source.Source.
type readerSource struct {
	*bytes.Reader
	closed bool
}

func (s *readerSource) Start(context.Context) error { return nil }
func (s *readerSource) Fd() uintptr                 { return 0 }
func (s *readerSource) Close() error                { s.closed = true; return nil }
func (s *readerSource) Name() string                { return "memory" }

type bufferSink struct {
	bytes.Buffer
	closeErr error
}

func (s *bufferSink) Fd() uintptr  { return 1 }
func (s *bufferSink) Flush() error { return nil }
func (s *bufferSink) Close() error { return s.closeErr }
func (s *bufferSink) Name() string { return "memory" }

func TestRunDrainsUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	src := &readerSource{Reader: bytes.NewReader([]byte("aaaabbbbccccdddd"))}
	snk := &bufferSink{closeErr: errors.New("close failed")}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := Run(ctx, &Config{
		Source:   src,
		Sink:     snk,
		Settings: testSettings(dir),
		Poller:   idleAfter{r: src.Reader},
	})

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.ErrorContains(t, err, "pipeline: close memory: close failed")
	assert.Equal(t, "aaaabbbbccccdddd", snk.String())
	assert.True(t, src.closed)
	assert.FileExists(t, filepath.Join(dir, "empty"))
}

// brokenSink fails every write.
type brokenSink struct{ bufferSink }

func (s *brokenSink) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }

func TestRunOutputFailureStopsCommand(t *testing.T) {
	settings := testSettings(t.TempDir())
	settings.Slots = 1

	done := make(chan error, 1)
	start := time.Now()
	go func() {
		done <- Run(context.Background(), &Config{
			Source:   source.NewExecSource("sh", []string{"-c", "printf abcd; sleep 30"}),
			Sink:     &brokenSink{},
			Settings: settings,
		})
	}()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, relay.ErrOutput))
		assert.Less(t, time.Since(start), 10*time.Second)
	case <-time.After(20 * time.Second):
		t.Fatal("Run kept waiting for the command after the output failed")
	}
}

func TestRunRejectsUnwatchableEndpoints(t *testing.T) {
	src := &readerSource{Reader: bytes.NewReader(nil)}
	err := Run(context.Background(), &Config{
		Source:   &highFdSource{readerSource: src},
		Sink:     &bufferSink{},
		Settings: config.Default(),
	})
	assert.True(t, errors.Is(err, poll.ErrDescriptorRange))
	assert.ErrorContains(t, err, "pipeline: watch endpoints")
	assert.True(t, src.closed)
}

// highFdSource reports a descriptor no select(2) set can hold.
type highFdSource struct{ *readerSource }

func (s *highFdSource) Fd() uintptr { return 1 << 20 }

func TestRunRequiresEndpoints(t *testing.T) {
	assert.ErrorContains(t, Run(context.Background(), &Config{}), "source is required")
	assert.ErrorContains(t, Run(context.Background(), &Config{
		Source: &readerSource{Reader: bytes.NewReader(nil)},
	}), "sink is required")
}

func TestRunSourceStartFailure(t *testing.T) {
	snk := &bufferSink{}
	err := Run(context.Background(), &Config{
		Source:   source.NewFileSource(filepath.Join(t.TempDir(), "missing")),
		Sink:     snk,
		Settings: config.Default(),
	})
	assert.ErrorContains(t, err, "pipeline: start source")
}
