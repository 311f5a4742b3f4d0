package sink

import (
	"os"
)

// StdoutSink writes blocks to os.Stdout.
type StdoutSink struct{}

// NewStdoutSink creates a sink that writes to stdout.
func NewStdoutSink() *StdoutSink {
	return &StdoutSink{}
}

// Write writes one block to stdout.
func (s *StdoutSink) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

// Fd returns the stdout descriptor.
func (s *StdoutSink) Fd() uintptr { return os.Stdout.Fd() }

// Flush is a no-op for stdout.
func (s *StdoutSink) Flush() error { return nil }

// Close is a no-op for stdout.
func (s *StdoutSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *StdoutSink) Name() string { return "stdout" }
