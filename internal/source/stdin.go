package source

import (
	"context"
	"os"
)

// StdinSource reads from os.Stdin (pipe mode).
type StdinSource struct{}

// NewStdinSource creates a source that reads from stdin.
func NewStdinSource() *StdinSource {
	return &StdinSource{}
}

// Name returns the source identifier.
func (s *StdinSource) Name() string {
	return "stdin"
}

// Start is a no-op: stdin is already open.
func (s *StdinSource) Start(ctx context.Context) error {
	return nil
}

// Read reads from stdin.
func (s *StdinSource) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

// Fd returns the stdin descriptor.
func (s *StdinSource) Fd() uintptr {
	return os.Stdin.Fd()
}

// Close leaves stdin open; the process owns it.
func (s *StdinSource) Close() error {
	return nil
}
