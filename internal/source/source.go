// Package source defines the Source interface and the relay input endpoints.
package source

import (
	"context"
	"io"
)

// Source is the relay input. It must be backed by a file descriptor so the
// relay can wait for readability.
type Source interface {
	io.Reader

	// Start opens the underlying stream. It must be called before Read or Fd.
	Start(ctx context.Context) error

	// Fd returns the descriptor polled for readability.
	Fd() uintptr

	// Close releases the stream and anything started with it.
	Close() error

	// Name returns a human-readable identifier for this source.
	Name() string
}
