// Package sink defines the Sink interface and the relay output endpoints.
package sink

import (
	"io"
)

// Sink is the relay output. Each Write carries exactly one block.
type Sink interface {
	io.Writer

	// Fd returns the descriptor polled for writability.
	Fd() uintptr

	// Flush ensures all written blocks reached the destination.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}
