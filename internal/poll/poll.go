// Package poll implements the bounded readiness wait used by the relay loop.
package poll

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupported is returned by Wait on platforms without select(2).
	ErrUnsupported = errors.New("poll: readiness wait not supported on this platform")

	// ErrDescriptorRange is returned by NewSelect for a descriptor that does
	// not fit in a select(2) descriptor set.
	ErrDescriptorRange = errors.New("poll: descriptor out of select range")
)

// Readiness reports which endpoints became ready during a wait.
type Readiness struct {
	Input  bool // input has data or is at end of stream
	Output bool // output can accept a write
}

// TimedOut reports whether the wait ended without any endpoint becoming ready.
func (r Readiness) TimedOut() bool {
	return !r.Input && !r.Output
}

// Poller waits for the relay endpoints to become ready.
type Poller interface {
	// Wait blocks for at most timeout until the input is readable or, when
	// watchOutput is set, the output is writable.
	Wait(watchOutput bool, timeout time.Duration) (Readiness, error)
}
