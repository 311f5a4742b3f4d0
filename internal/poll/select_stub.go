//go:build !linux && !darwin

package poll

import "time"

// Select is unavailable on this platform; every Wait fails.
type Select struct{}

// NewSelect returns a poller whose Wait always fails with ErrUnsupported.
func NewSelect(inFd, outFd uintptr) (*Select, error) {
	return &Select{}, nil
}

// Wait implements Poller.
func (s *Select) Wait(bool, time.Duration) (Readiness, error) {
	return Readiness{}, ErrUnsupported
}
