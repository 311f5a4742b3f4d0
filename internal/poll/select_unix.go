//go:build linux || darwin

package poll

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// fdSetSize is the number of descriptors a unix.FdSet can hold.
const fdSetSize = int(unsafe.Sizeof(unix.FdSet{})) * 8

// Select is a Poller backed by select(2) over one input and one output descriptor.
type Select struct {
	in  int
	out int
}

// NewSelect creates a select(2) poller for the given descriptors. Descriptors
// at or above FD_SETSIZE are rejected.
func NewSelect(inFd, outFd uintptr) (*Select, error) {
	s := &Select{in: int(inFd), out: int(outFd)}
	for _, fd := range []int{s.in, s.out} {
		if fd < 0 || fd >= fdSetSize {
			return nil, errors.Wrapf(ErrDescriptorRange, "descriptor %d, limit %d", fd, fdSetSize)
		}
	}
	return s, nil
}

// Wait implements Poller. An interrupted wait is reported as a timeout.
func (s *Select) Wait(watchOutput bool, timeout time.Duration) (Readiness, error) {
	var rfds, wfds unix.FdSet
	rfds.Zero()
	wfds.Zero()

	rfds.Set(s.in)
	maxfd := s.in
	if watchOutput {
		wfds.Set(s.out)
		if s.out > maxfd {
			maxfd = s.out
		}
	}

	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	n, err := unix.Select(maxfd+1, &rfds, &wfds, nil, &tv)
	if err != nil {
		if err == unix.EINTR {
			return Readiness{}, nil
		}
		return Readiness{}, errors.Wrap(err, "select")
	}
	if n == 0 {
		return Readiness{}, nil
	}
	return Readiness{
		Input:  rfds.IsSet(s.in),
		Output: watchOutput && wfds.IsSet(s.out),
	}, nil
}
