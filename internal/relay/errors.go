package relay

import (
	"github.com/pkg/errors"
)

// Fatal conditions that end the relay loop.
var (
	ErrWait        = errors.New("relay: readiness wait failed")
	ErrInputClosed = errors.New("relay: input closed")
	ErrInput       = errors.New("relay: input failed")
	ErrOutput      = errors.New("relay: output failed")
)

// Error is a fatal relay condition. It matches both its Kind and its cause
// under errors.Is.
type Error struct {
	Kind error
	Err  error
}

func newError(kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Err: errors.Wrap(cause, msg)}
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap returns the kind and the wrapped cause.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Cause returns the underlying error that ended the loop.
func (e *Error) Cause() error {
	return errors.Cause(e.Err)
}
