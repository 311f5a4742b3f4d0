package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// killGrace bounds how long Close waits for the command's descriptors to be
// released after the command was killed.
const killGrace = time.Second

// ExecSource runs a command and relays its stdout. The command's stderr is
// passed through to ours.
type ExecSource struct {
	command string
	args    []string
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	r       *os.File
}

// NewExecSource creates a source that runs the given command with arguments.
func NewExecSource(command string, args []string) *ExecSource {
	return &ExecSource{
		command: command,
		args:    args,
	}
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return fmt.Sprintf("exec:%s", s.command)
}

// Start launches the command. It is killed when ctx is cancelled or the
// source is closed.
func (s *ExecSource) Start(ctx context.Context) error {
	r, w, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "stdout pipe")
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	cmd.WaitDelay = killGrace

	if err := cmd.Start(); err != nil {
		cancel()
		r.Close()
		w.Close()
		return errors.Wrap(err, "start command")
	}
	// The child holds its own copy; ours must go so EOF arrives when it exits.
	w.Close()

	s.cmd = cmd
	s.cancel = cancel
	s.r = r
	return nil
}

// Read reads the command's stdout.
func (s *ExecSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Fd returns the read end of the command's stdout pipe.
func (s *ExecSource) Fd() uintptr {
	return s.r.Fd()
}

// Close closes the pipe, kills the command if it is still running and reaps
// it. A command that exits with a non-zero status or is killed here is not an
// error.
func (s *ExecSource) Close() error {
	if s.cmd == nil {
		return nil
	}
	err := s.r.Close()
	s.cancel()
	if werr := s.cmd.Wait(); werr != nil {
		var exitErr *exec.ExitError
		// A command that exited cleanly before the kill reports the cancel.
		if !errors.As(werr, &exitErr) && !errors.Is(werr, context.Canceled) {
			err = multierr.Append(err, errors.Wrap(werr, "wait command"))
		}
	}
	return err
}
