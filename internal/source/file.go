package source

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// FileSource reads from a named file or FIFO.
// Opening a FIFO blocks until a writer connects.
type FileSource struct {
	path string
	f    *os.File
}

// NewFileSource creates a source that reads from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return fmt.Sprintf("file:%s", s.path)
}

// Start opens the file.
func (s *FileSource) Start(ctx context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "open input %s", s.path)
	}
	s.f = f
	return nil
}

// Read reads from the file.
func (s *FileSource) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

// Fd returns the file descriptor.
func (s *FileSource) Fd() uintptr {
	return s.f.Fd()
}

// Close closes the file.
func (s *FileSource) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}
