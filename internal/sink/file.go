package sink

import (
	"os"

	"github.com/pkg/errors"
)

// FileSink writes blocks to a named file or FIFO, appending to existing content.
type FileSink struct {
	file *os.File
}

// NewFileSink opens path for appending, creating it if needed.
// Opening a FIFO blocks until a reader connects.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open output file %s", path)
	}
	return &FileSink{file: f}, nil
}

// Write writes one block to the file.
func (s *FileSink) Write(p []byte) (int, error) {
	return s.file.Write(p)
}

// Fd returns the file descriptor.
func (s *FileSink) Fd() uintptr { return s.file.Fd() }

// Flush syncs the file to disk. FIFOs and other unsyncable files are ignored.
func (s *FileSink) Flush() error {
	info, err := s.file.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return s.file.Sync()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// Name returns the sink identifier.
func (s *FileSink) Name() string {
	return "file:" + s.file.Name()
}
