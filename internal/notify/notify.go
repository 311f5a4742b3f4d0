// Package notify publishes ring occupancy transitions as signal files.
package notify

import (
	"os"
	"time"

	"go.uber.org/zap"
)

// Notifier receives ring occupancy transitions.
type Notifier interface {
	// Full is called when the ring is found full during emission.
	Full()
	// Empty is called when emission leaves the ring empty.
	Empty()
}

// Nop ignores every transition.
type Nop struct{}

// Full implements Notifier.
func (Nop) Full() {}

// Empty implements Notifier.
func (Nop) Empty() {}

// Files touches one file per transition. An empty path disables that signal.
// Failures are logged at debug level and otherwise ignored.
type Files struct {
	FullPath  string
	EmptyPath string
	Logger    *zap.Logger
}

// NewFiles creates a file-touching Notifier.
func NewFiles(fullPath, emptyPath string, logger *zap.Logger) *Files {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Files{FullPath: fullPath, EmptyPath: emptyPath, Logger: logger}
}

// Full implements Notifier.
func (f *Files) Full() { f.touch(f.FullPath) }

// Empty implements Notifier.
func (f *Files) Empty() { f.touch(f.EmptyPath) }

func (f *Files) touch(path string) {
	if path == "" {
		return
	}
	if err := Touch(path, time.Now()); err != nil {
		f.Logger.Debug("signal file not updated", zap.String("path", path), zap.Error(err))
	}
}

// Touch creates path if missing and sets its access and modification times.
// Existing content is left untouched.
func Touch(path string, now time.Time) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Chtimes(path, now, now)
}
