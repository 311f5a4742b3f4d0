// Package logging builds the stderr diagnostics logger.
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr. Verbose enables debug
// output; level names are colored when stderr is a terminal.
func New(verbose bool) *zap.Logger {
	return NewWithSink(zapcore.Lock(os.Stderr), verbose, isatty.IsTerminal(os.Stderr.Fd()))
}

// NewWithSink builds the same logger over an arbitrary sink.
func NewWithSink(sink zapcore.WriteSyncer, verbose, color bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	return zap.New(core, zap.ErrorOutput(sink))
}
