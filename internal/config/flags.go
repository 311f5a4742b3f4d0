package config

import (
	"github.com/spf13/pflag"
)

// Flags binds the configuration to a flag set. Explicitly set flags take
// precedence over the config file, which takes precedence over defaults.
type Flags struct {
	path string
	cfg  Config
}

// Bind registers the pipebuffer flags on fs.
func (f *Flags) Bind(fs *pflag.FlagSet) {
	f.cfg = Default()
	fs.StringVarP(&f.path, "config", "c", "", "YAML config file")
	fs.VarP(&f.cfg.BlockSize, "block", "b", "block size, e.g. 14000 or 16KiB")
	fs.IntVarP(&f.cfg.Slots, "slots", "n", f.cfg.Slots, "number of blocks held in the buffer")
	fs.DurationVarP(&f.cfg.Wait, "wait", "w", f.cfg.Wait, "readiness wait timeout")
	fs.StringVar(&f.cfg.EmptySignal, "empty-signal", f.cfg.EmptySignal, "file touched when the buffer drains (empty disables)")
	fs.StringVar(&f.cfg.FullSignal, "full-signal", f.cfg.FullSignal, "file touched when the buffer is full (empty disables)")
	fs.BoolVarP(&f.cfg.Verbose, "verbose", "v", false, "log every read and write")
	fs.BoolVarP(&f.cfg.ShowStats, "stats", "s", false, "print a transfer summary on exit")
	fs.StringVarP(&f.cfg.Input, "input", "i", "", "read from this file or FIFO instead of stdin")
	fs.StringVarP(&f.cfg.Output, "output", "o", "", "write to this file or FIFO instead of stdout")
}

// Resolve merges defaults, the config file and the flags that were set on fs,
// then validates the result. A non-empty command overrides any configured one.
func (f *Flags) Resolve(fs *pflag.FlagSet, command []string) (Config, error) {
	cfg := Default()
	if f.path != "" {
		var err error
		if cfg, err = Load(f.path); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "block":
			cfg.BlockSize = f.cfg.BlockSize
		case "slots":
			cfg.Slots = f.cfg.Slots
		case "wait":
			cfg.Wait = f.cfg.Wait
		case "empty-signal":
			cfg.EmptySignal = f.cfg.EmptySignal
		case "full-signal":
			cfg.FullSignal = f.cfg.FullSignal
		case "verbose":
			cfg.Verbose = f.cfg.Verbose
		case "stats":
			cfg.ShowStats = f.cfg.ShowStats
		case "input":
			cfg.Input = f.cfg.Input
		case "output":
			cfg.Output = f.cfg.Output
		}
	})
	if len(command) > 0 {
		cfg.Exec = command
	}

	return cfg, cfg.Validate()
}
