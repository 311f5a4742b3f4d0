// Package config holds the pipebuffer settings and their sources: built-in
// defaults, an optional YAML file and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/Geun-Oh/pipebuffer/internal/block"
)

// Default signal file locations.
const (
	DefaultEmptySignal = "/var/ramdisk/empty"
	DefaultFullSignal  = "/var/ramdisk/full"
)

// maxArena bounds slots*block_size so a typo cannot reserve the whole machine.
const maxArena = 16 << 30

// Config is the complete relay configuration.
type Config struct {
	BlockSize   ByteSize      `yaml:"block_size"`
	Slots       int           `yaml:"slots"`
	Wait        time.Duration `yaml:"wait"`
	EmptySignal string        `yaml:"empty_signal"`
	FullSignal  string        `yaml:"full_signal"`
	Verbose     bool          `yaml:"verbose"`
	ShowStats   bool          `yaml:"stats"`
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	Exec        []string      `yaml:"exec"`
}

// Default returns the configuration pipebuffer runs with when nothing is set.
func Default() Config {
	return Config{
		BlockSize:   block.DefaultSize,
		Slots:       block.DefaultSlots,
		Wait:        5 * time.Millisecond,
		EmptySignal: DefaultEmptySignal,
		FullSignal:  DefaultFullSignal,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the relay cannot run with.
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("config: block size must be positive, got %d", c.BlockSize)
	}
	if c.Slots <= 0 {
		return fmt.Errorf("config: slot count must be positive, got %d", c.Slots)
	}
	if arena := int64(c.BlockSize) * int64(c.Slots); arena > maxArena {
		return fmt.Errorf("config: buffer of %s exceeds the %s limit",
			humanize.IBytes(uint64(arena)), humanize.IBytes(maxArena))
	}
	if c.Wait <= 0 {
		return fmt.Errorf("config: wait must be positive, got %s", c.Wait)
	}
	if c.Input != "" && len(c.Exec) > 0 {
		return fmt.Errorf("config: input file and command are mutually exclusive")
	}
	return nil
}

// ByteSize is a byte count that accepts humanized values such as "16KiB".
type ByteSize int

// String implements pflag.Value.
func (b ByteSize) String() string {
	return fmt.Sprintf("%d", int(b))
}

// Set implements pflag.Value.
func (b *ByteSize) Set(s string) error {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return err
	}
	if n > maxArena {
		return fmt.Errorf("size %s too large", s)
	}
	*b = ByteSize(n)
	return nil
}

// Type implements pflag.Value.
func (b *ByteSize) Type() string {
	return "bytes"
}

// UnmarshalYAML accepts both plain integers and humanized strings.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: byte size must be a scalar", node.Line)
	}
	if err := b.Set(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}
