package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/pipebuffer/internal/config"
	"github.com/Geun-Oh/pipebuffer/internal/sink"
	"github.com/Geun-Oh/pipebuffer/internal/source"
)

func TestNewSource(t *testing.T) {
	cfg := config.Default()
	assert.IsType(t, &source.StdinSource{}, newSource(cfg))

	cfg.Input = "in.fifo"
	assert.Equal(t, "file:in.fifo", newSource(cfg).Name())

	cfg.Input = ""
	cfg.Exec = []string{"tail", "-f", "app.log"}
	assert.Equal(t, "exec:tail", newSource(cfg).Name())
}

func TestNewSink(t *testing.T) {
	cfg := config.Default()
	snk, err := newSink(cfg)
	require.NoError(t, err)
	assert.IsType(t, &sink.StdoutSink{}, snk)

	cfg.Output = filepath.Join(t.TempDir(), "out")
	snk, err = newSink(cfg)
	require.NoError(t, err)
	defer snk.Close()
	assert.Equal(t, "file:"+cfg.Output, snk.Name())
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"--slots", "0"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "slot count must be positive")
}
