// Package logging builds the hclog loggers shared by both binaries.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New returns a root logger writing to stderr. An unknown level falls back
// to info; verbose forces debug.
func New(name, level string, verbose bool) hclog.Logger {
	return NewWithOutput(name, level, verbose, os.Stderr)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(name, level string, verbose bool, out io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	if verbose {
		lvl = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  lvl,
		Output: out,
		Color:  hclog.AutoColor,
	})
}
