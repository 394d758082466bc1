// Package config handles application configuration and setup
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/hexmem/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings. It logs to
// stderr, stdout carries the converted output when no output file is given.
func CreateLogger(debug, quiet bool) *log.Logger {
	return NewLogger(os.Stderr, debug, quiet)
}

// NewLogger creates a logger writing to the given output.
func NewLogger(output io.Writer, debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = output
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// DefaultDepth returns the default memory depth in words for a conversion mode.
func DefaultDepth(mode string) (uint32, error) {
	switch mode {
	case options.ModeFlat:
		return options.DefaultFlatDepth, nil
	case options.ModeFram:
		return options.DefaultFramDepth, nil
	default:
		return 0, fmt.Errorf("unsupported mode '%s'", mode)
	}
}

// OutputSuffix returns the file name suffix that batch processing appends
// to the input base name for a conversion mode.
func OutputSuffix(mode string) string {
	return "_" + mode + ".hex"
}
