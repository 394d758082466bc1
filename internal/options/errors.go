package options

import (
	"errors"
	"fmt"
)

var (
	errDepthZero       = errors.New("memory depth must be positive")
	errDepthTooLarge   = errors.New("memory depth too large")
	errUnsupportedMode = errors.New("unsupported mode")
)

// ConfigurationError is returned for invalid configuration values.
// It aborts the run before any input is processed.
type ConfigurationError struct {
	Option string
	Value  string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid value '%s' for option %s: %s", e.Value, e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
