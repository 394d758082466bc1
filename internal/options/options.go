// Package options contains the program options.
package options

import (
	"fmt"

	"github.com/retroenv/hexmem/internal/memory"
)

// Conversion modes.
const (
	ModeFlat = "flat" // word addressed records for FPGA RAM initialization
	ModeFram = "fram" // grouped bytes for simulation memory initialization
)

// Default memory depths in words of the conversion modes.
const (
	DefaultFlatDepth = 8192
	DefaultFramDepth = 8192
)

// Maximum memory depths in words of the conversion modes.
const (
	MaxFlatDepth = 0x10000   // the address field of the written records is 16 bit
	MaxFramDepth = 0x1000000 // 64 MiB of simulation memory
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // input .hex file
	Output string // output file, stdout if empty
	Batch  string // batch process files matching pattern
}

// Flags contains behavior options.
type Flags struct {
	Mode       string // conversion mode, flat or fram
	Addressing string // input addressing: byte, word or auto
	Strict     bool   // reject records with checksum mismatches
	Verify     bool   // verify the written output
	Debug      bool
	Quiet      bool
}

// Program options of the converter.
type Program struct {
	Parameters
	Flags

	Conversion Conversion
}

// Conversion contains the memory layout parameters of a conversion run.
type Conversion struct {
	Shift uint32 // byte address that maps to word 0
	Depth uint32 // capacity in words

	Addressing memory.Addressing
	Strict     bool
}

// Capacity returns the memory size in bytes.
func (c Conversion) Capacity() int {
	return int(c.Depth) * memory.BytesPerWord
}

// Validate checks the conversion parameters for the given mode.
func (c Conversion) Validate(mode string) error {
	if c.Depth == 0 {
		return &ConfigurationError{Option: "depth", Value: "0", Err: errDepthZero}
	}

	var maxDepth uint32
	switch mode {
	case ModeFlat:
		maxDepth = MaxFlatDepth
	case ModeFram:
		maxDepth = MaxFramDepth
	default:
		return &ConfigurationError{Option: "mode", Value: mode, Err: errUnsupportedMode}
	}

	if c.Depth > maxDepth {
		return &ConfigurationError{
			Option: "depth",
			Value:  fmt.Sprint(c.Depth),
			Err:    fmt.Errorf("%w: at most %d words", errDepthTooLarge, maxDepth),
		}
	}
	return nil
}
