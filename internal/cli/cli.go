// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/retroenv/hexmem/internal/config"
	"github.com/retroenv/hexmem/internal/detector"
	"github.com/retroenv/hexmem/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
// Invalid numeric values are returned as *options.ConfigurationError.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	var shift, depth string
	readOptionFlags(flags, &opts, &shift, &depth)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if len(args) > 0 && opts.Batch == "" {
		opts.Input = args[0]
	}

	conv, err := parseConversion(opts.Mode, shift, depth)
	if err != nil {
		return opts, err
	}
	opts.Conversion = conv

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: hexmem [options] <input.hex>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to convert, please pass the file to convert as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	opts.Addressing = strings.ToLower(opts.Addressing)

	validModes := []string{options.ModeFlat, options.ModeFram}
	if !slices.Contains(validModes, opts.Mode) {
		return &options.ConfigurationError{
			Option: "mode",
			Value:  opts.Mode,
			Err:    fmt.Errorf("valid options: %s", strings.Join(validModes, ", ")),
		}
	}

	validAddressing := []string{detector.Byte, detector.Word, detector.Auto}
	if !slices.Contains(validAddressing, opts.Addressing) {
		return &options.ConfigurationError{
			Option: "addressing",
			Value:  opts.Addressing,
			Err:    fmt.Errorf("valid options: %s", strings.Join(validAddressing, ", ")),
		}
	}
	return nil
}

// parseConversion parses the numeric conversion parameters. The shift is
// hexadecimal with an optional 0x prefix, the depth is decimal and defaults
// to the depth of the mode.
func parseConversion(mode, shift, depth string) (options.Conversion, error) {
	var conv options.Conversion

	s := strings.TrimPrefix(strings.TrimPrefix(shift, "0x"), "0X")
	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return conv, &options.ConfigurationError{Option: "shift", Value: shift, Err: err}
	}
	conv.Shift = uint32(value)

	if depth == "" {
		conv.Depth, err = config.DefaultDepth(mode)
		if err != nil {
			return conv, &options.ConfigurationError{Option: "mode", Value: mode, Err: err}
		}
	} else {
		value, err = strconv.ParseUint(depth, 10, 32)
		if err != nil {
			return conv, &options.ConfigurationError{Option: "depth", Value: depth, Err: err}
		}
		conv.Depth = uint32(value)
	}

	if err := conv.Validate(mode); err != nil {
		return conv, err
	}
	return conv, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, shift, depth *string) {
	flags.StringVar(&opts.Input, "i", "", "name of the input .hex file, - reads from stdin")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically output file naming, for example *.hex")
	flags.StringVar(&opts.Mode, "mode", options.ModeFlat, "conversion mode: flat for word addressed RAM initialization records, fram for $readmemh byte groups")
	flags.StringVar(&opts.Addressing, "addressing", detector.Byte, "input addressing (byte/word/auto), word reads the output of a previous flat conversion")
	flags.StringVar(shift, "shift", "0", "byte address in hex that maps to word 0, data below it is discarded")
	flags.StringVar(depth, "depth", "", fmt.Sprintf("memory depth in 32 bit words (default %d for flat, %d for fram)",
		options.DefaultFlatDepth, options.DefaultFramDepth))
	flags.BoolVar(&opts.Strict, "strict", false, "skip input records with checksum mismatches")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the written output by reading it back and comparing it to the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
