// Package loader handles input file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/hexmem/internal/options"
)

// StdinName is the input name that reads from standard input.
const StdinName = "-"

// Loader handles loading input files.
type Loader struct {
	stdin io.Reader
}

// New creates a new input loader.
func New() *Loader {
	return &Loader{
		stdin: os.Stdin,
	}
}

// Load reads the complete input file of the options. The input is kept in
// memory as the addressing detection and the verification read it again.
func (l *Loader) Load(opts options.Program) ([]byte, error) {
	if opts.Input == StdinName {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}
	return data, nil
}
