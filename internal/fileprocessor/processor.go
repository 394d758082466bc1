// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/hexmem/internal/config"
	"github.com/retroenv/hexmem/internal/options"
	"github.com/retroenv/hexmem/internal/pipeline"
	"github.com/retroenv/hexmem/internal/verification"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	pipe := pipeline.New(logger)
	result, err := pipe.Execute(ctx, opts, writer)

	if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
		if closeErr := closer.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output file %s: %w", opts.Output, closeErr)
		}
	}
	if err != nil {
		return fmt.Errorf("converting: %w", err)
	}

	if opts.Output != "" && !opts.Quiet {
		logger.Info("Output file written", log.String("file", opts.Output))
	}

	if opts.Verify {
		if err := verification.VerifyOutput(ctx, logger, opts, result); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file,
// for example wgr.hex results in wgr_flat.hex for the flat mode.
func GenerateOutputFilename(inputFile, mode string) string {
	ext := filepath.Ext(inputFile)
	base := inputFile[:len(inputFile)-len(ext)]

	// converting the output of a flat run to fram should not result in wgr_flat_fram.hex
	for _, m := range []string{options.ModeFlat, options.ModeFram} {
		base = strings.TrimSuffix(base, "_"+m)
	}
	return base + config.OutputSuffix(mode)
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("hexmem - Intel HEX to memory image converter",
		log.String("version", buildinfo.Version(version, commit, date)))
}
