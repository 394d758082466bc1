// Package pipeline orchestrates the conversion workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/hexmem/internal/detector"
	"github.com/retroenv/hexmem/internal/extract"
	"github.com/retroenv/hexmem/internal/ihex"
	"github.com/retroenv/hexmem/internal/loader"
	"github.com/retroenv/hexmem/internal/memory"
	"github.com/retroenv/hexmem/internal/options"
	"github.com/retroenv/hexmem/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the outcome of a conversion run.
type Result struct {
	Mode       string
	Input      []byte
	Conversion options.Conversion

	Image *memory.Image // converted image of the flat mode
	Stats memory.Stats

	Reconciled extract.Result // fitted byte sequence of the fram mode
	Records    int            // data records extracted in fram mode

	SkippedLines int
}

// Pipeline orchestrates the complete conversion workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// recordConsumer processes a record read from the given line, returning
// false stops reading the stream.
type recordConsumer func(rec ihex.Record, line int) bool

// New creates a new conversion pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete conversion pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*Result, error) {
	input, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}

	return p.ExecuteWithInput(ctx, input, opts, writer)
}

// ExecuteWithInput runs the conversion pipeline with an input that is already in memory.
// This is useful for testing and programmatic usage.
func (p *Pipeline) ExecuteWithInput(ctx context.Context, input []byte, opts options.Program,
	writer io.Writer) (*Result, error) {

	conv := opts.Conversion
	if err := conv.Validate(opts.Mode); err != nil {
		return nil, err
	}

	addressing, err := p.detector.Detect(opts.Addressing, input)
	if err != nil {
		return nil, fmt.Errorf("detecting addressing: %w", err)
	}
	conv.Addressing = addressing
	conv.Strict = opts.Strict

	p.printInfo(opts, conv)

	result := &Result{
		Mode:       opts.Mode,
		Input:      input,
		Conversion: conv,
	}

	switch opts.Mode {
	case options.ModeFlat:
		err = p.convertFlat(ctx, bytes.NewReader(input), conv, result, writer)
	case options.ModeFram:
		err = p.convertFram(ctx, bytes.NewReader(input), conv, result, writer)
	default:
		err = fmt.Errorf("unsupported mode '%s'", opts.Mode)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// convertFlat reconstructs the memory image from the record addresses and
// writes it as word addressed records.
func (p *Pipeline) convertFlat(ctx context.Context, r io.Reader, conv options.Conversion,
	result *Result, w io.Writer) error {

	image := memory.New(conv.Depth)
	translator := memory.NewTranslator(image, conv.Shift, conv.Addressing)

	consume := func(rec ihex.Record, line int) bool {
		for _, err := range translator.Apply(rec) {
			p.logRecordError(err, rec, line)
		}
		return !translator.Done()
	}

	skipped, err := p.scanRecords(ctx, r, conv, consume)
	if err != nil {
		return err
	}

	result.Image = image
	result.Stats = translator.Stats()
	result.SkippedLines = skipped
	p.printImageSummary(result)

	if err := writer.WriteAddressed(w, image.Words()); err != nil {
		return fmt.Errorf("writing addressed output: %w", err)
	}
	return nil
}

// convertFram concatenates the record payloads in stream order, fits them
// to the memory size and writes them as grouped bytes.
func (p *Pipeline) convertFram(ctx context.Context, r io.Reader, conv options.Conversion,
	result *Result, w io.Writer) error {

	extractor := extract.New()
	consume := func(rec ihex.Record, _ int) bool {
		return extractor.Add(rec)
	}

	skipped, err := p.scanRecords(ctx, r, conv, consume)
	if err != nil {
		return err
	}

	result.Reconciled = extract.Reconcile(extractor.Bytes(), conv.Capacity())
	result.Records = extractor.Records()
	result.SkippedLines = skipped
	p.printReconcileSummary(result.Reconciled)

	if err := writer.WriteGrouped(w, result.Reconciled.Data); err != nil {
		return fmt.Errorf("writing grouped output: %w", err)
	}
	return nil
}

// scanRecords passes all records of the stream to the consumer until it
// stops the stream. Malformed lines are logged and skipped.
func (p *Pipeline) scanRecords(ctx context.Context, r io.Reader, conv options.Conversion,
	consume recordConsumer) (int, error) {

	scanOpts := []ihex.Option{
		ihex.WithErrorHandler(func(err error) {
			p.logger.Warn("Skipping line", log.Err(err))
		}),
	}
	if conv.Strict {
		scanOpts = append(scanOpts, ihex.WithStrictChecksum())
	}

	s := ihex.NewScanner(r, scanOpts...)
	for s.Scan() {
		if err := ctx.Err(); err != nil {
			return s.Skipped(), fmt.Errorf("reading records: %w", err)
		}
		if !consume(s.Record(), s.Line()) {
			break
		}
	}
	if err := s.Err(); err != nil {
		return s.Skipped(), fmt.Errorf("reading records: %w", err)
	}
	return s.Skipped(), nil
}

func (p *Pipeline) logRecordError(err error, rec ihex.Record, line int) {
	var (
		alignErr  *memory.AlignmentError
		capErr    *memory.CapacityError
		recordErr *memory.RecordError
	)

	switch {
	case errors.As(err, &alignErr):
		p.logger.Warn("Skipping non word aligned data",
			log.Hex("address", alignErr.Address),
			log.Int("line", line))

	case errors.As(err, &capErr):
		p.logger.Warn("Instruction exceeds memory",
			log.Int("index", int(capErr.Index)),
			log.Int("depth", int(capErr.Depth)),
			log.Int("line", line))

	case errors.As(err, &recordErr):
		p.logger.Warn("Ignoring record",
			log.String("type", rec.Type.String()),
			log.Int("line", line),
			log.Err(err))

	default:
		p.logger.Warn("Record error", log.Int("line", line), log.Err(err))
	}
}

// printInfo prints information about the conversion being processed.
func (p *Pipeline) printInfo(opts options.Program, conv options.Conversion) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Converting",
		log.String("file", opts.Input),
		log.String("mode", opts.Mode),
		log.Int("bytes", conv.Capacity()),
	)
	p.logger.Debug("Conversion parameters",
		log.Hex("shift", conv.Shift),
		log.Int("depth", int(conv.Depth)),
		log.String("addressing", conv.Addressing.String()),
	)
}

func (p *Pipeline) printImageSummary(result *Result) {
	image := result.Image
	stats := result.Stats

	if stats.Reserved > 0 {
		p.logger.Debug("Discarded records of the reserved region",
			log.Int("records", stats.Reserved),
			log.Hex("shift", result.Conversion.Shift))
	}
	if image.Overwritten() > 0 {
		p.logger.Warn("Words written multiple times", log.Int("words", image.Overwritten()))
	}

	p.logger.Info("Instructions",
		log.Int("used", image.Used()),
		log.Int("total", int(image.Depth())),
		log.Int("used_bytes", image.Used()*memory.BytesPerWord),
		log.Int("total_bytes", int(image.Depth())*memory.BytesPerWord))
}

func (p *Pipeline) printReconcileSummary(res extract.Result) {
	switch {
	case res.Padded():
		p.logger.Info("Extended instructions with zero words",
			log.Int("instructions", res.InputWords),
			log.Int("zero_words", res.ExtendedWords))

	case res.Truncated():
		p.logger.Warn("Instructions not written",
			log.Int("instructions", res.DiscardedWords),
			log.Int("needed_bytes", res.InputBytes),
			log.Int("available_bytes", res.Capacity))
	}

	p.logger.Info("Instructions",
		log.Int("used", res.UsedWords),
		log.Int("total", res.Capacity/memory.BytesPerWord),
		log.Int("used_bytes", res.UsedBytes()),
		log.Int("total_bytes", res.Capacity))
}
