// Package verification verifies that the generated output file recreates the input.
package verification

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/retroenv/hexmem/internal/ihex"
	"github.com/retroenv/hexmem/internal/memory"
	"github.com/retroenv/hexmem/internal/options"
	"github.com/retroenv/hexmem/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
)

// maxReportedMismatches limits the number of logged mismatches.
const maxReportedMismatches = 10

// VerifyOutput verifies that the output file contains the converted data.
// For byte addressed flat conversions the image is additionally compared to
// a reference memory decoded from the input by an independent decoder.
func VerifyOutput(ctx context.Context, logger *log.Logger, opts options.Program, result *pipeline.Result) error {
	if opts.Output == "" {
		return errors.New("can not verify console output")
	}

	output, err := os.ReadFile(opts.Output)
	if err != nil {
		return fmt.Errorf("reading output file for comparison: %w", err)
	}

	switch result.Mode {
	case options.ModeFlat:
		return verifyFlat(ctx, logger, output, result)
	case options.ModeFram:
		return verifyFram(logger, output, result)
	default:
		return fmt.Errorf("unsupported mode '%s'", result.Mode)
	}
}

func verifyFlat(ctx context.Context, logger *log.Logger, output []byte, result *pipeline.Result) error {
	expected := result.Image.Words()

	written, err := readAddressed(output, result.Image.Depth())
	if err != nil {
		return err
	}
	if err := checkWordsEqual(logger, expected, written); err != nil {
		return fmt.Errorf("output mismatch: %w", err)
	}

	if result.Conversion.Addressing != memory.ByteAddressing {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("verifying against input: %w", err)
	}

	reference, err := referenceWords(result.Input, result.Conversion)
	if err != nil {
		return err
	}
	if err := checkWordsEqual(logger, reference, expected); err != nil {
		return fmt.Errorf("image does not match input memory: %w", err)
	}
	return nil
}

// readAddressed reads a word addressed output file back into words.
func readAddressed(output []byte, depth uint32) ([]uint32, error) {
	var recordErrs []error
	s := ihex.NewScanner(bytes.NewReader(output), ihex.WithStrictChecksum(), ihex.WithErrorHandler(func(err error) {
		recordErrs = append(recordErrs, err)
	}))

	image := memory.New(depth)
	translator := memory.NewTranslator(image, 0, memory.WordAddressing)
	for s.Scan() {
		recordErrs = append(recordErrs, translator.Apply(s.Record())...)
		if translator.Done() {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading output records: %w", err)
	}

	if !translator.Done() {
		recordErrs = append(recordErrs, errors.New("missing end of file record"))
	}
	if len(recordErrs) > 0 {
		return nil, fmt.Errorf("invalid output records: %w", errors.Join(recordErrs...))
	}
	return image.Words(), nil
}

// referenceWords decodes the records that the conversion accepted using gohex,
// which validates checksums, the end of file record and overlapping data,
// and returns the words of the shifted memory region.
func referenceWords(input []byte, conv options.Conversion) ([]uint32, error) {
	records, err := acceptedRecords(input, conv.Strict)
	if err != nil {
		return nil, err
	}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(records)); err != nil {
		return nil, fmt.Errorf("decoding input with reference decoder: %w", err)
	}

	data := mem.ToBinary(conv.Shift, uint32(conv.Capacity()), 0)
	words := make([]uint32, conv.Depth)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*memory.BytesPerWord:])
	}
	return words, nil
}

// acceptedRecords re-encodes the records of the input that a conversion
// reads: lines the scanner skips and everything after the first end of file
// record are left out. Extended linear addresses are normalized to the 16 bit
// payload that gohex expects, data records behind a base beyond 16 bit can
// not be part of the image and are left out as well.
func acceptedRecords(input []byte, strict bool) ([]byte, error) {
	var opts []ihex.Option
	if strict {
		opts = append(opts, ihex.WithStrictChecksum())
	}
	s := ihex.NewScanner(bytes.NewReader(input), opts...)

	var buf bytes.Buffer
	var base uint64
	for s.Scan() {
		rec := s.Record()

		switch rec.Type {
		case ihex.Data:
			if base > 0xFFFF {
				continue
			}

		case ihex.ExtendedLinearAddress:
			if len(rec.Data) == 0 {
				continue
			}
			base = 0
			for _, b := range rec.Data {
				base = base<<8 | uint64(b)
			}
			rec = ihex.NewRecord(0, ihex.ExtendedLinearAddress, []byte{byte(base >> 8), byte(base)})

		case ihex.EndOfFile:
			buf.WriteString(ihex.EndOfFileLine + "\n")
			return buf.Bytes(), nil

		default:
			continue
		}

		buf.WriteString(rec.String())
		buf.WriteString("\n")
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading input records: %w", err)
	}

	buf.WriteString(ihex.EndOfFileLine + "\n")
	return buf.Bytes(), nil
}

func verifyFram(logger *log.Logger, output []byte, result *pipeline.Result) error {
	written, err := readGrouped(output)
	if err != nil {
		return err
	}
	if err := checkBufferEqual(logger, result.Reconciled.Data, written); err != nil {
		return fmt.Errorf("output mismatch: %w", err)
	}
	return nil
}

// readGrouped reads the space separated byte tokens of a grouped output file.
func readGrouped(output []byte) ([]byte, error) {
	var data []byte
	scanner := bufio.NewScanner(bytes.NewReader(output))

	line := 0
	for scanner.Scan() {
		line++
		for _, token := range strings.Fields(scanner.Text()) {
			b, err := hex.DecodeString(token)
			if err != nil || len(b) != 1 {
				return nil, fmt.Errorf("invalid byte token '%s' at line %d", token, line)
			}
			data = append(data, b[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading output lines: %w", err)
	}
	return data, nil
}

func checkWordsEqual(logger *log.Logger, expected, got []uint32) error {
	if len(expected) != len(got) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(expected), len(got))
	}

	var diffs uint64
	for i := range expected {
		if expected[i] == got[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Word mismatch",
				log.Int("index", i),
				log.Hex("expected", expected[i]),
				log.Hex("got", got[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d word mismatches", diffs)
}

func checkBufferEqual(logger *log.Logger, expected, got []byte) error {
	if len(expected) != len(got) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(expected), len(got))
	}

	var diffs uint64
	for i := range expected {
		if expected[i] == got[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", expected[i]),
				log.Hex("got", got[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
