// Package detector handles input addressing detection.
package detector

import (
	"bytes"
	"fmt"

	"github.com/retroenv/hexmem/internal/ihex"
	"github.com/retroenv/hexmem/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// Addressing option values.
const (
	Auto = "auto"
	Byte = "byte"
	Word = "word"
)

// Detector handles addressing detection of input files.
type Detector struct {
	logger *log.Logger
}

// New creates a new addressing detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the addressing of the input from the option value or,
// for the auto option, from the input records.
func (d *Detector) Detect(option string, input []byte) (memory.Addressing, error) {
	switch option {
	case "", Byte:
		return memory.ByteAddressing, nil
	case Word:
		return memory.WordAddressing, nil
	case Auto:
		addressing := d.detectFromRecords(input)
		d.logger.Debug("Auto-detected addressing",
			log.String("addressing", addressing.String()))
		return addressing, nil
	default:
		return 0, fmt.Errorf("unsupported addressing '%s'", option)
	}
}

// detectFromRecords detects word addressed input as written by the addressed
// output writer: only 4 byte data records with consecutive addresses
// starting at 0 and no extended linear address records.
// Everything else is treated as byte addressed.
func (d *Detector) detectFromRecords(input []byte) memory.Addressing {
	s := ihex.NewScanner(bytes.NewReader(input))

	var records int
	for s.Scan() {
		rec := s.Record()

		switch rec.Type {
		case ihex.Data:
			if rec.ByteCount != memory.BytesPerWord || int(rec.Address) != records {
				return memory.ByteAddressing
			}
			records++

		case ihex.EndOfFile:
			return d.wordAddressedIf(records > 1)

		default:
			return memory.ByteAddressing
		}
	}
	return d.wordAddressedIf(records > 1)
}

func (d *Detector) wordAddressedIf(condition bool) memory.Addressing {
	if condition {
		return memory.WordAddressing
	}
	return memory.ByteAddressing
}
