// Package extract assembles the payload of data records into a flat byte
// sequence and fits it to a fixed memory size.
package extract

import (
	"github.com/retroenv/hexmem/internal/ihex"
)

// Extractor concatenates the payload bytes of all data records in stream
// order, independent of their addresses, until an end of file record.
type Extractor struct {
	data    []byte
	records int
	done    bool
}

// New returns a new extractor.
func New() *Extractor {
	return &Extractor{}
}

// Add processes a record and returns whether more records are accepted.
// Records other than data and end of file records are ignored.
func (e *Extractor) Add(rec ihex.Record) bool {
	if e.done {
		return false
	}

	switch rec.Type {
	case ihex.Data:
		e.data = append(e.data, rec.Data...)
		e.records++
	case ihex.EndOfFile:
		e.done = true
	}
	return !e.done
}

// Bytes returns the accumulated bytes.
func (e *Extractor) Bytes() []byte {
	return e.data
}

// Records returns the number of data records that were accumulated.
func (e *Extractor) Records() int {
	return e.records
}

// Done returns whether an end of file record has been processed.
func (e *Extractor) Done() bool {
	return e.done
}
