package ihex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// maxLineLength limits the accepted line length, a record can carry at most
// 255 data bytes which results in 521 characters.
const maxLineLength = 64 * 1024

// Option configures a Scanner.
type Option func(*Scanner)

// WithStrictChecksum enables checksum verification. Records with a checksum
// mismatch are skipped and reported as ChecksumError.
func WithStrictChecksum() Option {
	return func(s *Scanner) {
		s.strict = true
	}
}

// WithErrorHandler sets a handler that gets called for every skipped line.
// The passed error is a *ParseError.
func WithErrorHandler(handler func(err error)) Option {
	return func(s *Scanner) {
		s.handler = handler
	}
}

// Scanner reads records line by line from a reader. Lines that are not
// records are ignored, malformed records are skipped and reported to the
// error handler.
type Scanner struct {
	scanner *bufio.Scanner
	strict  bool
	handler func(err error)

	record  Record
	line    int
	skipped int
	err     error
}

// NewScanner returns a new scanner to read records from r.
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	s := &Scanner{
		scanner: scanner,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan advances to the next record. It returns false when the input is
// exhausted or a read error occurred.
func (s *Scanner) Scan() bool {
	for s.scanner.Scan() {
		s.line++

		rec, ok, err := Parse(s.scanner.Text())
		if err != nil {
			s.skip(err)
			continue
		}
		if !ok {
			continue
		}

		if s.strict && !rec.Valid() {
			expected := Checksum(rec.ByteCount, rec.Address, rec.Type, rec.Data)
			s.skip(newParseError(ChecksumError,
				fmt.Errorf("checksum %02X does not match expected %02X", rec.Checksum, expected)))
			continue
		}

		s.record = rec
		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("reading line %d: %w", s.line+1, err)
	}
	return false
}

// Record returns the most recent record read by Scan.
func (s *Scanner) Record() Record {
	return s.record
}

// Line returns the line number of the most recent record read by Scan.
func (s *Scanner) Line() int {
	return s.line
}

// Skipped returns the number of malformed lines that were skipped.
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Err returns the first read error that occurred.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) skip(err error) {
	s.skipped++

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.Line = s.line
	}
	if s.handler != nil {
		s.handler(err)
	}
}
