package ihex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a parse error.
type ErrorKind uint8

// Parse error kinds.
const (
	SyntaxError   ErrorKind = iota + 1 // invalid hex digits
	LengthError                        // line too short or too long for its byte count
	ChecksumError                      // checksum mismatch, only reported in strict mode
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case LengthError:
		return "length error"
	case ChecksumError:
		return "checksum error"
	default:
		return "error"
	}
}

var (
	errShortLine    = errors.New("line too short")
	errLengthTrails = errors.New("unexpected characters after checksum")
)

// ParseError describes a malformed record line. The line is skipped by
// the scanner and processing continues.
type ParseError struct {
	Kind ErrorKind
	Line int // line number starting at 1, 0 if unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(kind ErrorKind, err error) *ParseError {
	return &ParseError{Kind: kind, Err: err}
}
