package ihex

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Field sizes of a record in bytes, after hex decoding.
const (
	headerSize   = 4 // byte count, address high, address low, record type
	checksumSize = 1
	minimumSize  = headerSize + checksumSize
)

// Parse decodes a single record line. Surrounding whitespace is ignored.
// It returns false without an error for empty lines and lines that do not
// start with the start code, these are not records.
// The checksum field is decoded but not verified.
func Parse(line string) (Record, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != StartCode {
		return Record{}, false, nil
	}

	b, err := hex.DecodeString(line[1:])
	if err != nil {
		if errors.Is(err, hex.ErrLength) {
			return Record{}, false, newParseError(LengthError, fmt.Errorf("odd number of hex digits: %w", err))
		}
		return Record{}, false, newParseError(SyntaxError, err)
	}

	if len(b) < minimumSize {
		return Record{}, false, newParseError(LengthError, errShortLine)
	}

	byteCount := b[0]
	expected := minimumSize + int(byteCount)
	switch {
	case len(b) < expected:
		return Record{}, false, newParseError(LengthError,
			fmt.Errorf("%w: byte count %d needs %d bytes, got %d", errShortLine, byteCount, expected, len(b)))
	case len(b) > expected:
		return Record{}, false, newParseError(LengthError,
			fmt.Errorf("%w: %d extra bytes", errLengthTrails, len(b)-expected))
	}

	rec := Record{
		ByteCount: byteCount,
		Address:   uint16(b[1])<<8 | uint16(b[2]),
		Type:      RecordType(b[3]),
		Data:      b[headerSize : headerSize+int(byteCount)],
		Checksum:  b[len(b)-1],
	}
	return rec, true, nil
}
