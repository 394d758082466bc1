// Package writer implements the output formats of converted memory images.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/hexmem/internal/ihex"
)

// bytesPerLine is the number of byte tokens per line of the grouped format,
// one 32 bit word per line.
const bytesPerLine = 4

// maxWordAddress is the highest word index that fits into the 16 bit
// address field of a record.
const maxWordAddress = 0xFFFF

// WriteAddressed writes one data record per word, addressed by the word
// index and with the most significant byte first, followed by an end of
// file record.
func WriteAddressed(w io.Writer, words []uint32) error {
	if len(words) > maxWordAddress+1 {
		return fmt.Errorf("%d words exceed the record address range of %d words", len(words), maxWordAddress+1)
	}

	buf := bufio.NewWriter(w)
	data := make([]byte, 4)

	for i, word := range words {
		data[0] = byte(word >> 24)
		data[1] = byte(word >> 16)
		data[2] = byte(word >> 8)
		data[3] = byte(word)

		rec := ihex.NewRecord(uint16(i), ihex.Data, data)
		if _, err := fmt.Fprintln(buf, rec.String()); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	if _, err := fmt.Fprintln(buf, ihex.EndOfFileLine); err != nil {
		return fmt.Errorf("writing end of file record: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// WriteGrouped writes the bytes in stream order as space separated hex
// tokens, four per line. A final incomplete group is written with the
// remaining tokens.
func WriteGrouped(w io.Writer, data []byte) error {
	buf := bufio.NewWriter(w)
	line := &strings.Builder{}

	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, bytesPerLine)

		line.Reset()
		for j := range toWrite {
			if j > 0 {
				line.WriteByte(' ')
			}
			fmt.Fprintf(line, "%02X", data[i+j])
		}

		if _, err := fmt.Fprintln(buf, line.String()); err != nil {
			return fmt.Errorf("writing line %d: %w", i/bytesPerLine+1, err)
		}

		i += toWrite
		remaining -= toWrite
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
