package extract

import (
	"strings"
	"testing"

	"github.com/retroenv/hexmem/internal/ihex"
	"github.com/retroenv/retrogolib/assert"
)

func TestExtractor(t *testing.T) {
	input := `:04400000130181FF28
:020000040001F9
:020000002326B5
:00000001FF
:04000000AAAAAAAA54
`
	e := New()
	s := ihex.NewScanner(strings.NewReader(input))
	for s.Scan() {
		if !e.Add(s.Record()) {
			break
		}
	}
	assert.NoError(t, s.Err())

	assert.True(t, e.Done())
	assert.Equal(t, 2, e.Records())
	assert.Equal(t, []byte{0x13, 0x01, 0x81, 0xFF, 0x23, 0x26}, e.Bytes())
}

func TestExtractorIgnoresRecordsAfterEndOfFile(t *testing.T) {
	e := New()
	assert.True(t, e.Add(ihex.NewRecord(0x8000, ihex.Data, []byte{0xAA})))
	assert.False(t, e.Add(ihex.NewRecord(0, ihex.EndOfFile, nil)))
	assert.False(t, e.Add(ihex.NewRecord(0, ihex.Data, []byte{0xBB})))
	assert.Equal(t, []byte{0xAA}, e.Bytes())
}
