package ihex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Record
		wantOK bool
	}{
		{
			name: "data record",
			line: ":04000400FF81011364",
			want: Record{
				ByteCount: 4,
				Address:   0x0004,
				Type:      Data,
				Data:      []byte{0xFF, 0x81, 0x01, 0x13},
				Checksum:  0x64,
			},
			wantOK: true,
		},
		{
			name:   "end of file record",
			line:   ":00000001FF",
			want:   Record{Type: EndOfFile, Data: []byte{}, Checksum: 0xFF},
			wantOK: true,
		},
		{
			name: "extended linear address with surrounding whitespace",
			line: "  :020000040001F9\r\n",
			want: Record{
				ByteCount: 2,
				Type:      ExtendedLinearAddress,
				Data:      []byte{0x00, 0x01},
				Checksum:  0xF9,
			},
			wantOK: true,
		},
		{
			name: "lower case digits",
			line: ":0200100012ab31",
			want: Record{
				ByteCount: 2,
				Address:   0x0010,
				Type:      Data,
				Data:      []byte{0x12, 0xAB},
				Checksum:  0x31,
			},
			wantOK: true,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
		{
			name:   "no start code",
			line:   "04000400FF81011364",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Parse(tt.line)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind ErrorKind
	}{
		{name: "invalid hex digit", line: ":0400040QFF81011364", kind: SyntaxError},
		{name: "odd digit count", line: ":0000001FF", kind: LengthError},
		{name: "too short for header", line: ":000000", kind: LengthError},
		{name: "data shorter than byte count", line: ":04000400FF8164", kind: LengthError},
		{name: "trailing bytes", line: ":00000001FFAA", kind: LengthError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Parse(tt.line)
			assert.False(t, ok)
			assert.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.kind, parseErr.Kind)
		})
	}
}

func TestParseDoesNotVerifyChecksum(t *testing.T) {
	rec, ok, err := Parse(":04000400FF810113FF")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, rec.Valid())
	assert.Equal(t, uint8(0x64), Checksum(rec.ByteCount, rec.Address, rec.Type, rec.Data))
}
