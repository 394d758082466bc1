package detector

import (
	"testing"

	"github.com/retroenv/hexmem/internal/memory"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	wordAddressed := ":04000000FF81011368\n:04000100130181FF67\n:00000001FF\n"
	byteAddressed := ":0800000013010000130181FF50\n:00000001FF\n"
	byteWords := ":04000000FF81011368\n:04000400130181FF64\n:00000001FF\n"

	tests := []struct {
		name           string
		option         string
		input          string
		wantAddressing memory.Addressing
	}{
		{
			name:           "default option",
			option:         "",
			input:          wordAddressed,
			wantAddressing: memory.ByteAddressing,
		},
		{
			name:           "explicit word option",
			option:         Word,
			input:          byteAddressed,
			wantAddressing: memory.WordAddressing,
		},
		{
			name:           "detect word addressed records",
			option:         Auto,
			input:          wordAddressed,
			wantAddressing: memory.WordAddressing,
		},
		{
			name:           "detect multi word records",
			option:         Auto,
			input:          byteAddressed,
			wantAddressing: memory.ByteAddressing,
		},
		{
			name:           "detect byte addressed word records",
			option:         Auto,
			input:          byteWords,
			wantAddressing: memory.ByteAddressing,
		},
		{
			name:           "single record is ambiguous",
			option:         Auto,
			input:          ":04000000FF81011368\n:00000001FF\n",
			wantAddressing: memory.ByteAddressing,
		},
		{
			name:           "extended address is byte addressed",
			option:         Auto,
			input:          ":020000040000FA\n" + wordAddressed,
			wantAddressing: memory.ByteAddressing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addressing, err := d.Detect(tt.option, []byte(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAddressing, addressing)
		})
	}
}

func TestDetectUnsupportedOption(t *testing.T) {
	d := New(log.NewTestLogger(t))
	_, err := d.Detect("nibble", nil)
	assert.Error(t, err)
}
