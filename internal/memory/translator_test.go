package memory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/hexmem/internal/ihex"
	"github.com/retroenv/retrogolib/assert"
)

func mustParse(t *testing.T, line string) ihex.Record {
	t.Helper()
	rec, ok, err := ihex.Parse(line)
	assert.NoError(t, err)
	assert.True(t, ok)
	return rec
}

func TestTranslatorByteAddressing(t *testing.T) {
	image := New(4)
	tr := NewTranslator(image, 0, ByteAddressing)

	errs := tr.Apply(mustParse(t, ":04000400FF81011364"))
	assert.Empty(t, errs)

	// bytes FF 81 01 13 at byte address 4 combine little endian into word 1
	assert.Equal(t, uint32(0x130181FF), image.Word(1))
	assert.Equal(t, uint32(0), image.Word(0))
	assert.Equal(t, 1, tr.Stats().WordsWritten)
}

func TestTranslatorMultipleWords(t *testing.T) {
	image := New(4)
	tr := NewTranslator(image, 0, ByteAddressing)

	rec := ihex.NewRecord(0x0000, ihex.Data, []byte{
		0x13, 0x01, 0x81, 0xFF,
		0x23, 0x26, 0x11, 0x00,
		0x6F, 0x00, 0x00, 0x00,
	})
	assert.Empty(t, tr.Apply(rec))

	want := []uint32{0xFF810113, 0x00112623, 0x0000006F, 0}
	if diff := cmp.Diff(want, image.Words()); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslatorShift(t *testing.T) {
	image := New(4)
	tr := NewTranslator(image, 0x4000, ByteAddressing)

	// below the shift, reserved peripheral region
	assert.Empty(t, tr.Apply(ihex.NewRecord(0x3FFC, ihex.Data, []byte{1, 2, 3, 4})))
	// shifted to byte address 8
	assert.Empty(t, tr.Apply(ihex.NewRecord(0x4008, ihex.Data, []byte{0x13, 0x01, 0x81, 0xFF})))

	assert.Equal(t, []uint32{0, 0, 0xFF810113, 0}, image.Words())
	stats := tr.Stats()
	assert.Equal(t, 2, stats.DataRecords)
	assert.Equal(t, 1, stats.Reserved)
	assert.Equal(t, 1, image.Used())
}

func TestTranslatorExtendedLinearAddress(t *testing.T) {
	image := New(8)
	tr := NewTranslator(image, 0x10000, ByteAddressing)

	assert.Empty(t, tr.Apply(mustParse(t, ":020000040001F9")))
	assert.Equal(t, uint32(1), tr.ExtendedBase())
	assert.Equal(t, uint64(0x10010), tr.Absolute(0x0010))

	assert.Empty(t, tr.Apply(ihex.NewRecord(0x0010, ihex.Data, []byte{0xEF, 0xBE, 0xAD, 0xDE})))
	assert.Equal(t, uint32(0xDEADBEEF), image.Word(4))

	// the base is replaced, not merged
	assert.Empty(t, tr.Apply(ihex.NewRecord(0, ihex.ExtendedLinearAddress, []byte{0x00, 0x00})))
	assert.Equal(t, uint32(0), tr.ExtendedBase())
	assert.Empty(t, tr.Apply(ihex.NewRecord(0x0010, ihex.Data, []byte{1, 2, 3, 4})))
	assert.Equal(t, 1, tr.Stats().Reserved)
}

func TestTranslatorRecoverableErrors(t *testing.T) {
	t.Run("misaligned record is skipped", func(t *testing.T) {
		image := New(4)
		tr := NewTranslator(image, 0, ByteAddressing)

		errs := tr.Apply(ihex.NewRecord(0x0002, ihex.Data, []byte{1, 2, 3, 4}))
		assert.Len(t, errs, 1)

		var alignErr *AlignmentError
		assert.True(t, errors.As(errs[0], &alignErr))
		assert.Equal(t, uint64(2), alignErr.Address)
		assert.Equal(t, 0, image.Used())
	})

	t.Run("words beyond depth are dropped individually", func(t *testing.T) {
		image := New(2)
		tr := NewTranslator(image, 0, ByteAddressing)

		errs := tr.Apply(ihex.NewRecord(0x0004, ihex.Data, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}))
		assert.Len(t, errs, 2)
		for _, err := range errs {
			var capErr *CapacityError
			assert.True(t, errors.As(err, &capErr))
		}
		assert.Equal(t, []uint32{0, 1}, image.Words())
		assert.Equal(t, 2, tr.Stats().WordsDropped)
	})

	t.Run("trailing bytes are reported", func(t *testing.T) {
		image := New(2)
		tr := NewTranslator(image, 0, ByteAddressing)

		errs := tr.Apply(ihex.NewRecord(0x0000, ihex.Data, []byte{1, 0, 0, 0, 0xAA, 0xBB}))
		assert.Len(t, errs, 1)

		var alignErr *AlignmentError
		assert.True(t, errors.As(errs[0], &alignErr))
		assert.Equal(t, 2, alignErr.Remainder)
		assert.Equal(t, uint64(4), alignErr.Address)
		assert.Equal(t, []uint32{1, 0}, image.Words())
	})

	t.Run("extended address without payload", func(t *testing.T) {
		tr := NewTranslator(New(1), 0, ByteAddressing)
		errs := tr.Apply(ihex.NewRecord(0, ihex.ExtendedLinearAddress, nil))
		assert.Len(t, errs, 1)
	})

	t.Run("unsupported record type", func(t *testing.T) {
		tr := NewTranslator(New(1), 0, ByteAddressing)
		errs := tr.Apply(ihex.NewRecord(0, ihex.RecordType(0x05), []byte{0, 0, 0, 0}))
		assert.Len(t, errs, 1)
		assert.Equal(t, 1, tr.Stats().Ignored)
	})
}

func TestTranslatorStopsAtEndOfFile(t *testing.T) {
	image := New(2)
	tr := NewTranslator(image, 0, ByteAddressing)

	assert.Empty(t, tr.Apply(mustParse(t, ihex.EndOfFileLine)))
	assert.True(t, tr.Done())
	assert.Empty(t, tr.Apply(ihex.NewRecord(0, ihex.Data, []byte{1, 2, 3, 4})))
	assert.Equal(t, 0, image.Used())
}

func TestTranslatorWordAddressing(t *testing.T) {
	image := New(4)
	tr := NewTranslator(image, 0, WordAddressing)

	assert.Empty(t, tr.Apply(mustParse(t, ":04000100130181FF67")))
	assert.Equal(t, uint32(0x130181FF), image.Word(1))
	assert.Equal(t, uint64(4), tr.Absolute(1))
}
