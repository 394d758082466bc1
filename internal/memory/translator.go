package memory

import (
	"encoding/binary"
	"fmt"

	"github.com/retroenv/hexmem/internal/ihex"
)

// Addressing defines how the address field and payload of data records
// are interpreted.
type Addressing int

const (
	// ByteAddressing interprets addresses as byte addresses and combines
	// the payload bytes of a word in little endian order, as written by objcopy.
	ByteAddressing Addressing = iota
	// WordAddressing interprets addresses as word indexes and combines the
	// payload bytes of a word most significant byte first, as written by
	// the addressed output writer.
	WordAddressing
)

func (a Addressing) String() string {
	switch a {
	case ByteAddressing:
		return "byte"
	case WordAddressing:
		return "word"
	default:
		return fmt.Sprintf("addressing(%d)", int(a))
	}
}

// Stats contains counters of the records processed by a translator.
type Stats struct {
	DataRecords  int // data records processed
	Reserved     int // data records below the shift address
	Misaligned   int // data records skipped due to alignment
	WordsWritten int
	WordsDropped int // words beyond the memory depth
	BytesDropped int // trailing bytes that did not fill a word
	Ignored      int // records of unsupported types
}

// Translator applies records to an image. It tracks the extended linear
// address and translates absolute record addresses into word indexes of
// the image, rebased by the shift amount.
type Translator struct {
	image      *Image
	shift      uint32
	addressing Addressing

	extendedBase uint32 // upper address bits set by the last extended linear address record
	done         bool
	stats        Stats
}

// NewTranslator returns a translator writing to the given image.
// The shift is a byte address that maps to word 0 of the image, data below it
// belongs to the reserved peripheral region and is discarded.
func NewTranslator(image *Image, shift uint32, addressing Addressing) *Translator {
	return &Translator{
		image:      image,
		shift:      shift,
		addressing: addressing,
	}
}

// Apply processes a single record and returns all recoverable errors that
// occurred, the affected data is dropped. Records after an end of file
// record are ignored.
func (t *Translator) Apply(rec ihex.Record) []error {
	if t.done {
		return nil
	}

	switch rec.Type {
	case ihex.Data:
		return t.applyData(rec)

	case ihex.ExtendedLinearAddress:
		if len(rec.Data) == 0 {
			return []error{&RecordError{Message: "extended linear address record without payload"}}
		}
		var base uint32
		for _, b := range rec.Data {
			base = base<<8 | uint32(b)
		}
		t.extendedBase = base
		return nil

	case ihex.EndOfFile:
		t.done = true
		return nil

	default:
		t.stats.Ignored++
		return []error{&RecordError{Message: fmt.Sprintf("unsupported record %s ignored", rec.Type)}}
	}
}

// Done returns whether an end of file record has been processed.
func (t *Translator) Done() bool {
	return t.done
}

// ExtendedBase returns the current extended linear address.
func (t *Translator) ExtendedBase() uint32 {
	return t.extendedBase
}

// Stats returns the record counters.
func (t *Translator) Stats() Stats {
	return t.stats
}

// Absolute returns the absolute byte address of a record address field,
// based on the current extended linear address.
func (t *Translator) Absolute(address uint16) uint64 {
	absolute := uint64(t.extendedBase)<<16 + uint64(address)
	if t.addressing == WordAddressing {
		absolute *= BytesPerWord
	}
	return absolute
}

func (t *Translator) applyData(rec ihex.Record) []error {
	t.stats.DataRecords++

	absolute := t.Absolute(rec.Address)
	if absolute < uint64(t.shift) {
		t.stats.Reserved++
		return nil
	}

	shifted := absolute - uint64(t.shift)
	if shifted%BytesPerWord != 0 {
		t.stats.Misaligned++
		return []error{&AlignmentError{Address: shifted}}
	}

	var errs []error
	wordIndex := shifted / BytesPerWord
	numWords := len(rec.Data) / BytesPerWord
	depth := uint64(t.image.Depth())

	for w := range numWords {
		index := wordIndex + uint64(w)
		if index >= depth {
			t.stats.WordsDropped++
			errs = append(errs, &CapacityError{Index: index, Depth: t.image.Depth()})
			continue
		}

		value := t.combine(rec.Data[w*BytesPerWord : (w+1)*BytesPerWord])
		if err := t.image.WriteWord(uint32(index), value); err != nil {
			t.stats.WordsDropped++
			errs = append(errs, err)
			continue
		}
		t.stats.WordsWritten++
	}

	if remainder := len(rec.Data) % BytesPerWord; remainder != 0 {
		t.stats.BytesDropped += remainder
		errs = append(errs, &AlignmentError{
			Address:   shifted + uint64(numWords*BytesPerWord),
			Remainder: remainder,
		})
	}
	return errs
}

func (t *Translator) combine(b []byte) uint32 {
	if t.addressing == WordAddressing {
		return binary.BigEndian.Uint32(b)
	}
	return binary.LittleEndian.Uint32(b)
}
