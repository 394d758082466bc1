package memory

import "fmt"

// AlignmentError is returned for data that does not start at or does not
// fill a word boundary. The affected data is skipped.
type AlignmentError struct {
	Address   uint64 // shifted byte address of the record
	Remainder int    // number of trailing bytes that do not fill a word, 0 for misaligned records
}

func (e *AlignmentError) Error() string {
	if e.Remainder > 0 {
		return fmt.Sprintf("%d trailing bytes at address 0x%04X do not fill a word", e.Remainder, e.Address)
	}
	return fmt.Sprintf("non word aligned address 0x%04X", e.Address)
}

// CapacityError is returned for a word write beyond the memory depth.
// The word is dropped.
type CapacityError struct {
	Index uint64
	Depth uint32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("word index %d exceeds memory depth %d", e.Index, e.Depth)
}

// RecordError is returned for records that can not be applied, like an
// extended linear address record without payload or an unsupported type.
type RecordError struct {
	Message string
}

func (e *RecordError) Error() string {
	return e.Message
}
