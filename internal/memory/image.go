// Package memory reconstructs word addressed memory images from records.
package memory

import (
	"github.com/retroenv/retrogolib/set"
)

// BytesPerWord is the size of a memory word, all target memories are
// 32 bit word addressed.
const BytesPerWord = 4

// Image is a fixed size, zero initialized word memory.
type Image struct {
	words       []uint32
	written     set.Set[uint32]
	used        int
	overwritten int
}

// New returns a new zero filled image with depth words.
func New(depth uint32) *Image {
	return &Image{
		words:   make([]uint32, depth),
		written: set.New[uint32](),
	}
}

// WriteWord writes a word at the given index. An index beyond the depth
// returns a *CapacityError and the image stays unchanged.
func (m *Image) WriteWord(index, value uint32) error {
	if index >= uint32(len(m.words)) {
		return &CapacityError{Index: uint64(index), Depth: uint32(len(m.words))}
	}

	if m.written.Contains(index) {
		m.overwritten++
	} else {
		m.written.Add(index)
		m.used++
	}
	m.words[index] = value
	return nil
}

// Word returns the word at the given index, 0 for indexes beyond the depth.
func (m *Image) Word(index uint32) uint32 {
	if index >= uint32(len(m.words)) {
		return 0
	}
	return m.words[index]
}

// Words returns a copy of all words in address order.
func (m *Image) Words() []uint32 {
	words := make([]uint32, len(m.words))
	copy(words, m.words)
	return words
}

// Depth returns the capacity in words.
func (m *Image) Depth() uint32 {
	return uint32(len(m.words))
}

// Used returns the number of distinct words that have been written.
func (m *Image) Used() int {
	return m.used
}

// Overwritten returns the number of writes to words that were written before.
func (m *Image) Overwritten() int {
	return m.overwritten
}
