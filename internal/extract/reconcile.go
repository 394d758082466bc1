package extract

// bytesPerWord matches the 32 bit word size of the target memories.
const bytesPerWord = 4

// Result describes how a byte sequence was fitted to a memory size.
type Result struct {
	Data []byte // exactly Capacity bytes

	Capacity   int // target size in bytes
	InputBytes int // size of the sequence before fitting

	InputWords     int // complete words of the input, set when padding
	ExtendedWords  int // zero words appended
	DiscardedWords int // words cut off the end

	TrailingZeroBytes int // zero bytes at the end of Data
	UsedWords         int // words up to and including the last non zero byte
}

// Padded returns whether zero bytes were appended.
func (r Result) Padded() bool {
	return r.InputBytes < r.Capacity
}

// Truncated returns whether bytes were discarded.
func (r Result) Truncated() bool {
	return r.InputBytes > r.Capacity
}

// UsedBytes returns the number of bytes up to the last non zero byte.
func (r Result) UsedBytes() int {
	return r.Capacity - r.TrailingZeroBytes
}

// Reconcile fits data to capacity bytes. Shorter data is padded with zero
// bytes, longer data is truncated to its first capacity bytes.
// The input slice is not modified.
func Reconcile(data []byte, capacity int) Result {
	res := Result{
		Data:       make([]byte, capacity),
		Capacity:   capacity,
		InputBytes: len(data),
	}
	copy(res.Data, data)

	switch {
	case len(data) < capacity:
		res.InputWords = len(data) / bytesPerWord
		res.ExtendedWords = (capacity - len(data)) / bytesPerWord
	case len(data) > capacity:
		res.DiscardedWords = (len(data) - capacity) / bytesPerWord
	}

	res.TrailingZeroBytes = countTrailingZeros(res.Data)
	// rounded up, a word with only some non zero bytes is still in use
	res.UsedWords = (res.UsedBytes() + bytesPerWord - 1) / bytesPerWord
	return res
}

func countTrailingZeros(data []byte) int {
	count := 0
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] != 0 {
			break
		}
		count++
	}
	return count
}
