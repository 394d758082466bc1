package ihex

// Checksum calculates the checksum of a record: the two's complement of the
// low byte of the sum of all record bytes between start code and checksum.
// Adding the checksum to that sum results in 0 in the low byte.
func Checksum(byteCount uint8, address uint16, typ RecordType, data []byte) uint8 {
	sum := uint(byteCount)
	sum += uint(address>>8) & 0xFF
	sum += uint(address) & 0xFF
	sum += uint(typ)
	for _, b := range data {
		sum += uint(b)
	}
	return uint8((0x100 - (sum & 0xFF)) & 0xFF)
}
