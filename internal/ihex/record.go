// Package ihex implements decoding and encoding of Intel HEX records.
package ihex

import (
	"fmt"
	"strings"
)

// RecordType is the type field of a record.
type RecordType uint8

// Record types that are processed by the converters. Other record types
// are decoded but ignored by the consumers.
const (
	Data                  RecordType = 0x00
	EndOfFile             RecordType = 0x01
	ExtendedLinearAddress RecordType = 0x04
)

// EndOfFileLine is the fixed end of file record that terminates written files.
const EndOfFileLine = ":00000001FF"

// StartCode is the marker that every record line starts with.
const StartCode = ':'

func (t RecordType) String() string {
	switch t {
	case Data:
		return "data"
	case EndOfFile:
		return "end of file"
	case ExtendedLinearAddress:
		return "extended linear address"
	default:
		return fmt.Sprintf("type %02X", uint8(t))
	}
}

// Record is a single decoded record line.
type Record struct {
	ByteCount uint8
	Address   uint16
	Type      RecordType
	Data      []byte // len(Data) == ByteCount
	Checksum  uint8  // as read from the input, not verified on decode
}

// NewRecord returns a record for the given fields with a computed checksum.
func NewRecord(address uint16, typ RecordType, data []byte) Record {
	return Record{
		ByteCount: uint8(len(data)),
		Address:   address,
		Type:      typ,
		Data:      data,
		Checksum:  Checksum(uint8(len(data)), address, typ, data),
	}
}

// Valid returns whether the checksum field of the record matches its content.
func (r Record) Valid() bool {
	return Checksum(r.ByteCount, r.Address, r.Type, r.Data) == r.Checksum
}

// String returns the record line in upper case hex including the start code.
// The checksum is always computed from the record content.
func (r Record) String() string {
	buf := &strings.Builder{}
	buf.Grow(11 + 2*len(r.Data))
	buf.WriteByte(StartCode)
	fmt.Fprintf(buf, "%02X%04X%02X", r.ByteCount, r.Address, uint8(r.Type))
	for _, b := range r.Data {
		fmt.Fprintf(buf, "%02X", b)
	}
	fmt.Fprintf(buf, "%02X", Checksum(r.ByteCount, r.Address, r.Type, r.Data))
	return buf.String()
}
