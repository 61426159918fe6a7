package wire

import (
	"encoding/binary"
	"fmt"
)

// Header holds the fields common to every record on the wire.
type Header struct {
	MessageID       uint64
	Timestamp       uint64
	SequenceNumber  uint32
	MessageType     MessageType
	Status          Status
	SourceID        uint32
	DestinationID   uint32
	PayloadSize     uint32
}

// Record is a fully decoded wire message: a header plus the raw payload
// bytes (always MaxPayload long, zero-padded past PayloadSize).
type Record struct {
	Header
	Payload [MaxPayload]byte
}

// IsValid reports whether the record satisfies the base structural
// invariants: a payload size that fits within the fixed payload area
// and a recognized message type.
func (r *Record) IsValid() bool {
	return r.PayloadSize <= MaxPayload && r.MessageType.IsKnown()
}

// Encode serializes the record into dst, which must be at least
// RecordSize bytes long. Returns the number of bytes written.
func (r *Record) Encode(dst []byte) (int, error) {
	if len(dst) < RecordSize {
		return 0, fmt.Errorf("wire: encode buffer too small: have %d, need %d", len(dst), RecordSize)
	}
	binary.LittleEndian.PutUint64(dst[offMessageID:], r.MessageID)
	binary.LittleEndian.PutUint64(dst[offTimestamp:], r.Timestamp)
	binary.LittleEndian.PutUint32(dst[offSequenceNumber:], r.SequenceNumber)
	dst[offMessageType] = uint8(r.MessageType)
	dst[offStatus] = uint8(r.Status)
	binary.LittleEndian.PutUint32(dst[offSourceID:], r.SourceID)
	binary.LittleEndian.PutUint32(dst[offDestinationID:], r.DestinationID)
	binary.LittleEndian.PutUint32(dst[offPayloadSize:], r.PayloadSize)
	copy(dst[offPayload:offPayload+MaxPayload], r.Payload[:])
	return RecordSize, nil
}

// Decode parses a record out of src, which must be at least RecordSize
// bytes long. It performs no allocation beyond the returned Record.
func Decode(src []byte) (*Record, error) {
	if len(src) < RecordSize {
		return nil, fmt.Errorf("wire: decode buffer too small: have %d, need %d", len(src), RecordSize)
	}
	r := &Record{}
	r.MessageID = binary.LittleEndian.Uint64(src[offMessageID:])
	r.Timestamp = binary.LittleEndian.Uint64(src[offTimestamp:])
	r.SequenceNumber = binary.LittleEndian.Uint32(src[offSequenceNumber:])
	r.MessageType = MessageType(src[offMessageType])
	r.Status = Status(src[offStatus])
	r.SourceID = binary.LittleEndian.Uint32(src[offSourceID:])
	r.DestinationID = binary.LittleEndian.Uint32(src[offDestinationID:])
	r.PayloadSize = binary.LittleEndian.Uint32(src[offPayloadSize:])
	if r.PayloadSize > MaxPayload {
		return nil, fmt.Errorf("wire: payload_size %d exceeds max %d", r.PayloadSize, MaxPayload)
	}
	copy(r.Payload[:], src[offPayload:offPayload+MaxPayload])
	return r, nil
}

// PutSymbol writes a trading symbol into dst (SymbolLen bytes, zero
// padded), truncating symbols longer than SymbolLen.
func PutSymbol(dst []byte, symbol string) {
	n := copy(dst[:SymbolLen], symbol)
	for i := n; i < SymbolLen; i++ {
		dst[i] = 0
	}
}

// GetSymbol reads a NUL-padded fixed-width symbol field back into a string.
func GetSymbol(src []byte) string {
	n := 0
	for n < SymbolLen && src[n] != 0 {
		n++
	}
	return string(src[:n])
}
