package wire

import (
	"encoding/binary"
	"fmt"
)

const (
	fillOffOrderID        = 0
	fillOffFillID         = fillOffOrderID + 8   // 8
	fillOffFillQuantity   = fillOffFillID + 8    // 16
	fillOffFillPrice      = fillOffFillQuantity + 4 // 20
	fillOffCommission     = fillOffFillPrice + 8 // 28
	fillOffExecutionVenue = fillOffCommission + 8 // 36
	// FillPayloadSize is the number of payload bytes a fill view uses.
	FillPayloadSize = fillOffExecutionVenue + VenueLen // 52
)

// FillView is the fill-specific view over a Record's payload area.
type FillView struct {
	OrderID        uint64
	FillID         uint64
	FillQuantity   uint32
	FillPrice      uint64
	Commission     uint64
	ExecutionVenue string
}

// PutFill writes a FillView into the record's payload and sets
// MessageType/PayloadSize accordingly.
func (r *Record) PutFill(f *FillView) {
	r.MessageType = MessageTypeOrderFill
	p := r.Payload[:]
	binary.LittleEndian.PutUint64(p[fillOffOrderID:], f.OrderID)
	binary.LittleEndian.PutUint64(p[fillOffFillID:], f.FillID)
	binary.LittleEndian.PutUint32(p[fillOffFillQuantity:], f.FillQuantity)
	binary.LittleEndian.PutUint64(p[fillOffFillPrice:], f.FillPrice)
	binary.LittleEndian.PutUint64(p[fillOffCommission:], f.Commission)
	PutSymbol(p[fillOffExecutionVenue:], f.ExecutionVenue)
	r.PayloadSize = FillPayloadSize
}

// Fill decodes the record's payload as a FillView.
func (r *Record) Fill() (*FillView, error) {
	if r.PayloadSize < FillPayloadSize {
		return nil, errPayloadTooSmall("fill", FillPayloadSize, r.PayloadSize)
	}
	p := r.Payload[:]
	return &FillView{
		OrderID:        binary.LittleEndian.Uint64(p[fillOffOrderID:]),
		FillID:         binary.LittleEndian.Uint64(p[fillOffFillID:]),
		FillQuantity:   binary.LittleEndian.Uint32(p[fillOffFillQuantity:]),
		FillPrice:      binary.LittleEndian.Uint64(p[fillOffFillPrice:]),
		Commission:     binary.LittleEndian.Uint64(p[fillOffCommission:]),
		ExecutionVenue: GetSymbol(p[fillOffExecutionVenue:]),
	}, nil
}

func errPayloadTooSmall(kind string, want, have uint32) error {
	return fmt.Errorf("wire: %s payload too small: have %d, need %d", kind, have, want)
}
