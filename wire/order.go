package wire

import "encoding/binary"

// order payload byte offsets (relative to the start of the payload area).
const (
	orderOffSymbol        = 0
	orderOffSide          = orderOffSymbol + SymbolLen // 16
	orderOffType          = orderOffSide + 1           // 17
	orderOffTIF           = orderOffType + 1           // 18
	orderOffOrderID       = 20
	orderOffClientOrderID = 28
	orderOffQuantity      = 36
	orderOffPrice         = 40
	orderOffStopPrice     = 48
	// OrderPayloadSize is the number of payload bytes an order view uses.
	OrderPayloadSize = 56
)

// OrderView is the order-specific view over a Record's payload area.
type OrderView struct {
	Symbol      string
	Side        OrderSide
	Type        OrderType
	TIF         TimeInForce
	OrderID     uint64
	ClientOrderID uint64
	Quantity    uint32
	Price       uint64
	StopPrice   uint64
}

// PutOrder writes an OrderView into the record's payload and sets
// MessageType/PayloadSize accordingly.
func (r *Record) PutOrder(o *OrderView) {
	r.MessageType = MessageTypeOrderNew
	p := r.Payload[:]
	PutSymbol(p[orderOffSymbol:], o.Symbol)
	p[orderOffSide] = uint8(o.Side)
	p[orderOffType] = uint8(o.Type)
	p[orderOffTIF] = uint8(o.TIF)
	binary.LittleEndian.PutUint64(p[orderOffOrderID:], o.OrderID)
	binary.LittleEndian.PutUint64(p[orderOffClientOrderID:], o.ClientOrderID)
	binary.LittleEndian.PutUint32(p[orderOffQuantity:], o.Quantity)
	binary.LittleEndian.PutUint64(p[orderOffPrice:], o.Price)
	binary.LittleEndian.PutUint64(p[orderOffStopPrice:], o.StopPrice)
	r.PayloadSize = OrderPayloadSize
}

// Order decodes the record's payload as an OrderView.
func (r *Record) Order() (*OrderView, error) {
	if r.PayloadSize < OrderPayloadSize {
		return nil, errPayloadTooSmall("order", OrderPayloadSize, r.PayloadSize)
	}
	p := r.Payload[:]
	return &OrderView{
		Symbol:        GetSymbol(p[orderOffSymbol:]),
		Side:          OrderSide(p[orderOffSide]),
		Type:          OrderType(p[orderOffType]),
		TIF:           TimeInForce(p[orderOffTIF]),
		OrderID:       binary.LittleEndian.Uint64(p[orderOffOrderID:]),
		ClientOrderID: binary.LittleEndian.Uint64(p[orderOffClientOrderID:]),
		Quantity:      binary.LittleEndian.Uint32(p[orderOffQuantity:]),
		Price:         binary.LittleEndian.Uint64(p[orderOffPrice:]),
		StopPrice:     binary.LittleEndian.Uint64(p[orderOffStopPrice:]),
	}, nil
}
