// Package wire implements the fixed-layout binary encoding for trading
// messages exchanged over the gateway's TCP transport.
//
// Every record on the wire is exactly RecordSize bytes: a HeaderSize-byte
// header followed by a MaxPayload-byte payload area. Variant messages
// (order, market data, fill) serialize their extra fields into the start
// of the payload area rather than appending them after the header, so
// every record has one uniform wire size regardless of message type.
package wire

import "fmt"

// MessageType identifies the kind of message carried by a record.
type MessageType uint8

const (
	MessageTypeOrderNew     MessageType = 0x01
	MessageTypeOrderCancel  MessageType = 0x02
	MessageTypeOrderReplace MessageType = 0x03
	MessageTypeOrderFill    MessageType = 0x04
	MessageTypeOrderReject  MessageType = 0x05
	MessageTypeMarketData   MessageType = 0x06
	MessageTypeHeartbeat    MessageType = 0x07
	MessageTypeLogin        MessageType = 0x08
	MessageTypeLogout       MessageType = 0x09
	MessageTypeError        MessageType = 0xFF
)

// IsKnown reports whether t is one of the recognized message type tags.
func (t MessageType) IsKnown() bool {
	switch t {
	case MessageTypeOrderNew, MessageTypeOrderCancel, MessageTypeOrderReplace,
		MessageTypeOrderFill, MessageTypeOrderReject, MessageTypeMarketData,
		MessageTypeHeartbeat, MessageTypeLogin, MessageTypeLogout, MessageTypeError:
		return true
	default:
		return false
	}
}

func (t MessageType) String() string {
	switch t {
	case MessageTypeOrderNew:
		return "ORDER_NEW"
	case MessageTypeOrderCancel:
		return "ORDER_CANCEL"
	case MessageTypeOrderReplace:
		return "ORDER_REPLACE"
	case MessageTypeOrderFill:
		return "ORDER_FILL"
	case MessageTypeOrderReject:
		return "ORDER_REJECT"
	case MessageTypeMarketData:
		return "MARKET_DATA"
	case MessageTypeHeartbeat:
		return "HEARTBEAT"
	case MessageTypeLogin:
		return "LOGIN"
	case MessageTypeLogout:
		return "LOGOUT"
	case MessageTypeError:
		return "ERROR"
	default:
		return fmt.Sprintf("MessageType(0x%02x)", uint8(t))
	}
}

// OrderSide indicates the buy/sell direction of an order.
type OrderSide uint8

const (
	OrderSideBuy  OrderSide = 0x01
	OrderSideSell OrderSide = 0x02
)

// OrderType classifies how an order should be matched.
type OrderType uint8

const (
	OrderTypeMarket    OrderType = 0x01
	OrderTypeLimit     OrderType = 0x02
	OrderTypeStop      OrderType = 0x03
	OrderTypeStopLimit OrderType = 0x04
)

// TimeInForce controls how long an order remains eligible for execution.
type TimeInForce uint8

const (
	TimeInForceDay TimeInForce = 0x01
	TimeInForceIOC TimeInForce = 0x02
	TimeInForceFOK TimeInForce = 0x03
	TimeInForceGTC TimeInForce = 0x04
)

// Status describes the processing state of a message.
type Status uint8

const (
	StatusPending   Status = 0x01
	StatusProcessed Status = 0x02
	StatusCompleted Status = 0x03
	StatusFailed    Status = 0x04
)

const (
	// HeaderSize is the fixed size in bytes of the base record header.
	HeaderSize = 40
	// MaxPayload is the fixed size in bytes of the payload area.
	MaxPayload = 1024
	// RecordSize is the total wire size of every record: header + payload.
	RecordSize = HeaderSize + MaxPayload

	// SymbolLen is the fixed width in bytes of a trading symbol field.
	SymbolLen = 16
	// VenueLen is the fixed width in bytes of an execution venue field.
	VenueLen = 16
)

// header byte offsets, little-endian.
const (
	offMessageID       = 0
	offTimestamp       = 8
	offSequenceNumber  = 16
	offMessageType     = 20
	offStatus          = 21
	offSourceID        = 24
	offDestinationID   = 28
	offPayloadSize     = 32
	offPayload         = HeaderSize
)
