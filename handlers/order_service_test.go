package handlers

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/wire"
)

func newTestConnPair(t *testing.T) (*connection.Connection, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair: %v", err)
	}
	t.Cleanup(func() { unix.Close(fds[1]) })
	return connection.New(fds[0], 1, "test"), fds[1]
}

func TestOrderServiceAcknowledgesNewOrderWithFill(t *testing.T) {
	conn, peer := newTestConnPair(t)
	svc := NewOrderService(nil)

	rec := &wire.Record{Header: wire.Header{MessageID: 42, Timestamp: 1, SourceID: 7, DestinationID: 9}}
	rec.PutOrder(&wire.OrderView{Symbol: "AAPL", Side: wire.OrderSideBuy, Type: wire.OrderTypeLimit, TIF: wire.TimeInForceDay, OrderID: 100, Quantity: 10, Price: 15000})

	if err := svc.ProcessMessage(rec, conn); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	resp := make([]byte, wire.RecordSize)
	n, err := unix.Read(peer, resp)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != wire.RecordSize {
		t.Fatalf("read %d bytes, want %d", n, wire.RecordSize)
	}

	decoded, err := wire.Decode(resp)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.MessageType != wire.MessageTypeOrderFill {
		t.Fatalf("MessageType = %v, want ORDER_FILL", decoded.MessageType)
	}
	fill, err := decoded.Fill()
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if fill.OrderID != 100 || fill.FillQuantity != 10 || fill.FillPrice != 15000 {
		t.Fatalf("unexpected fill: %+v", fill)
	}
}

func TestOrderServiceIgnoresCancelWithoutError(t *testing.T) {
	conn, _ := newTestConnPair(t)
	svc := NewOrderService(nil)
	rec := &wire.Record{Header: wire.Header{MessageID: 1, Timestamp: 1, MessageType: wire.MessageTypeOrderCancel}}

	if err := svc.ProcessMessage(rec, conn); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
}
