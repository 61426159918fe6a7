package handlers

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/wire"
)

func TestMarketDataServiceBroadcastsToAllConnections(t *testing.T) {
	table := connection.NewTable(4)
	conn1, peer1 := newTestConnPair(t)
	conn2, peer2 := newTestConnPair(t)
	table.Insert(conn1)
	table.Insert(conn2)

	svc := NewMarketDataService(table, nil)
	rec := &wire.Record{Header: wire.Header{MessageID: 1, Timestamp: 1}}
	rec.PutMarketData(&wire.MarketDataView{Symbol: "AAPL", BidPrice: 100, AskPrice: 101, LastPrice: 100})

	if err := svc.ProcessMessage(rec, conn1); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	for _, peer := range []int{peer1, peer2} {
		buf := make([]byte, wire.RecordSize)
		n, err := unix.Read(peer, buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if n != wire.RecordSize {
			t.Fatalf("read %d bytes, want %d", n, wire.RecordSize)
		}
	}
}

func TestMarketDataServiceIgnoresNonMarketDataMessages(t *testing.T) {
	table := connection.NewTable(4)
	svc := NewMarketDataService(table, nil)
	rec := &wire.Record{Header: wire.Header{MessageID: 1, Timestamp: 1, MessageType: wire.MessageTypeHeartbeat}}

	if err := svc.ProcessMessage(rec, nil); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
}
