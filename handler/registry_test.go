package handler

import (
	"testing"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/wire"
)

type recordingHandler struct {
	processed int
}

func (h *recordingHandler) ProcessMessage(*wire.Record, *connection.Connection) error {
	h.processed++
	return nil
}
func (h *recordingHandler) OnConnectionEstablished(*connection.Connection) {}
func (h *recordingHandler) OnConnectionClosed(*connection.Connection)      {}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	h := &recordingHandler{}
	r.Register(wire.MessageTypeOrderNew, h)

	got, ok := r.Lookup(wire.MessageTypeOrderNew)
	if !ok || got != h {
		t.Fatalf("Lookup = (%v, %v), want (%v, true)", got, ok, h)
	}

	if _, ok := r.Lookup(wire.MessageTypeMarketData); ok {
		t.Fatal("expected no handler registered for MARKET_DATA")
	}
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	first := &recordingHandler{}
	second := &recordingHandler{}
	r.Register(wire.MessageTypeHeartbeat, first)
	r.Register(wire.MessageTypeHeartbeat, second)

	got, _ := r.Lookup(wire.MessageTypeHeartbeat)
	if got != second {
		t.Fatal("expected second registration to win")
	}
}

func TestRegistryRange(t *testing.T) {
	r := NewRegistry()
	r.Register(wire.MessageTypeOrderNew, &recordingHandler{})
	r.Register(wire.MessageTypeMarketData, &recordingHandler{})

	seen := 0
	r.Range(func(wire.MessageType, Handler) { seen++ })
	if seen != 2 {
		t.Fatalf("Range visited %d handlers, want 2", seen)
	}
}

func TestRegistryRangeDistinctVisitsEachHandlerOnce(t *testing.T) {
	r := NewRegistry()
	shared := &recordingHandler{}
	r.Register(wire.MessageTypeOrderNew, shared)
	r.Register(wire.MessageTypeOrderCancel, shared)
	r.Register(wire.MessageTypeOrderReplace, shared)
	r.Register(wire.MessageTypeMarketData, &recordingHandler{})

	seen := 0
	r.RangeDistinct(func(Handler) { seen++ })
	if seen != 2 {
		t.Fatalf("RangeDistinct visited %d handlers, want 2 (one shared across 3 types, one standalone)", seen)
	}
}
