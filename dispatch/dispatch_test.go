package dispatch

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/handler"
	"github.com/momentics/hftgw/stats"
	"github.com/momentics/hftgw/wire"
)

type stubHandler struct {
	calls int
	err   error
}

func (h *stubHandler) ProcessMessage(*wire.Record, *connection.Connection) error {
	h.calls++
	return h.err
}
func (h *stubHandler) OnConnectionEstablished(*connection.Connection) {}
func (h *stubHandler) OnConnectionClosed(*connection.Connection)      {}

func newTestConn() *connection.Connection {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		panic(err)
	}
	go func() { _ = unix.Close(fds[1]) }()
	return connection.New(fds[0], 1, "test")
}

func encodeHeartbeat(t *testing.T) []byte {
	t.Helper()
	rec := &wire.Record{Header: wire.Header{MessageID: 1, Timestamp: 1, MessageType: wire.MessageTypeHeartbeat}}
	buf := make([]byte, wire.RecordSize)
	if _, err := rec.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf
}

func TestDispatchInvokesRegisteredHandler(t *testing.T) {
	reg := handler.NewRegistry()
	h := &stubHandler{}
	reg.Register(wire.MessageTypeHeartbeat, h)
	d := New(reg, stats.New())

	if err := d.Dispatch(encodeHeartbeat(t), newTestConn()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("handler called %d times, want 1", h.calls)
	}
}

func TestDispatchDropsUnregisteredMessageTypeSilently(t *testing.T) {
	reg := handler.NewRegistry()
	st := stats.New()
	d := New(reg, st)

	if err := d.Dispatch(encodeHeartbeat(t), newTestConn()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := st.Snapshot().TotalMessagesProcessed; got != 1 {
		t.Fatalf("TotalMessagesProcessed = %d, want 1 (dropped message still counts as processed)", got)
	}
}

func TestDispatchRejectsUnrecognizedMessageType(t *testing.T) {
	reg := handler.NewRegistry()
	d := New(reg, stats.New())
	rec := &wire.Record{Header: wire.Header{MessageType: 0x77}} // not in the enum
	buf := make([]byte, wire.RecordSize)
	if _, err := rec.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if err := d.Dispatch(buf, newTestConn()); err == nil {
		t.Fatal("expected error dispatching an unrecognized message type")
	}
}

func TestDispatchRecordsStatsOnSuccess(t *testing.T) {
	reg := handler.NewRegistry()
	reg.Register(wire.MessageTypeHeartbeat, &stubHandler{})
	st := stats.New()
	d := New(reg, st)

	if err := d.Dispatch(encodeHeartbeat(t), newTestConn()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := st.Snapshot().TotalMessagesProcessed; got != 1 {
		t.Fatalf("TotalMessagesProcessed = %d, want 1", got)
	}
}
