//go:build linux
// +build linux

package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/handler"
	"github.com/momentics/hftgw/wire"
)

func TestServerLifecycleStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 18888
	cfg.MetricsAddr = ""
	srv := New(cfg)

	require.NoError(t, srv.Initialize())
	assert.Equal(t, StateInitialized, State(srv.state.Load()))

	require.NoError(t, srv.Start())
	assert.Equal(t, StateRunning, State(srv.state.Load()))

	require.NoError(t, srv.Stop())
	assert.Equal(t, StateStopped, State(srv.state.Load()))

	// Idempotent: a second Stop must not error or block.
	require.NoError(t, srv.Stop())
}

func TestServerRejectsStartBeforeInitialize(t *testing.T) {
	srv := New(DefaultConfig())
	err := srv.Start()
	assert.Error(t, err)
}

type countingHandler struct {
	done      chan struct{}
	connected atomic.Int32
	closed    atomic.Int32
}

func (h *countingHandler) ProcessMessage(rec *wire.Record, conn *connection.Connection) error {
	select {
	case h.done <- struct{}{}:
	default:
	}
	return nil
}
func (h *countingHandler) OnConnectionEstablished(conn *connection.Connection) { h.connected.Add(1) }
func (h *countingHandler) OnConnectionClosed(conn *connection.Connection)      { h.closed.Add(1) }

var _ handler.Handler = (*countingHandler)(nil)

func TestServerLifecycleCallbacksFireOncePerConnectionNotPerType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 18890
	cfg.MetricsAddr = ""
	srv := New(cfg)
	require.NoError(t, srv.Initialize())

	h := &countingHandler{done: make(chan struct{}, 1)}
	srv.Registry().Register(wire.MessageTypeOrderNew, h)
	srv.Registry().Register(wire.MessageTypeOrderCancel, h)
	srv.Registry().Register(wire.MessageTypeOrderReplace, h)

	require.NoError(t, srv.Start())
	defer srv.Stop()

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.Connect(fd, &unix.SockaddrInet4{Port: cfg.Port, Addr: [4]byte{127, 0, 0, 1}}))

	assert.Eventually(t, func() bool { return h.connected.Load() == 1 }, 2*time.Second, 10*time.Millisecond,
		"OnConnectionEstablished must fire exactly once despite the handler being registered for 3 message types")

	require.NoError(t, unix.Close(fd))

	assert.Eventually(t, func() bool { return h.closed.Load() == 1 }, 2*time.Second, 10*time.Millisecond,
		"OnConnectionClosed must fire exactly once despite the handler being registered for 3 message types")
}

func TestServerAcceptsAndDispatchesHeartbeat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 18889
	cfg.MetricsAddr = ""
	srv := New(cfg)
	require.NoError(t, srv.Initialize())

	received := make(chan struct{}, 1)
	srv.Registry().Register(wire.MessageTypeHeartbeat, &countingHandler{done: received})

	require.NoError(t, srv.Start())
	defer srv.Stop()

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	defer unix.Close(fd)
	require.NoError(t, unix.Connect(fd, &unix.SockaddrInet4{Port: cfg.Port, Addr: [4]byte{127, 0, 0, 1}}))

	rec := &wire.Record{Header: wire.Header{MessageID: 1, Timestamp: 1, MessageType: wire.MessageTypeHeartbeat}}
	buf := make([]byte, wire.RecordSize)
	_, err = rec.Encode(buf)
	require.NoError(t, err)

	for len(buf) > 0 {
		n, werr := unix.Write(fd, buf)
		require.NoError(t, werr)
		buf = buf[n:]
	}

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for heartbeat dispatch")
	}
}
