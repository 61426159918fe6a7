// Package connection implements the server's connection table: the
// per-socket state tracked between accept and close, and a sharded,
// concurrency-safe index of that state keyed by file descriptor.
package connection

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// Connection holds the state the gateway tracks for one accepted TCP
// socket, from accept to close. Reads and writes go straight through
// the raw file descriptor rather than a net.Conn, since the socket's
// readiness is already owned by the reactor's epoll instance — layering
// Go's own runtime-managed net.Conn polling on top would double-poll
// the same fd.
type Connection struct {
	FD           int
	RemoteAddr   string
	ClientID     uint64
	Established  time.Time
	lastActivity atomic.Int64 // unix nanos
	sendSeq      atomic.Uint32
	recvSeq      atomic.Uint32
	closed       atomic.Bool
}

// New wraps an accepted, already-non-blocking file descriptor as a
// tracked Connection.
func New(fd int, clientID uint64, remoteAddr string) *Connection {
	c := &Connection{
		FD:          fd,
		RemoteAddr:  remoteAddr,
		ClientID:    clientID,
		Established: time.Now(),
	}
	c.Touch()
	return c
}

// Touch records the current time as the connection's last activity.
func (c *Connection) Touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

// LastActivity returns the timestamp of the connection's most recent
// send or receive.
func (c *Connection) LastActivity() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

// NextSendSequence returns the next monotonic outbound sequence number.
func (c *Connection) NextSendSequence() uint32 {
	return c.sendSeq.Add(1)
}

// NextRecvSequence returns the next monotonic inbound sequence number.
func (c *Connection) NextRecvSequence() uint32 {
	return c.recvSeq.Add(1)
}

// Send writes buf to the socket in full, retrying short writes and
// treating EAGAIN as "try again" since the fd is non-blocking.
func (c *Connection) Send(buf []byte) error {
	for len(buf) > 0 {
		n, err := unix.Write(c.FD, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return err
		}
		buf = buf[n:]
	}
	c.Touch()
	return nil
}

// Recv reads into buf once. Callers loop until EAGAIN to drain an
// edge-triggered fd fully.
func (c *Connection) Recv(buf []byte) (int, error) {
	n, err := unix.Read(c.FD, buf)
	if err == nil && n > 0 {
		c.Touch()
	}
	return n, err
}

// Close closes the underlying socket. Safe to call more than once.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(c.FD)
}

// IsClosed reports whether Close has already run.
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}
