// Package bufpool implements the fixed, pre-allocated wire-record
// buffer pools used for zero-allocation send/receive on the hot path.
//
// Unlike a general-purpose sync.Pool, slots are pre-allocated once at
// construction and handed out round-robin via a monotonic atomic
// counter modulo capacity. A slot is only ever borrowed for the
// duration of a single send-or-recv syscall plus the decode/encode
// immediately around it; it is never retained by a caller past that
// step, so wraparound reuse is safe as long as capacity comfortably
// exceeds the number of concurrently in-flight operations (bounded by
// the worker count).
package bufpool

import (
	"sync/atomic"

	"github.com/momentics/hftgw/wire"
)

// Stats reports point-in-time pool utilization.
type Stats struct {
	Capacity int
	NextSend uint64
	NextRecv uint64
}

// Pool is a fixed-size pool of pre-allocated, wire.RecordSize-length
// byte buffers, split into independent send and receive rings so the
// two paths never contend on the same slice index.
type Pool struct {
	sendBuf   [][]byte
	recvBuf   [][]byte
	sendIndex atomic.Uint64
	recvIndex atomic.Uint64
	mask      uint64
}

// New allocates a Pool with capacity rounded up to the next power of
// two, so slot selection can use a mask instead of a division.
func New(capacity int) *Pool {
	size := nextPowerOfTwo(capacity)
	p := &Pool{
		sendBuf: make([][]byte, size),
		recvBuf: make([][]byte, size),
		mask:    uint64(size - 1),
	}
	for i := range p.sendBuf {
		p.sendBuf[i] = make([]byte, wire.RecordSize)
		p.recvBuf[i] = make([]byte, wire.RecordSize)
	}
	return p
}

// NextSendBuffer returns the next send-path buffer, zeroed.
func (p *Pool) NextSendBuffer() []byte {
	idx := p.sendIndex.Add(1) - 1
	buf := p.sendBuf[idx&p.mask]
	clear(buf)
	return buf
}

// NextRecvBuffer returns the next receive-path buffer, zeroed.
func (p *Pool) NextRecvBuffer() []byte {
	idx := p.recvIndex.Add(1) - 1
	buf := p.recvBuf[idx&p.mask]
	clear(buf)
	return buf
}

// Stats returns a point-in-time snapshot of pool utilization.
func (p *Pool) Stats() Stats {
	return Stats{
		Capacity: len(p.sendBuf),
		NextSend: p.sendIndex.Load(),
		NextRecv: p.recvIndex.Load(),
	}
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
