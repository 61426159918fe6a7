// Package dispatch implements the accept-loop backlog and the
// record dispatcher that turns a decoded wire.Record into a handler
// invocation and a stats update.
package dispatch

import (
	"sync"

	"github.com/eapache/queue"
)

// AcceptedFD is a raw file descriptor pulled off the listener before
// the (comparatively expensive) Connection construction and reactor
// registration happen.
type AcceptedFD struct {
	FD         int
	RemoteAddr string
}

// AcceptQueue buffers a burst of freshly-accepted file descriptors so
// the accept loop can drain the kernel backlog in one tight loop
// before servicing each connection, instead of interleaving accept()
// syscalls with connection-table insertion one at a time.
type AcceptQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

// NewAcceptQueue constructs an empty backlog queue.
func NewAcceptQueue() *AcceptQueue {
	return &AcceptQueue{q: queue.New()}
}

// Push appends a freshly-accepted fd to the back of the backlog.
func (a *AcceptQueue) Push(fd AcceptedFD) {
	a.mu.Lock()
	a.q.Add(fd)
	a.mu.Unlock()
}

// Pop removes and returns the oldest backlogged fd. ok is false if the
// backlog is empty.
func (a *AcceptQueue) Pop() (fd AcceptedFD, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.q.Length() == 0 {
		return AcceptedFD{}, false
	}
	v := a.q.Peek()
	a.q.Remove()
	return v.(AcceptedFD), true
}

// Len returns the number of fds currently backlogged.
func (a *AcceptQueue) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.q.Length()
}
