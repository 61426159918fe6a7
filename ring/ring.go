// Package ring implements a lock-free MPMC ring buffer for handing
// items between goroutines without blocking either side. The server's
// dispatch path does not use it: records are dispatched synchronously
// on the worker goroutine that read them.
package ring

import "sync/atomic"

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// Ring is a bounded, multi-producer multi-consumer lock-free queue.
// head/tail are padded to separate cache lines so producers and
// consumers spinning on opposite ends don't false-share.
type Ring[T any] struct {
	head uint64
	_    [64]byte
	tail uint64
	_    [64]byte
	mask uint64
	cells []cell[T]
}

// New allocates a ring rounded up to the next power of two capacity.
func New[T any](size uint64) *Ring[T] {
	if size < 2 {
		size = 2
	}
	if size&(size-1) != 0 {
		n := size - 1
		n |= n >> 1
		n |= n >> 2
		n |= n >> 4
		n |= n >> 8
		n |= n >> 16
		n |= n >> 32
		size = n + 1
	}
	r := &Ring[T]{
		mask:  size - 1,
		cells: make([]cell[T], size),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

// Enqueue adds item to the ring. Returns false if the ring is full.
func (r *Ring[T]) Enqueue(item T) bool {
	for {
		tail := atomic.LoadUint64(&r.tail)
		c := &r.cells[tail&r.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)
		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.tail, tail, tail+1) {
				c.data = item
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false
		}
	}
}

// Dequeue removes and returns the oldest item. ok is false if the ring
// is empty.
func (r *Ring[T]) Dequeue() (item T, ok bool) {
	for {
		head := atomic.LoadUint64(&r.head)
		c := &r.cells[head&r.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)
		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.head, head, head+1) {
				item = c.data
				c.sequence.Store(head + r.mask + 1)
				return item, true
			}
		case dif < 0:
			var zero T
			return zero, false
		}
	}
}

// Len returns the approximate number of items currently queued.
func (r *Ring[T]) Len() int {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	return int(tail - head)
}

// Cap returns the fixed capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.cells)
}
