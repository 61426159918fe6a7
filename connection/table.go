package connection

import "sync"

// Table is a sharded, concurrency-safe index of live Connections keyed
// by file descriptor. Sharding follows the teacher's session store:
// a fixed power-of-two shard count, each guarded by its own RWMutex,
// so lookups and mutations on unrelated connections never contend.
type Table struct {
	shards []*shard
	mask   uint32
}

type shard struct {
	mu    sync.RWMutex
	byFD  map[int]*Connection
}

// NewTable constructs a Table with shardCount shards, rounded up to
// the next power of two.
func NewTable(shardCount int) *Table {
	if shardCount <= 0 {
		shardCount = 16
	}
	n := nextPowerOfTwo(uint32(shardCount))
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{byFD: make(map[int]*Connection)}
	}
	return &Table{shards: shards, mask: n - 1}
}

func (t *Table) shardFor(fd int) *shard {
	return t.shards[uint32(fd)&t.mask]
}

// Insert adds a connection to the table, replacing any existing entry
// with the same file descriptor.
func (t *Table) Insert(c *Connection) {
	sh := t.shardFor(c.FD)
	sh.mu.Lock()
	sh.byFD[c.FD] = c
	sh.mu.Unlock()
}

// Get returns the connection registered for fd, if any.
func (t *Table) Get(fd int) (*Connection, bool) {
	sh := t.shardFor(fd)
	sh.mu.RLock()
	c, ok := sh.byFD[fd]
	sh.mu.RUnlock()
	return c, ok
}

// Delete removes fd from the table without closing its socket.
func (t *Table) Delete(fd int) {
	sh := t.shardFor(fd)
	sh.mu.Lock()
	delete(sh.byFD, fd)
	sh.mu.Unlock()
}

// Remove deletes fd from the table and closes its connection, if
// present. Returns true if a connection was found and closed.
func (t *Table) Remove(fd int) bool {
	sh := t.shardFor(fd)
	sh.mu.Lock()
	c, ok := sh.byFD[fd]
	if ok {
		delete(sh.byFD, fd)
	}
	sh.mu.Unlock()
	if ok {
		_ = c.Close()
	}
	return ok
}

// Len returns the total number of tracked connections across all shards.
func (t *Table) Len() int {
	n := 0
	for _, sh := range t.shards {
		sh.mu.RLock()
		n += len(sh.byFD)
		sh.mu.RUnlock()
	}
	return n
}

// Range calls fn for every tracked connection. fn must not mutate the
// table.
func (t *Table) Range(fn func(*Connection)) {
	for _, sh := range t.shards {
		sh.mu.RLock()
		for _, c := range sh.byFD {
			fn(c)
		}
		sh.mu.RUnlock()
	}
}

// CloseAll closes every tracked connection and empties the table.
func (t *Table) CloseAll() {
	for _, sh := range t.shards {
		sh.mu.Lock()
		for fd, c := range sh.byFD {
			_ = c.Close()
			delete(sh.byFD, fd)
		}
		sh.mu.Unlock()
	}
}

func nextPowerOfTwo(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
