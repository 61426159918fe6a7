package connection

import (
	"testing"

	"golang.org/x/sys/unix"
)

func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair: %v", err)
	}
	t.Cleanup(func() { _ = unix.Close(fds[1]) })
	return New(fds[0], uint64(fds[0]), "test")
}

func TestTableInsertGetDelete(t *testing.T) {
	tbl := NewTable(4)
	c := newTestConnection(t)
	tbl.Insert(c)

	got, ok := tbl.Get(c.FD)
	if !ok || got != c {
		t.Fatalf("Get(%d) = (%v, %v), want (%v, true)", c.FD, got, ok, c)
	}

	tbl.Delete(c.FD)
	if _, ok := tbl.Get(c.FD); ok {
		t.Fatal("expected connection to be gone after Delete")
	}
}

func TestTableLenAndRange(t *testing.T) {
	tbl := NewTable(4)
	for i := 0; i < 5; i++ {
		tbl.Insert(newTestConnection(t))
	}
	if got := tbl.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	seen := 0
	tbl.Range(func(*Connection) { seen++ })
	if seen != 5 {
		t.Fatalf("Range visited %d connections, want 5", seen)
	}
}

func TestTableRemoveClosesConnection(t *testing.T) {
	tbl := NewTable(4)
	c := newTestConnection(t)
	tbl.Insert(c)

	if ok := tbl.Remove(c.FD); !ok {
		t.Fatal("Remove = false, want true")
	}
	if !c.IsClosed() {
		t.Fatal("expected Remove to close the connection")
	}
	if _, ok := tbl.Get(c.FD); ok {
		t.Fatal("expected connection to be removed from table")
	}
}

func TestTableCloseAll(t *testing.T) {
	tbl := NewTable(4)
	conns := make([]*Connection, 0, 3)
	for i := 0; i < 3; i++ {
		c := newTestConnection(t)
		conns = append(conns, c)
		tbl.Insert(c)
	}
	tbl.CloseAll()
	if got := tbl.Len(); got != 0 {
		t.Fatalf("Len() after CloseAll = %d, want 0", got)
	}
	for _, c := range conns {
		if !c.IsClosed() {
			t.Fatal("expected all connections closed after CloseAll")
		}
	}
}

func TestNewTableRoundsShardCountToPowerOfTwo(t *testing.T) {
	tbl := NewTable(5)
	if len(tbl.shards) != 8 {
		t.Fatalf("shard count = %d, want 8", len(tbl.shards))
	}
}
