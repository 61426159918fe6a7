package dispatch

import "testing"

func TestAcceptQueueFIFO(t *testing.T) {
	q := NewAcceptQueue()
	q.Push(AcceptedFD{FD: 1, RemoteAddr: "a"})
	q.Push(AcceptedFD{FD: 2, RemoteAddr: "b"})

	if got := q.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	first, ok := q.Pop()
	if !ok || first.FD != 1 {
		t.Fatalf("Pop() = (%v, %v), want (FD=1, true)", first, ok)
	}
	second, ok := q.Pop()
	if !ok || second.FD != 2 {
		t.Fatalf("Pop() = (%v, %v), want (FD=2, true)", second, ok)
	}
}

func TestAcceptQueuePopEmpty(t *testing.T) {
	q := NewAcceptQueue()
	if _, ok := q.Pop(); ok {
		t.Fatal("expected Pop on empty queue to report ok=false")
	}
}
