// Package handler defines the message-handling contract dispatched
// records are delivered through, and a registry that resolves message
// types to the handler responsible for them.
package handler

import (
	"sync"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/wire"
)

// Handler processes decoded records for one or more message types and
// observes the lifecycle of the connections it receives them on.
type Handler interface {
	// ProcessMessage handles a single decoded record from conn. It is
	// invoked synchronously on the worker goroutine that received the
	// record; long-running work should be handed off elsewhere.
	ProcessMessage(rec *wire.Record, conn *connection.Connection) error
	// OnConnectionEstablished is called once, right after a connection
	// is accepted and registered.
	OnConnectionEstablished(conn *connection.Connection)
	// OnConnectionClosed is called once, right before a connection is
	// removed from the connection table.
	OnConnectionClosed(conn *connection.Connection)
}

// Registry resolves a wire.MessageType to the Handler responsible for
// it. Mutex-protected: registration and lookup are both safe for
// concurrent use, following the same read-heavy RWMutex pattern as
// connection.Table.
type Registry struct {
	mu     sync.RWMutex
	byType map[wire.MessageType]Handler
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[wire.MessageType]Handler)}
}

// Register binds h as the handler for the given message type,
// replacing any previously registered handler for that type.
func (r *Registry) Register(t wire.MessageType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = h
}

// Lookup returns the handler registered for t, if any.
func (r *Registry) Lookup(t wire.MessageType) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byType[t]
	return h, ok
}

// Range calls fn once for every (message type, handler) registration,
// in map order (unspecified). Handlers registered for more than one
// message type are visited once per type; use RangeDistinct to visit
// each handler once.
func (r *Registry) Range(fn func(wire.MessageType, Handler)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t, h := range r.byType {
		fn(t, h)
	}
}

// RangeDistinct calls fn once for every distinct registered Handler
// instance, regardless of how many message types it is bound to —
// used for lifecycle callbacks, which must fire exactly once per
// connection rather than once per registered type.
func (r *Registry) RangeDistinct(fn func(Handler)) {
	r.mu.RLock()
	seen := make(map[Handler]struct{}, len(r.byType))
	handlers := make([]Handler, 0, len(r.byType))
	for _, h := range r.byType {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		handlers = append(handlers, h)
	}
	r.mu.RUnlock()
	for _, h := range handlers {
		fn(h)
	}
}
