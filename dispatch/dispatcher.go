package dispatch

import (
	"fmt"
	"time"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/handler"
	"github.com/momentics/hftgw/stats"
	"github.com/momentics/hftgw/wire"
)

// Dispatcher decodes wire records and routes them to the handler
// registered for their message type, recording processing latency.
type Dispatcher struct {
	registry *handler.Registry
	stats    *stats.Stats
	now      func() time.Time
}

// New constructs a Dispatcher over registry, recording latency into stats.
func New(registry *handler.Registry, st *stats.Stats) *Dispatcher {
	return &Dispatcher{registry: registry, stats: st, now: time.Now}
}

// Dispatch decodes raw (which must be exactly wire.RecordSize bytes)
// and invokes the handler registered for its message type. Latency is
// measured from decode start to handler return and folded into Stats.
func (d *Dispatcher) Dispatch(raw []byte, conn *connection.Connection) error {
	start := d.now()

	rec, err := wire.Decode(raw)
	if err != nil {
		return fmt.Errorf("dispatch: decode: %w", err)
	}
	if !rec.IsValid() {
		return fmt.Errorf("dispatch: invalid record: message_type=%s payload_size=%d", rec.MessageType, rec.PayloadSize)
	}

	// A recognized type with no registered handler is dropped silently
	// and still counted as processed: HEARTBEAT/LOGIN/LOGOUT/ORDER_FILL/
	// ORDER_REJECT/ERROR have no handler in the default wiring.
	if h, ok := d.registry.Lookup(rec.MessageType); ok {
		if err := h.ProcessMessage(rec, conn); err != nil {
			return fmt.Errorf("dispatch: handler for %s: %w", rec.MessageType, err)
		}
	}

	latencyMicros := float64(d.now().Sub(start).Nanoseconds()) / 1000.0
	d.stats.RecordMessage(latencyMicros)
	return nil
}
