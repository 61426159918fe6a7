// File: server/options.go
// Functional options for the Server facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"go.uber.org/zap"

	"github.com/momentics/hftgw/handler"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger attaches a structured logger. Defaults to zap.NewNop().
func WithLogger(log *zap.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// WithHandlerRegistry replaces the server's handler registry.
func WithHandlerRegistry(reg *handler.Registry) ServerOption {
	return func(s *Server) { s.registry = reg }
}

// WithShardCount overrides the connection table's shard count.
func WithShardCount(n int) ServerOption {
	return func(s *Server) { s.cfg.ShardCount = n }
}

// WithBufferPoolSize overrides the send/receive buffer pool capacity.
func WithBufferPoolSize(n int) ServerOption {
	return func(s *Server) { s.cfg.BufferPoolSize = n }
}

// WithMetricsAddr overrides the Prometheus metrics listen address. An
// empty address disables the metrics endpoint.
func WithMetricsAddr(addr string) ServerOption {
	return func(s *Server) { s.cfg.MetricsAddr = addr }
}

// WithCPUPinning pins each worker goroutine's OS thread to its own CPU
// core (worker i to core i mod runtime.NumCPU()), reducing scheduler
// jitter and cache-line migration on the hot dispatch path.
func WithCPUPinning(enabled bool) ServerOption {
	return func(s *Server) { s.cfg.PinWorkers = enabled }
}
