// File: server/config.go
// Package server implements the gateway's worker pool, accept loop,
// and lifecycle FSM.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import "time"

// Config holds all server-side configuration parameters.
type Config struct {
	IP              string
	Port            int
	Threads         int
	ShardCount      int
	BufferPoolSize  int
	Backlog         int
	MetricsAddr     string
	ShutdownTimeout time.Duration
	PinWorkers      bool
}

// DefaultConfig returns the built-in defaults, matching the original
// server's constructor defaults (127.0.0.1:8888, 4 threads).
func DefaultConfig() *Config {
	return &Config{
		IP:              "127.0.0.1",
		Port:            8888,
		Threads:         4,
		ShardCount:      16,
		BufferPoolSize:  4096,
		Backlog:         1024,
		MetricsAddr:     ":9090",
		ShutdownTimeout: 15 * time.Second,
		PinWorkers:      false,
	}
}
