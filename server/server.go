// File: server/server.go
// Server facade: connection lifecycle FSM, worker pool, accept loop,
// and dispatch wiring. Grounded on the original server's
// initialize/start/stop shape and lowlevel/server/run.go's facade
// construction and graceful-teardown sequencing.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/momentics/hftgw/affinity"
	"github.com/momentics/hftgw/bufpool"
	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/dispatch"
	"github.com/momentics/hftgw/handler"
	"github.com/momentics/hftgw/reactor"
	"github.com/momentics/hftgw/stats"
	"github.com/momentics/hftgw/wire"
)

// State is a lifecycle stage of the Server FSM.
type State int32

const (
	StateUnconfigured State = iota
	StateInitialized
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// pollTimeout is how long each worker blocks in reactor.Wait before
// re-checking the stop signal, matching the original server's 1ms
// epoll_wait timeout used for cooperative shutdown.
const pollTimeout = time.Millisecond

// Server is the gateway's connection-handling facade: it owns the
// listening socket, the readiness reactor, the connection table, the
// buffer pool, and the worker pool that drives them.
type Server struct {
	cfg      *Config
	log      *zap.Logger
	registry *handler.Registry

	connTable   *connection.Table
	pool        *bufpool.Pool
	stats       *stats.Stats
	dispatcher  *dispatch.Dispatcher
	acceptQueue *dispatch.AcceptQueue
	reactor     reactor.EventReactor
	listenFD    int

	metrics *metricsServer

	state   atomic.Int32
	stopCh  chan struct{}
	eg      *errgroup.Group
	stopOnce sync.Once
}

// New constructs a Server in StateUnconfigured. cfg == nil uses
// DefaultConfig().
func New(cfg *Config, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:      cfg,
		log:      zap.NewNop(),
		registry: handler.NewRegistry(),
		stats:    stats.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry exposes the server's handler registry so callers can
// Register handlers before Start.
func (s *Server) Registry() *handler.Registry { return s.registry }

// Stats returns the server's live stats counters.
func (s *Server) Stats() *stats.Stats { return s.stats }

// ConnectionTable exposes the connection table for handlers that need
// to broadcast across every live connection. Only valid after Initialize.
func (s *Server) ConnectionTable() *connection.Table { return s.connTable }

// Initialize opens the listening socket, builds the connection table,
// buffer pool, and reactor, and registers the listener for accept
// readiness. Must be called exactly once, from StateUnconfigured.
func (s *Server) Initialize() error {
	if !s.state.CompareAndSwap(int32(StateUnconfigured), int32(StateInitialized)) {
		return fmt.Errorf("server: Initialize called from state %s", State(s.state.Load()))
	}

	fd, err := listenTCP(s.cfg.IP, s.cfg.Port, s.cfg.Backlog)
	if err != nil {
		s.state.Store(int32(StateUnconfigured))
		return fmt.Errorf("server: listen: %w", err)
	}
	s.listenFD = fd

	r, err := reactor.NewReactor()
	if err != nil {
		unix.Close(fd)
		s.state.Store(int32(StateUnconfigured))
		return fmt.Errorf("server: reactor: %w", err)
	}
	if err := r.Register(fd, reactor.LevelTriggered, uintptr(fd)); err != nil {
		r.Close()
		unix.Close(fd)
		s.state.Store(int32(StateUnconfigured))
		return fmt.Errorf("server: register listener: %w", err)
	}
	s.reactor = r

	s.connTable = connection.NewTable(s.cfg.ShardCount)
	s.pool = bufpool.New(s.cfg.BufferPoolSize)
	s.dispatcher = dispatch.New(s.registry, s.stats)
	s.acceptQueue = dispatch.NewAcceptQueue()
	s.stopCh = make(chan struct{})

	if s.cfg.MetricsAddr != "" {
		s.metrics = newMetricsServer(s.cfg.MetricsAddr, s.stats, s.log)
		s.metrics.RegisterDebugProbe("buffer_pool", func() any { return s.pool.Stats() })
		s.metrics.RegisterDebugProbe("connections", func() any { return s.connTable.Len() })
	}
	return nil
}

// Start spawns the worker pool and, if configured, the metrics
// endpoint, then returns without blocking. Must be called from
// StateInitialized.
func (s *Server) Start() error {
	if !s.state.CompareAndSwap(int32(StateInitialized), int32(StateRunning)) {
		return fmt.Errorf("server: Start called from state %s", State(s.state.Load()))
	}

	if s.metrics != nil {
		s.metrics.start()
	}

	s.eg = &errgroup.Group{}
	for i := 0; i < s.cfg.Threads; i++ {
		workerID := i
		s.eg.Go(func() error { return s.workerLoop(workerID) })
	}
	s.log.Info("server started",
		zap.String("addr", fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port)),
		zap.Int("threads", s.cfg.Threads))
	return nil
}

// Stop signals every worker to exit, waits for them, closes all
// connections and the reactor, and shuts down the metrics endpoint.
// Idempotent: safe to call more than once or concurrently.
func (s *Server) Stop() error {
	var stopErr error
	s.stopOnce.Do(func() {
		if State(s.state.Load()) != StateRunning {
			if s.state.CompareAndSwap(int32(StateInitialized), int32(StateStopped)) {
				if err := s.reactor.Close(); err != nil {
					stopErr = fmt.Errorf("server: reactor close: %w", err)
				}
				if err := unix.Close(s.listenFD); err != nil && stopErr == nil {
					stopErr = fmt.Errorf("server: listener close: %w", err)
				}
			}
			return
		}
		s.state.Store(int32(StateStopping))
		close(s.stopCh)

		if s.eg != nil {
			if err := s.eg.Wait(); err != nil {
				stopErr = fmt.Errorf("server: worker error: %w", err)
			}
		}

		s.connTable.Range(func(c *connection.Connection) {
			s.registry.RangeDistinct(func(h handler.Handler) {
				h.OnConnectionClosed(c)
			})
		})
		s.connTable.CloseAll()
		if err := s.reactor.Close(); err != nil && stopErr == nil {
			stopErr = fmt.Errorf("server: reactor close: %w", err)
		}
		if err := unix.Close(s.listenFD); err != nil && stopErr == nil {
			stopErr = fmt.Errorf("server: listener close: %w", err)
		}
		if s.metrics != nil {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
			s.metrics.stop(ctx)
			cancel()
		}

		s.state.Store(int32(StateStopped))
		s.log.Info("server stopped")
	})
	return stopErr
}

// workerLoop polls the shared reactor and services whichever fds come
// back ready: the listener (accept) or a client socket (recv/dispatch).
func (s *Server) workerLoop(workerID int) error {
	if s.cfg.PinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		cpu := workerID % runtime.NumCPU()
		if err := affinity.SetAffinity(cpu); err != nil {
			s.log.Warn("cpu affinity pin failed", zap.Int("worker", workerID), zap.Int("cpu", cpu), zap.Error(err))
		}
	}

	events := make([]reactor.Event, 128)
	for {
		select {
		case <-s.stopCh:
			return nil
		default:
		}

		n, err := s.reactor.Wait(events, pollTimeout)
		if err != nil {
			s.log.Error("reactor wait failed", zap.Error(err))
			continue
		}
		for i := 0; i < n; i++ {
			fd := events[i].Fd
			if fd == s.listenFD {
				s.acceptLoop()
			} else {
				s.handleClientReadable(fd)
			}
		}
	}
}

// acceptLoop drains the kernel accept backlog into the accept queue,
// then services the queue: applying socket options, registering with
// the reactor, and inserting into the connection table.
func (s *Server) acceptLoop() {
	for {
		fd, remote, err := acceptConn(s.listenFD)
		if err != nil {
			if err == unix.EAGAIN {
				break
			}
			s.log.Warn("accept failed", zap.Error(err))
			break
		}
		s.acceptQueue.Push(dispatch.AcceptedFD{FD: fd, RemoteAddr: remote})
	}

	for {
		afd, ok := s.acceptQueue.Pop()
		if !ok {
			break
		}
		s.registerAccepted(afd)
	}
}

func (s *Server) registerAccepted(afd dispatch.AcceptedFD) {
	if err := setSocketOptions(afd.FD); err != nil {
		s.log.Warn("socket option setup failed", zap.Error(err))
		unix.Close(afd.FD)
		return
	}
	conn := connection.New(afd.FD, uint64(afd.FD), afd.RemoteAddr)
	if err := s.reactor.Register(afd.FD, reactor.EdgeTriggeredOneShot, uintptr(afd.FD)); err != nil {
		s.log.Warn("reactor register failed", zap.Error(err))
		conn.Close()
		return
	}
	s.connTable.Insert(conn)
	s.stats.ConnectionOpened()
	s.registry.RangeDistinct(func(h handler.Handler) {
		h.OnConnectionEstablished(conn)
	})
	s.log.Debug("connection accepted", zap.String("remote", afd.RemoteAddr), zap.Int("fd", afd.FD))
}

// handleClientReadable drains a ready client socket record by record
// until EAGAIN, dispatching each complete record, then rearms the fd.
func (s *Server) handleClientReadable(fd int) {
	conn, ok := s.connTable.Get(fd)
	if !ok {
		return
	}
	for {
		buf := s.pool.NextRecvBuffer()
		n, err := conn.Recv(buf)
		if err != nil {
			if err == unix.EAGAIN {
				break
			}
			s.closeConnection(conn)
			return
		}
		if n == 0 {
			s.closeConnection(conn)
			return
		}
		if n < wire.RecordSize {
			s.log.Warn("partial record, exiting drain loop", zap.Int("fd", fd), zap.Int("bytes", n))
			break
		}
		if err := s.dispatcher.Dispatch(buf[:wire.RecordSize], conn); err != nil {
			s.log.Warn("dispatch error", zap.Int("fd", fd), zap.Error(err))
		}
	}
	if err := s.reactor.Rearm(fd, reactor.EdgeTriggeredOneShot, uintptr(fd)); err != nil {
		s.log.Warn("rearm failed", zap.Int("fd", fd), zap.Error(err))
	}
}

func (s *Server) closeConnection(conn *connection.Connection) {
	_ = s.reactor.Deregister(conn.FD)
	s.registry.RangeDistinct(func(h handler.Handler) {
		h.OnConnectionClosed(conn)
	})
	s.connTable.Remove(conn.FD)
	s.stats.ConnectionClosed()
}
