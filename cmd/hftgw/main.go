// File: cmd/hftgw/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hftgw is the low-latency trading message gateway's entry point:
// loads configuration, wires the handler registry, and runs the
// server until an interrupt or terminate signal requests shutdown.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hftgw/handlers"
	"github.com/momentics/hftgw/internal/config"
	"github.com/momentics/hftgw/server"
	"github.com/momentics/hftgw/wire"
)

func main() {
	ip := flag.String("ip", "", "Server IP address (default: 127.0.0.1)")
	port := flag.Int("port", 0, "Server port (default: 8888)")
	threads := flag.Int("threads", 0, "Number of worker threads (default: 4)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics listen address (default: :9090)")
	pinWorkers := flag.Bool("pin-workers", false, "Pin each worker goroutine to its own CPU core")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hftgw: config: %v\n", err)
		os.Exit(1)
	}

	// Explicit CLI flags always win over the config file/env layer.
	if *ip != "" {
		cfg.IP = *ip
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *threads != 0 {
		cfg.Threads = *threads
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hftgw: logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	srvCfg := &server.Config{
		IP:              cfg.IP,
		Port:            cfg.Port,
		Threads:         cfg.Threads,
		ShardCount:      cfg.ShardCount,
		BufferPoolSize:  cfg.BufferPoolSize,
		Backlog:         1024,
		MetricsAddr:     cfg.MetricsAddr,
		ShutdownTimeout: 15 * time.Second,
	}

	srv := server.New(srvCfg, server.WithLogger(log), server.WithCPUPinning(*pinWorkers))

	if err := srv.Initialize(); err != nil {
		log.Fatal("initialize failed", zap.Error(err))
	}
	registerHandlers(srv, log)
	if err := srv.Start(); err != nil {
		log.Fatal("start failed", zap.Error(err))
	}

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	<-signalCh
	log.Info("shutdown signal received")

	if err := srv.Stop(); err != nil {
		log.Error("shutdown error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func registerHandlers(srv *server.Server, log *zap.Logger) {
	registry := srv.Registry()
	orderSvc := handlers.NewOrderService(log)
	registry.Register(wire.MessageTypeOrderNew, orderSvc)
	registry.Register(wire.MessageTypeOrderCancel, orderSvc)
	registry.Register(wire.MessageTypeOrderReplace, orderSvc)

	mdSvc := handlers.NewMarketDataService(srv.ConnectionTable(), log)
	registry.Register(wire.MessageTypeMarketData, mdSvc)
}
