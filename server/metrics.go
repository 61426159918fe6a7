// File: server/metrics.go
// Prometheus metrics endpoint exposing live stats.Snapshot values.
// Grounded on control/metrics.go's MetricsRegistry, reworked onto
// github.com/prometheus/client_golang instead of a hand-rolled
// registry, per the domain-stack wiring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/momentics/hftgw/control"
	"github.com/momentics/hftgw/stats"
)

// metricsServer serves a Prometheus /metrics endpoint backed by a
// stats.Stats snapshot collected on every scrape, plus a /debug
// endpoint exposing ad-hoc named probes for operator inspection.
type metricsServer struct {
	http   *http.Server
	log    *zap.Logger
	probes *control.DebugProbes
}

// RegisterDebugProbe exposes an additional named value under /debug,
// evaluated fresh on every request.
func (m *metricsServer) RegisterDebugProbe(name string, fn func() any) {
	m.probes.RegisterProbe(name, fn)
}

type statsCollector struct {
	st *stats.Stats

	totalMessages     *prometheus.Desc
	totalConnections  *prometheus.Desc
	activeConnections *prometheus.Desc
	peakConnections   *prometheus.Desc
	avgLatencyMicros  *prometheus.Desc
}

func newStatsCollector(st *stats.Stats) *statsCollector {
	return &statsCollector{
		st: st,
		totalMessages: prometheus.NewDesc(
			"hftgw_messages_total", "Total messages dispatched.", nil, nil),
		totalConnections: prometheus.NewDesc(
			"hftgw_connections_total", "Total connections accepted since start.", nil, nil),
		activeConnections: prometheus.NewDesc(
			"hftgw_connections_active", "Currently open connections.", nil, nil),
		peakConnections: prometheus.NewDesc(
			"hftgw_connections_peak", "Peak concurrent connections observed.", nil, nil),
		avgLatencyMicros: prometheus.NewDesc(
			"hftgw_dispatch_latency_ema_microseconds", "Exponential moving average of dispatch latency.", nil, nil),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalMessages
	ch <- c.totalConnections
	ch <- c.activeConnections
	ch <- c.peakConnections
	ch <- c.avgLatencyMicros
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.st.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.totalMessages, prometheus.CounterValue, float64(snap.TotalMessagesProcessed))
	ch <- prometheus.MustNewConstMetric(c.totalConnections, prometheus.CounterValue, float64(snap.TotalConnections))
	ch <- prometheus.MustNewConstMetric(c.activeConnections, prometheus.GaugeValue, float64(snap.ActiveConnections))
	ch <- prometheus.MustNewConstMetric(c.peakConnections, prometheus.GaugeValue, float64(snap.PeakConnections))
	ch <- prometheus.MustNewConstMetric(c.avgLatencyMicros, prometheus.GaugeValue, snap.AvgLatencyMicros)
}

func newMetricsServer(addr string, st *stats.Stats, log *zap.Logger) *metricsServer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newStatsCollector(st))

	probes := control.NewDebugProbes()
	probes.RegisterProbe("stats", func() any { return st.Snapshot() })

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(probes.DumpState()); err != nil {
			log.Warn("debug endpoint encode failed", zap.Error(err))
		}
	})

	return &metricsServer{
		http:   &http.Server{Addr: addr, Handler: mux},
		log:    log,
		probes: probes,
	}
}

func (m *metricsServer) start() {
	go func() {
		if err := m.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.log.Warn("metrics server exited", zap.Error(err))
		}
	}()
}

func (m *metricsServer) stop(ctx context.Context) {
	if err := m.http.Shutdown(ctx); err != nil {
		m.log.Warn("metrics server shutdown error", zap.Error(err))
	}
}
