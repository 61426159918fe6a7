// Package control provides the gateway's runtime debug introspection
// layer: a concurrent-safe registry of named probe functions, exposed
// over HTTP by server.metricsServer's /debug endpoint alongside the
// Prometheus /metrics surface.
package control
