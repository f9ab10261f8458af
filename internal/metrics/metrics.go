// Package metrics exposes Prometheus instrumentation for the RPC surface
// and the ledger.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Write kinds recorded by NightWrite.
const (
	WriteCreate = "create"
	WriteUpdate = "update"
	WriteDelete = "delete"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	nightWrites *prometheus.CounterVec
	nightsSeen  prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barnight",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barnight",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		nightWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barnight",
			Name:      "night_writes_total",
			Help:      "Successful bar night writes by kind.",
		}, []string{"kind"}),
		nightsSeen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "barnight",
			Name:      "nights_last_recompute",
			Help:      "Number of bar nights included in the last balance recompute.",
		}),
	}
	m.registry.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.nightWrites,
		m.nightsSeen,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// NightWrite counts a successful create, update or delete.
func (m *Metrics) NightWrite(kind string) {
	if m == nil {
		return
	}
	m.nightWrites.WithLabelValues(kind).Inc()
}

// NightsSeen records how many nights went into a balance recompute.
func (m *Metrics) NightsSeen(n int) {
	if m == nil {
		return
	}
	m.nightsSeen.Set(float64(n))
}

// Interceptor returns a Connect interceptor that counts and times every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			m.rpcRequests.WithLabelValues(procedure, codeOf(err)).Inc()
			return resp, err
		}
	}
}

func codeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code().String()
	}
	return connect.CodeUnknown.String()
}
