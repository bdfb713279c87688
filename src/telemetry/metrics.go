// Package telemetry holds the Prometheus instruments and the OpenTelemetry tracer shared by the HTTP and MCP surfaces
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sqltools"

// Surfaces a diagnostic can be requested through
const (
	SurfaceHTTP = "http"
	SurfaceMCP  = "mcp"
)

// Request outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus instruments. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewRegistry returns a registry carrying the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewMetrics creates the instruments and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Diagnostic requests by surface, operation and outcome.",
		}, []string{"surface", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent serving a diagnostic request, including the database round trip.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"surface", "operation"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_returned_total",
			Help:      "Rows returned to callers by operation.",
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.duration, m.rows)
	return m
}

// ObserveRequest records one finished request that started at start
func (m *Metrics) ObserveRequest(surface, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.requests.WithLabelValues(surface, operation, outcome).Inc()
	m.duration.WithLabelValues(surface, operation).Observe(time.Since(start).Seconds())
}

// AddRows counts rows handed back by operation
func (m *Metrics) AddRows(operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(operation).Add(float64(n))
}

// Handler exposes the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
