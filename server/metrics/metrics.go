// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates Prometheus metrics for the server.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge
	ErrorsTotal     *prometheus.CounterVec

	ModelRequests      *prometheus.CounterVec
	ModelLatency       *prometheus.HistogramVec
	DedupedRequests    prometheus.Counter
	ExtractionFailures *prometheus.CounterVec
	ParseFailures      *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "legalease_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		ActiveRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "legalease_http_active_requests",
				Help: "Number of currently active HTTP requests",
			},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_errors_total",
				Help: "Total number of error responses by class",
			},
			[]string{"type"},
		),
		ModelRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_model_requests_total",
				Help: "Calls to the generative model by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		ModelLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "legalease_model_latency_seconds",
				Help:    "Latency of generative model calls",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"endpoint"},
		),
		DedupedRequests: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "legalease_model_deduplicated_requests_total",
				Help: "Model calls served by an identical in-flight call",
			},
		),
		ExtractionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_extraction_failures_total",
				Help: "Uploaded documents whose text could not be extracted",
			},
			[]string{"format"},
		),
		ParseFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_parse_failures_total",
				Help: "Model replies that did not match the expected structure",
			},
			[]string{"endpoint"},
		),
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m.RequestsTotal.WithLabelValues("/health", "200").Add(0)
	m.RequestDuration.WithLabelValues("/health").Observe(0)

	return m
}

// Registry exposes the registry so other components can add collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns a handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
