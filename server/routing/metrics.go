package routing

import (
	"github.com/go-chi/chi/v5"
	"github.com/teilomillet/legalease/server/metrics"
)

// registerMetricsRoutes exposes the server's own registry at /metrics.
func registerMetricsRoutes(r chi.Router, m *metrics.Metrics) {
	r.Method("GET", "/metrics", m.Handler())
}
