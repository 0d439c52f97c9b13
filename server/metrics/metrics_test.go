package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ModelRequests.WithLabelValues("acts", "success").Inc()
	m.ExtractionFailures.WithLabelValues("pdf").Inc()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `legalease_model_requests_total{endpoint="acts",outcome="success"} 1`)
	assert.Contains(t, body, `legalease_extraction_failures_total{format="pdf"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsAreIsolated(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ParseFailures.WithLabelValues("timeline").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ParseFailures.WithLabelValues("timeline")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ParseFailures.WithLabelValues("timeline")))
}
