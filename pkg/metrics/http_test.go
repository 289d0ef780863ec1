package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/health/live", "200", time.Millisecond)
	m.Observe("GET", "/health/live", "200", time.Millisecond)
	m.Observe("POST", "/api/v1/auth/login", "401", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health/live", "200")); got != 2 {
		t.Fatalf("expected 2 live probes, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/auth/login", "401")); got != 1 {
		t.Fatalf("expected 1 rejected login, got %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "storefront_http_request_duration_seconds"); err != nil || n != 2 {
		t.Fatalf("expected 2 latency series, got %d (%v)", n, err)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", "200", time.Millisecond)
	NewHTTPMetrics(nil).Observe("GET", "/", "200", time.Millisecond)
}
