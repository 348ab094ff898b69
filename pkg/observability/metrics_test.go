package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	// Seed every metric so vectors appear in the gather output.
	CallsTotal.WithLabelValues("chat-completion", "test", "generate", "ok").Inc()
	CallLatency.WithLabelValues("chat-completion", "test", "generate").Observe(0.1)
	TokensTotal.WithLabelValues("chat-completion", "test", "input").Add(10)
	WarningsTotal.WithLabelValues("compatibility").Inc()
	RequestsTotal.WithLabelValues("POST", "2xx").Inc()
	RequestDuration.WithLabelValues("POST").Observe(0.1)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"bruecke_calls_total":                   false,
		"bruecke_call_latency_seconds":          false,
		"bruecke_tokens_total":                  false,
		"bruecke_streams_active":                false,
		"bruecke_warnings_total":                false,
		"bruecke_http_requests_total":           false,
		"bruecke_http_request_duration_seconds": false,
		"bruecke_streaming_connections_active":  false,
	}

	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/chat/completions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMetricsMiddlewareStreaming(t *testing.T) {
	sawActive := false
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The gauge is incremented for the lifetime of the request.
		if gaugeValue(t, StreamingConnections) >= 1 {
			sawActive = true
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/completion", nil)
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !sawActive {
		t.Error("streaming gauge not incremented during request")
	}
	if gaugeValue(t, StreamingConnections) != 0 {
		t.Error("streaming gauge not decremented after request")
	}
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "bruecke_streaming_connections_active" {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}
