// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the bruecke adapter layer.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// CallsTotal counts model calls by strategy, model, operation, and outcome.
	CallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bruecke_calls_total",
			Help: "Model calls",
		},
		[]string{"strategy", "model", "operation", "status"},
	)

	// CallLatency records backend call latency in seconds.
	CallLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bruecke_call_latency_seconds",
			Help:    "Backend call latency",
			Buckets: LLMBuckets,
		},
		[]string{"strategy", "model", "operation"},
	)

	// TokensTotal counts tokens processed by direction (input/output).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bruecke_tokens_total",
			Help: "Token count",
		},
		[]string{"strategy", "model", "direction"},
	)

	// StreamsActive tracks the number of unified streams currently open.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bruecke_streams_active",
			Help: "Active unified streams",
		},
	)

	// WarningsTotal counts degradation warnings surfaced on results and streams.
	WarningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bruecke_warnings_total",
			Help: "Degradation warnings",
		},
		[]string{"type"},
	)

	// RequestsTotal counts HTTP requests served by bundled servers
	// (the mock backend) by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bruecke_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bruecke_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// StreamingConnections tracks the number of active SSE connections on
	// bundled servers.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bruecke_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CallsTotal,
		CallLatency,
		TokensTotal,
		StreamsActive,
		WarningsTotal,
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
	)
}
