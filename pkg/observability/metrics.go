// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring coursebot.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts ask requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursebot_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// ProviderRequestsTotal counts calls sent to LLM providers. The call
	// label is "generate" or "continue".
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "call", "status"},
	)

	// ProviderLatency records provider latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursebot_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens processed by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// ToolExecutionsTotal counts tool executions by name and outcome.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_tool_executions_total",
			Help: "Tool executions",
		},
		[]string{"tool_name", "status"},
	)

	// LoopRoundsTotal counts tool rounds executed by the iteration controller.
	LoopRoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_loop_rounds_total",
			Help: "Tool rounds",
		},
		[]string{"provider"},
	)

	// LoopExhaustedTotal counts queries that hit the iteration ceiling while
	// the provider still requested tools.
	LoopExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_loop_exhausted_total",
			Help: "Queries stopped at the iteration ceiling",
		},
		[]string{"provider"},
	)

	// AuthRejectedTotal counts requests rejected by the auth middleware.
	// The reason label is "unauthenticated" or "rate_limited".
	AuthRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursebot_auth_rejected_total",
			Help: "Requests rejected by authentication or rate limiting",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		ToolExecutionsTotal,
		LoopRoundsTotal,
		LoopExhaustedTotal,
		AuthRejectedTotal,
	)
}

// RecordProviderCall records one provider round-trip. status is the
// response stop reason; token counts of zero are not added.
func RecordProviderCall(providerName, model, call, status string, started time.Time, inputTokens, outputTokens int64) {
	ProviderRequestsTotal.WithLabelValues(providerName, model, call, status).Inc()
	ProviderLatency.WithLabelValues(providerName, model).Observe(time.Since(started).Seconds())
	if inputTokens > 0 {
		ProviderTokensTotal.WithLabelValues(providerName, model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		ProviderTokensTotal.WithLabelValues(providerName, model, "output").Add(float64(outputTokens))
	}
}
