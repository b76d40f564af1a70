package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks the number of outbound calls to the ZPA API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zpa_api_requests_total",
			Help: "Total number of ZPA API requests made (by endpoint, method and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Measures duration of ZPA API requests.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zpa_api_request_duration_seconds",
			Help:    "Duration of ZPA API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// Tracks sign-in exchanges by endpoint variant and result.
	SigninsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zpa_auth_signins_total",
			Help: "Total number of sign-in exchanges performed.",
		},
		[]string{"variant", "result"}, // result = "ok" | "error"
	)

	// Tracks cache hits and misses for the serve-mode response cache.
	ResponseCacheAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zpa_response_cache_access_total",
			Help: "Number of hits/misses in the serve-mode response cache.",
		},
		[]string{"result"}, // hit | miss
	)

	// Tracks total errors (aggregated).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_errors_total",
			Help: "Count of adapter-level errors by component.",
		},
		[]string{"component", "reason"},
	)
)

func IncAPIRequest(endpoint, method, status string) {
	APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func ObserveAPIRequestDuration(endpoint, method string, d time.Duration) {
	APIRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

func IncSignin(variant, result string) {
	SigninsTotal.WithLabelValues(variant, result).Inc()
}

func IncCacheAccess(result string) {
	ResponseCacheAccess.WithLabelValues(result).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
