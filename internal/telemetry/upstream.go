package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of calls made to the backend REST API",
		},
		[]string{"method", "endpoint", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Backend REST API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	cacheResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_results_total",
			Help: "Query cache lookups by resource and result",
		},
		[]string{"resource", "result"},
	)
)

// ObserveUpstream records one backend call. status is 0 for transport errors.
func ObserveUpstream(method, endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamRequestsTotal.WithLabelValues(method, endpoint, label).Inc()
	upstreamRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

func ObserveCache(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheResultsTotal.WithLabelValues(resource, result).Inc()
}
