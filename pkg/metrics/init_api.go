package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace    = "textnet"
	apiSubsystem = "api"
)

// Route families are labelled by ServeMux pattern, never by raw path.
func (r *Registry) initAPIMetrics() {
	r.RouteRequests = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: apiSubsystem,
			Name:      "requests_total",
			Help:      "Requests served per route and status code",
		},
		[]string{"method", "route", "code"},
	)

	// Analyses run from milliseconds up to the request timeout.
	r.RouteLatency = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: apiSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time to serve a request per route",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		},
		[]string{"method", "route"},
	)

	r.RequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: apiSubsystem,
			Name:      "in_flight_requests",
			Help:      "Requests currently being served",
		},
	)

	// 256 B health replies up to multi-megabyte networks.
	r.RouteResponseBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: apiSubsystem,
			Name:      "response_size_bytes",
			Help:      "Response body size per route",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"route"},
	)
}
