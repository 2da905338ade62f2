package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnet_exports_total",
			Help: "Results written to a sink by outcome",
		},
		[]string{"sink", "status"},
	)

	r.ExportDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textnet_export_duration_seconds",
			Help:    "Time spent writing one result",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	r.ExportedBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnet_exported_bytes_total",
			Help: "Encoded bytes written per sink",
		},
		[]string{"sink"},
	)
}
