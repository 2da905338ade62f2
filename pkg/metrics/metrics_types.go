package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// API Metrics
	RouteRequests      *prometheus.CounterVec
	RouteLatency       *prometheus.HistogramVec
	RequestsInFlight   prometheus.Gauge
	RouteResponseBytes *prometheus.HistogramVec

	// Pipeline Metrics
	PipelineRunsTotal   *prometheus.CounterVec
	PipelineDuration    prometheus.Histogram
	StageDuration       *prometheus.HistogramVec
	FallbacksTotal      *prometheus.CounterVec
	SubgraphNodes       prometheus.Histogram
	SubgraphEdges       prometheus.Histogram
	CommunitiesPerRun   prometheus.Histogram
	ModularityScore     prometheus.Histogram
	DocumentsProcessed  prometheus.Counter
	CategoriesProcessed prometheus.Counter

	// Export Metrics
	ExportsTotal   *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
	ExportedBytes  *prometheus.CounterVec

	registry *prometheus.Registry
	started  time.Time
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		started:  time.Now(),
	}

	// Initialize all metrics
	r.initAPIMetrics()
	r.initPipelineMetrics()
	r.initExportMetrics()
	r.initProcessMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
