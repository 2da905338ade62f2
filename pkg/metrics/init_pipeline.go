package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.PipelineRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnet_pipeline_runs_total",
			Help: "Total number of network analyses by outcome",
		},
		[]string{"status"},
	)

	r.PipelineDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textnet_pipeline_duration_seconds",
			Help:    "End-to-end duration of one network analysis",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textnet_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 5},
		},
		[]string{"stage"},
	)

	r.FallbacksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnet_fallbacks_total",
			Help: "Times a stage recovered with its fallback (detection, layout)",
		},
		[]string{"stage", "method"},
	)

	r.SubgraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textnet_subgraph_nodes",
			Help:    "Nodes in the pruned co-occurrence subgraph",
			Buckets: []float64{2, 5, 10, 20, 40, 80, 120},
		},
	)

	r.SubgraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textnet_subgraph_edges",
			Help:    "Edges kept by top-edge selection",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 100},
		},
	)

	r.CommunitiesPerRun = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textnet_communities",
			Help:    "Communities detected per analysis",
			Buckets: []float64{1, 2, 3, 5, 8, 12, 20},
		},
	)

	r.ModularityScore = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textnet_modularity",
			Help:    "Modularity of the detected partition",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8},
		},
	)

	r.DocumentsProcessed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "textnet_documents_processed_total",
			Help: "Documents fed into the graph builder",
		},
	)

	r.CategoriesProcessed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "textnet_categories_processed_total",
			Help: "Category subsets analysed",
		},
	)
}
