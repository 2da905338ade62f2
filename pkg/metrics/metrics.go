package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ObserveRoute records one served request against its route pattern
func (r *Registry) ObserveRoute(method, route string, code, bytes int, elapsed time.Duration) {
	r.RouteRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.RouteLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
	r.RouteResponseBytes.WithLabelValues(route).Observe(float64(bytes))
}

// RequestStarted marks a request as in flight
func (r *Registry) RequestStarted() {
	r.RequestsInFlight.Inc()
}

// RequestFinished marks a request as done
func (r *Registry) RequestFinished() {
	r.RequestsInFlight.Dec()
}

// RecordRun records one finished analysis
func (r *Registry) RecordRun(status string, duration time.Duration, documents int) {
	r.PipelineRunsTotal.WithLabelValues(status).Inc()
	r.PipelineDuration.Observe(duration.Seconds())
	r.DocumentsProcessed.Add(float64(documents))
}

// RecordStage records the duration of one pipeline stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordFallback counts a recovered stage failure and the method used instead
func (r *Registry) RecordFallback(stage, method string) {
	r.FallbacksTotal.WithLabelValues(stage, method).Inc()
}

// RecordNetwork records the shape of an assembled network
func (r *Registry) RecordNetwork(nodes, edges, communities int, modularity float64) {
	r.SubgraphNodes.Observe(float64(nodes))
	r.SubgraphEdges.Observe(float64(edges))
	r.CommunitiesPerRun.Observe(float64(communities))
	r.ModularityScore.Observe(modularity)
}

// RecordExport records a sink write
func (r *Registry) RecordExport(sink, status string, bytes int, duration time.Duration) {
	r.ExportsTotal.WithLabelValues(sink, status).Inc()
	r.ExportDuration.WithLabelValues(sink).Observe(duration.Seconds())
	if bytes > 0 {
		r.ExportedBytes.WithLabelValues(sink).Add(float64(bytes))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
