package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var metric dto.Metric
	if err := h.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.RouteRequests == nil {
		t.Error("RouteRequests not initialized")
	}
	if r.PipelineRunsTotal == nil {
		t.Error("PipelineRunsTotal not initialized")
	}
	if r.ExportsTotal == nil {
		t.Error("ExportsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestObserveRoute(t *testing.T) {
	r := NewRegistry()

	r.ObserveRoute("POST", "/api/v1/analyze", 200, 4096, 100*time.Millisecond)
	r.ObserveRoute("POST", "/api/v1/analyze", 200, 2048, 200*time.Millisecond)
	r.ObserveRoute("POST", "/api/v1/analyze", 400, 64, 5*time.Millisecond)

	counter, err := r.RouteRequests.GetMetricWithLabelValues("POST", "/api/v1/analyze", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, counter); v != 2 {
		t.Errorf("Counter value = %v, want 2", v)
	}

	latency, err := r.RouteLatency.GetMetricWithLabelValues("POST", "/api/v1/analyze")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if n := histogramCount(t, latency.(prometheus.Histogram)); n != 3 {
		t.Errorf("latency samples = %d, want 3", n)
	}
}

func TestRequestsInFlight(t *testing.T) {
	r := NewRegistry()
	r.RequestStarted()
	r.RequestStarted()
	r.RequestFinished()

	var metric dto.Metric
	if err := r.RequestsInFlight.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if v := metric.Gauge.GetValue(); v != 1 {
		t.Errorf("in flight = %v, want 1", v)
	}
}

func TestRecordRunAndStages(t *testing.T) {
	r := NewRegistry()

	r.RecordRun("ok", 30*time.Millisecond, 3)
	r.RecordRun("insufficient_data", time.Millisecond, 0)
	r.RecordStage("layout", 10*time.Millisecond)

	if v := counterValue(t, r.PipelineRunsTotal.WithLabelValues("ok")); v != 1 {
		t.Errorf("ok runs = %v, want 1", v)
	}
	if v := counterValue(t, r.DocumentsProcessed); v != 3 {
		t.Errorf("documents = %v, want 3", v)
	}
	if n := histogramCount(t, r.PipelineDuration); n != 2 {
		t.Errorf("duration samples = %d, want 2", n)
	}
}

func TestRecordFallback(t *testing.T) {
	r := NewRegistry()
	r.RecordFallback("layout", "spring")
	r.RecordFallback("layout", "spring")
	r.RecordFallback("detection", "single")

	if v := counterValue(t, r.FallbacksTotal.WithLabelValues("layout", "spring")); v != 2 {
		t.Errorf("layout fallbacks = %v, want 2", v)
	}
}

func TestRecordNetworkAndExport(t *testing.T) {
	r := NewRegistry()
	r.RecordNetwork(3, 2, 1, 0)
	r.RecordExport("file", "success", 512, time.Millisecond)
	r.RecordExport("s3", "error", 0, time.Millisecond)

	if n := histogramCount(t, r.SubgraphNodes); n != 1 {
		t.Errorf("subgraph samples = %d, want 1", n)
	}
	if v := counterValue(t, r.ExportedBytes.WithLabelValues("file")); v != 512 {
		t.Errorf("exported bytes = %v, want 512", v)
	}
	if v := counterValue(t, r.ExportsTotal.WithLabelValues("s3", "error")); v != 1 {
		t.Errorf("s3 errors = %v, want 1", v)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("ok", time.Millisecond, 1)
	r.ObserveRoute("GET", "/health", 200, 300, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"textnet_pipeline_runs_total",
		`textnet_api_requests_total{code="200",method="GET",route="/health"} 1`,
		"textnet_api_response_size_bytes_bucket",
		"textnet_uptime_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Exposition missing %s", want)
		}
	}
}
