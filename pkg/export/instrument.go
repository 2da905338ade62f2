package export

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/metrics"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

type instrumentedSink struct {
	Sink
	registry *metrics.Registry
}

// Instrument records every write of sink in registry.
func Instrument(sink Sink, registry *metrics.Registry) Sink {
	if registry == nil {
		return sink
	}
	return &instrumentedSink{Sink: sink, registry: registry}
}

func (s *instrumentedSink) Write(ctx context.Context, results []*network.Result) (int, error) {
	start := time.Now()
	n, err := s.Sink.Write(ctx, results)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.registry.RecordExport(s.Name(), status, n, time.Since(start))
	return n, err
}
