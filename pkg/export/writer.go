package export

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// WriterSink writes one JSON result per line.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink writes JSON Lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Name() string { return KindStdout }

func (s *WriterSink) Write(ctx context.Context, results []*network.Result) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		data, err := Encode(r, false)
		if err != nil {
			return total, err
		}
		n, err := s.w.Write(append(data, '\n'))
		total += n
		if err != nil {
			return total, fmt.Errorf("write result %s: %w", r.ID, err)
		}
	}
	return total, nil
}

func (s *WriterSink) Close() error { return nil }
