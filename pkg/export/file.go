package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// FileSink writes each result to dir/category/id.json, or id.json.sz when
// compressed. Files are written to a temporary name and renamed into place.
type FileSink struct {
	dir      string
	compress bool
	logger   logging.Logger

	mu     sync.Mutex
	closed bool
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string, compress bool, logger logging.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileSink{dir: dir, compress: compress, logger: logging.OrDefault(logger)}, nil
}

func (s *FileSink) Name() string { return KindFile }

func (s *FileSink) Write(ctx context.Context, results []*network.Result) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSinkClosed
	}

	total := 0
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		data, err := Encode(r, s.compress)
		if err != nil {
			return total, err
		}
		path := filepath.Join(s.dir, filepath.FromSlash(ObjectKey("", r, s.compress)))
		if err := writeFileAtomic(path, data); err != nil {
			return total, err
		}
		total += len(data)
		s.logger.Debug("result exported", logging.String("path", path), logging.Category(r.Category))
	}
	return total, nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
