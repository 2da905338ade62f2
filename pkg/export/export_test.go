package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/metrics"
	"github.com/dd0wney/cluso-textnet/pkg/network"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

func sampleResults() []*network.Result {
	return []*network.Result{
		{
			ID:        "11111111-1111-1111-1111-111111111111",
			Status:    network.StatusOK,
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Nodes: []network.RenderNode{
				{ID: "猫", Label: "猫", X: 500, Y: 300, Centrality: 1, Size: 120},
				{ID: "好き", Label: "好き", X: 50, Y: 300, Centrality: 1, Size: 120},
			},
			Edges:  []network.RenderEdge{{Source: "猫", Target: "好き", Weight: 2, Width: 1.5}},
			Groups: []network.Group{{ID: 0, Members: []string{"猫", "好き"}, Size: 2, Density: 1}},
		},
		{
			ID:       "22222222-2222-2222-2222-222222222222",
			Category: "自由 記述/A",
			Status:   network.StatusInsufficientData,
			Nodes:    []network.RenderNode{},
			Edges:    []network.RenderEdge{},
			Groups:   []network.Group{},
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	r := sampleResults()[0]
	for _, compress := range []bool{false, true} {
		data, err := Encode(r, compress)
		if err != nil {
			t.Fatalf("Encode(compress=%v): %v", compress, err)
		}
		if compress && bytes.HasPrefix(data, []byte("{")) {
			t.Error("Compressed payload looks like plain JSON")
		}
		got, err := Decode(data, compress)
		if err != nil {
			t.Fatalf("Decode(compress=%v): %v", compress, err)
		}
		if got.ID != r.ID || len(got.Nodes) != 2 || got.Edges[0].Weight != 2 {
			t.Errorf("Round trip mismatch: %+v", got)
		}
	}

	if _, err := Decode([]byte("not snappy"), true); err == nil {
		t.Error("Expected error decoding garbage")
	}
}

func TestObjectKey(t *testing.T) {
	results := sampleResults()
	if got := ObjectKey("runs", results[0], false); got != "runs/_overall/11111111-1111-1111-1111-111111111111.json" {
		t.Errorf("ObjectKey(overall) = %q", got)
	}
	got := ObjectKey("", results[1], true)
	if strings.Count(got, "/") != 1 {
		t.Errorf("Category slash should be escaped, got %q", got)
	}
	if !strings.HasSuffix(got, ".json.sz") {
		t.Errorf("Compressed key should end in .json.sz, got %q", got)
	}
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, true, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	results := sampleResults()
	n, err := sink.Write(context.Background(), results)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n == 0 {
		t.Error("Expected bytes written")
	}

	for _, r := range results {
		path := filepath.Join(dir, filepath.FromSlash(ObjectKey("", r, true)))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", path, err)
		}
		got, err := Decode(data, true)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.ID != r.ID || got.Status != r.Status || got.Category != r.Category {
			t.Errorf("Stored result mismatch: got %+v", got)
		}
	}

	sink.Close()
	if _, err := sink.Write(context.Background(), results); !errors.Is(err, ErrSinkClosed) {
		t.Errorf("Write after Close = %v, want ErrSinkClosed", err)
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	if _, err := sink.Write(context.Background(), sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		if _, err := Decode(scanner.Bytes(), false); err != nil {
			t.Fatalf("Line %d: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("Expected 2 lines, got %d", lines)
	}
}

type fakePutter struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
		f.types = map[string]string{}
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	putter := &fakePutter{}
	sink := NewS3SinkWithClient(putter, "bucket", "exports", false, logging.NewNopLogger())

	results := sampleResults()
	if _, err := sink.Write(context.Background(), results); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(putter.objects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(putter.objects))
	}

	key := ObjectKey("exports", results[0], false)
	got, err := Decode(putter.objects["bucket/"+key], false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ID != results[0].ID {
		t.Errorf("Stored ID = %q", got.ID)
	}
	if putter.types[key] != "application/json" {
		t.Errorf("ContentType = %q", putter.types[key])
	}

	failing := NewS3SinkWithClient(&fakePutter{err: errors.New("denied")}, "bucket", "", false, nil)
	if _, err := failing.Write(context.Background(), results); err == nil {
		t.Error("Expected upload error")
	}
}

func TestFrameUnframe(t *testing.T) {
	msg := Frame("カテゴリ", []byte(`{"id":"x"}`))
	if !bytes.HasPrefix(msg, []byte(Topic("カテゴリ"))) {
		t.Errorf("Message should start with its topic: %q", msg)
	}

	category, payload, err := Unframe(msg)
	if err != nil {
		t.Fatalf("Unframe: %v", err)
	}
	if category != "カテゴリ" || string(payload) != `{"id":"x"}` {
		t.Errorf("Unframe = %q, %q", category, payload)
	}

	overall, _, err := Unframe(Frame("", []byte("{}")))
	if err != nil || overall != "" {
		t.Errorf("Overall topic = %q, %v", overall, err)
	}

	for _, bad := range []string{"other/x\n{}", "textnet/no-terminator"} {
		if _, _, err := Unframe([]byte(bad)); err == nil {
			t.Errorf("Unframe(%q) should fail", bad)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default stdout", Config{}, false},
		{"file with path", Config{Kind: KindFile, Path: "/tmp/out"}, false},
		{"file without path", Config{Kind: KindFile}, true},
		{"s3 without bucket", Config{Kind: KindS3}, true},
		{"postgres without url", Config{Kind: KindPostgres}, true},
		{"pubsub without address", Config{Kind: KindPubSub}, true},
		{"unknown kind", Config{Kind: "kafka"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, validation.ErrInvalidConfiguration) {
				t.Errorf("Error should wrap ErrInvalidConfiguration: %v", err)
			}
		})
	}
}

func TestNew_Stdout(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(context.Background(), Config{}, &buf, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sink.Name() != KindStdout {
		t.Errorf("Name() = %q", sink.Name())
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL(DefaultTable)
	if !strings.Contains(sql, `"textnet_results"`) {
		t.Errorf("Table identifier not quoted: %s", sql)
	}
	if !strings.Contains(insertSQL("results"), "ON CONFLICT (id) DO NOTHING") {
		t.Error("Insert should ignore duplicate ids")
	}
	if tableName.MatchString("results; DROP TABLE x") {
		t.Error("Table name pattern accepted an injection")
	}
}

func TestInstrument(t *testing.T) {
	reg := metrics.NewRegistry()
	sink := Instrument(NewWriterSink(io.Discard), reg)

	if _, err := sink.Write(context.Background(), sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var m dto.Metric
	if err := reg.ExportsTotal.WithLabelValues(KindStdout, "ok").Write(&m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}
	if m.Counter.GetValue() != 1 {
		t.Errorf("exports_total = %v, want 1", m.Counter.GetValue())
	}

	if Instrument(sink, nil) != sink {
		t.Error("Instrument with nil registry should return the sink unchanged")
	}
}
