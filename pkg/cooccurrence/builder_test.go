package cooccurrence

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/tokens"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

func TestBuild_CountsDocumentsNotOccurrences(t *testing.T) {
	docs := [][]string{
		{"猫", "好き", "猫"},
		{"猫", "散歩"},
		{"猫", "好き"},
	}

	g, err := Build(docs, BuildOptions{MinEdgeFrequency: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Edge{
		{Source: "猫", Target: "好き", Weight: 2},
		{Source: "猫", Target: "散歩", Weight: 1},
	}
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("Edges() = %+v, want %+v", g.Edges(), want)
	}
	if !reflect.DeepEqual(g.Nodes(), []string{"猫", "好き", "散歩"}) {
		t.Errorf("Nodes() = %v", g.Nodes())
	}
	if g.Weight("好き", "猫") != 2 {
		t.Errorf("Weight should ignore orientation, got %d", g.Weight("好き", "猫"))
	}
	if g.Weight("好き", "散歩") != 0 {
		t.Error("Unconnected pair should have weight 0")
	}
}

func TestBuild_OrientationFollowsFirstSeen(t *testing.T) {
	docs := [][]string{
		{"a", "b"},
		{"c", "b", "a"},
	}
	g, err := Build(docs, BuildOptions{MinEdgeFrequency: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Edge{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "a", Target: "c", Weight: 1},
	}
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("Edges() = %+v, want %+v", g.Edges(), want)
	}
}

func TestBuild_ThresholdDropsIsolatedWords(t *testing.T) {
	docs := [][]string{
		{"x", "y"},
		{"x", "y"},
		{"x", "z"},
	}
	g, err := Build(docs, BuildOptions{MinEdgeFrequency: 2})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.EdgeCount() != 1 || g.HasNode("z") {
		t.Errorf("Expected only x-y to survive, got %+v", g.Edges())
	}
}

func TestBuild_Stopwords(t *testing.T) {
	docs := [][]string{{"こと", "猫", "好き"}, {"こと", "猫"}}
	g, err := Build(docs, BuildOptions{MinEdgeFrequency: 1, Stopwords: tokens.DefaultStopwords()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.HasNode("こと") {
		t.Error("Stopword should never become a node")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestBuild_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		docs [][]string
	}{
		{"nil", nil},
		{"empty documents", [][]string{{}, {}}},
		{"single words", [][]string{{"猫"}, {"犬"}}},
		{"repeated word", [][]string{{"猫", "猫", "猫"}}},
		{"empty strings", [][]string{{"", ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.docs, BuildOptions{MinEdgeFrequency: 1})
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if !g.Empty() || g.NodeCount() != 0 {
				t.Errorf("Expected empty graph, got %d nodes %d edges", g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestBuild_InvalidThreshold(t *testing.T) {
	for _, min := range []int{0, -3} {
		if _, err := Build(nil, BuildOptions{MinEdgeFrequency: min}); !errors.Is(err, validation.ErrInvalidConfiguration) {
			t.Errorf("MinEdgeFrequency=%d: expected ErrInvalidConfiguration, got %v", min, err)
		}
	}
}

func distinctWords(prefix string, n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = prefix + strconv.Itoa(i)
	}
	return words
}

func TestBuildContext_ExpiredDeadline(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	docs := [][]string{distinctWords("w", 3000), distinctWords("w", 3000)}
	start := time.Now()
	g, err := BuildContext(ctx, docs, BuildOptions{MinEdgeFrequency: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected DeadlineExceeded, got %v", err)
	}
	if g != nil {
		t.Error("Expected no graph on cancellation")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Cancelled build took %v", elapsed)
	}
}

func TestBuildContext_StopsInsideLongDocument(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// one document, ~8M pairs: far longer than the deadline
	docs := [][]string{distinctWords("w", 4000)}
	start := time.Now()
	_, err := BuildContext(ctx, docs, BuildOptions{MinEdgeFrequency: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Build ignored the deadline for %v", elapsed)
	}
}

func TestBuildContext_MatchesBuild(t *testing.T) {
	docs := [][]string{{"猫", "好き"}, {"猫", "散歩"}}
	want, err := Build(docs, BuildOptions{MinEdgeFrequency: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := BuildContext(context.Background(), docs, BuildOptions{MinEdgeFrequency: 1})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if !reflect.DeepEqual(got.Edges(), want.Edges()) || !reflect.DeepEqual(got.Nodes(), want.Nodes()) {
		t.Errorf("BuildContext() = %+v, want %+v", got.Edges(), want.Edges())
	}
}
