package cooccurrence

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// toDocs maps small integers to a tiny vocabulary so that generated
// documents share words often.
func toDocs(raw [][]int) [][]string {
	docs := make([][]string, len(raw))
	for i, doc := range raw {
		docs[i] = make([]string, len(doc))
		for j, w := range doc {
			docs[i][j] = fmt.Sprintf("w%d", w)
		}
	}
	return docs
}

func containsWord(doc []string, w string) bool {
	for _, x := range doc {
		if x == w {
			return true
		}
	}
	return false
}

func docsGen() gopter.Gen {
	return gen.SliceOf(gen.SliceOf(gen.IntRange(0, 7)))
}

// TestGraphProperties checks builder and selector invariants on random corpora
func TestGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("edge weight equals brute-force document count", prop.ForAll(
		func(raw [][]int) bool {
			docs := toDocs(raw)
			g, err := Build(docs, BuildOptions{MinEdgeFrequency: 1})
			if err != nil {
				return false
			}
			for _, e := range g.Edges() {
				count := 0
				for _, doc := range docs {
					if containsWord(doc, e.Source) && containsWord(doc, e.Target) {
						count++
					}
				}
				if count != e.Weight || e.Source == e.Target {
					return false
				}
			}
			return true
		},
		docsGen(),
	))

	properties.Property("no edge below threshold and no duplicate pairs", prop.ForAll(
		func(raw [][]int, min int) bool {
			g, err := Build(toDocs(raw), BuildOptions{MinEdgeFrequency: min})
			if err != nil {
				return false
			}
			seen := make(map[[2]string]bool)
			for _, e := range g.Edges() {
				if e.Weight < min {
					return false
				}
				if seen[[2]string{e.Source, e.Target}] || seen[[2]string{e.Target, e.Source}] {
					return false
				}
				seen[[2]string{e.Source, e.Target}] = true
			}
			return true
		},
		docsGen(),
		gen.IntRange(1, 4),
	))

	properties.Property("selection respects cap and cut order", prop.ForAll(
		func(raw [][]int, n int) bool {
			g, err := Build(toDocs(raw), BuildOptions{MinEdgeFrequency: 1})
			if err != nil {
				return false
			}
			sg, err := SelectTopEdges(g, n)
			if g.Empty() {
				return err == ErrInsufficientData
			}
			if err != nil || sg.EdgeCount() > n {
				return false
			}

			kept := make(map[[2]string]bool)
			minKept := int(^uint(0) >> 1)
			for _, e := range sg.Edges() {
				kept[[2]string{e.Source, e.Target}] = true
				if e.Weight < minKept {
					minKept = e.Weight
				}
			}
			for _, e := range g.Edges() {
				if !kept[[2]string{e.Source, e.Target}] && e.Weight > minKept {
					return false
				}
			}
			return true
		},
		docsGen(),
		gen.IntRange(1, 10),
	))

	properties.Property("every subgraph node has degree at least one", prop.ForAll(
		func(raw [][]int, n int) bool {
			g, _ := Build(toDocs(raw), BuildOptions{MinEdgeFrequency: 1})
			sg, err := SelectTopEdges(g, n)
			if err != nil {
				return g.Empty()
			}
			for i := 0; i < sg.Len(); i++ {
				if sg.Degree(i) < 1 {
					return false
				}
			}
			return true
		},
		docsGen(),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
