package cooccurrence

import (
	"context"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-textnet/pkg/tokens"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

// BuildOptions controls graph construction.
type BuildOptions struct {
	// MinEdgeFrequency is the smallest document count an edge must reach. Must be >= 1.
	MinEdgeFrequency int
	// Stopwords are removed before pairs are formed. Nil means none.
	Stopwords tokens.StopwordSet
}

// Build counts, for every unordered pair of distinct words, the number of
// documents containing both. Pairs reaching MinEdgeFrequency become edges.
//
// An empty document set yields an empty graph and no error; callers decide
// what "no data" means for them.
func Build(docs [][]string, opts BuildOptions) (*Graph, error) {
	return BuildContext(context.Background(), docs, opts)
}

// BuildContext is Build with cancellation. Pair counting is quadratic in
// document length, so ctx is checked for every document and every row of
// pairs; the context error is returned unwrapped.
func BuildContext(ctx context.Context, docs [][]string, opts BuildOptions) (*Graph, error) {
	if opts.MinEdgeFrequency < 1 {
		return nil, fmt.Errorf("%w: min edge frequency must be at least 1, got %d",
			validation.ErrInvalidConfiguration, opts.MinEdgeFrequency)
	}

	var (
		vocab  []string
		seen   = make(map[string]int)
		counts = make(map[pairKey]int)
		order  []pairKey
		local  []int
	)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		local = local[:0]
		inDoc := make(map[int]struct{}, len(doc))

		for _, w := range doc {
			if w == "" || opts.Stopwords.Contains(w) {
				continue
			}
			id, ok := seen[w]
			if !ok {
				id = len(vocab)
				seen[w] = id
				vocab = append(vocab, w)
			}
			if _, dup := inDoc[id]; dup {
				continue
			}
			inDoc[id] = struct{}{}
			local = append(local, id)
		}

		for i := 0; i < len(local); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for j := i + 1; j < len(local); j++ {
				k := pairKey{a: local[i], b: local[j]}
				if k.a > k.b {
					k.a, k.b = k.b, k.a
				}
				if _, ok := counts[k]; !ok {
					order = append(order, k)
				}
				counts[k]++
			}
		}
	}

	var (
		edges  []Edge
		isNode = make(map[int]struct{})
	)
	for _, k := range order {
		c := counts[k]
		if c < opts.MinEdgeFrequency {
			continue
		}
		edges = append(edges, Edge{Source: vocab[k.a], Target: vocab[k.b], Weight: c})
		isNode[k.a] = struct{}{}
		isNode[k.b] = struct{}{}
	}

	ids := make([]int, 0, len(isNode))
	for id := range isNode {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	nodes := make([]string, len(ids))
	for i, id := range ids {
		nodes[i] = vocab[id]
	}

	return newGraph(nodes, edges), nil
}
