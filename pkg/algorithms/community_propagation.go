package algorithms

import (
	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// LabelPropagation performs label propagation for community detection.
// Fast, scalable alternative to greedy modularity for large vocabularies.
type LabelPropagation struct {
	// MaxIterations bounds the number of sweeps. Zero means 100.
	MaxIterations int
}

func (LabelPropagation) Name() string { return MethodLabelPropagation }

// Detect sweeps nodes in index order, moving each to the label carrying the
// most incident edge weight. Ties keep the current label, else the smallest.
func (lp LabelPropagation) Detect(sg *cooccurrence.Subgraph) (*CommunityDetectionResult, error) {
	n := sg.Len()
	maxIterations := lp.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 100
	}

	// Initialize: each node in its own community
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for node := 0; node < n; node++ {
			weightByLabel := make(map[int]float64)
			for _, nb := range sg.Neighbors(node) {
				weightByLabel[labels[nb]] += sg.Weight(node, nb)
			}

			best := labels[node]
			bestWeight := weightByLabel[best]
			for _, label := range sortedKeys(weightByLabel) {
				if w := weightByLabel[label]; w > bestWeight {
					best, bestWeight = label, w
				}
			}

			if best != labels[node] {
				labels[node] = best
				changed = true
			}
		}

		if !changed {
			break // Converged
		}
	}

	byLabel := make(map[int][]int)
	order := make([]int, 0)
	for node, label := range labels {
		if _, ok := byLabel[label]; !ok {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], node)
	}

	groups := make([][]int, 0, len(order))
	for _, label := range order {
		groups = append(groups, byLabel[label])
	}

	result := buildResult(sg, groups)
	result.Method = MethodLabelPropagation
	return result, nil
}
