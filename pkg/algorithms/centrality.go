package algorithms

import (
	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// DegreeCentrality returns deg(v)/(n-1) for every node, using the unweighted
// degree. A single-node subgraph gets centrality 0.
func DegreeCentrality(sg *cooccurrence.Subgraph) map[string]float64 {
	n := sg.Len()
	centrality := make(map[string]float64, n)

	for i := 0; i < n; i++ {
		if n <= 1 {
			centrality[sg.Node(i)] = 0
			continue
		}
		centrality[sg.Node(i)] = float64(sg.Degree(i)) / float64(n-1)
	}

	return centrality
}
