package algorithms

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
)

// NewDetector returns the detector registered under method. An empty method
// selects greedy modularity.
func NewDetector(method string) (Detector, error) {
	switch method {
	case "", MethodGreedyModularity:
		return GreedyModularity{}, nil
	case MethodLabelPropagation:
		return LabelPropagation{}, nil
	case MethodConnectedComponents:
		return ConnectedComponents{}, nil
	default:
		return nil, fmt.Errorf("unknown community detection method %q", method)
	}
}

// DetectCommunities runs d on sg. A nil detector, a detector error or a
// result that is not a partition of sg all yield SingleCommunity with
// Fallback set. Detection failure is never returned to the caller.
func DetectCommunities(sg *cooccurrence.Subgraph, d Detector, logger logging.Logger) *CommunityDetectionResult {
	logger = logging.OrDefault(logger)

	if d == nil {
		logger.Debug("community detection disabled", logging.Nodes(sg.Len()))
		return fallbackResult(sg)
	}

	result, err := d.Detect(sg)
	if err == nil {
		err = checkPartition(sg, result)
	}
	if err != nil {
		logger.Warn("community detection failed, using single community",
			logging.Method(d.Name()),
			logging.Error(fmt.Errorf("%w: %w", ErrDetectionUnavailable, err)))
		return fallbackResult(sg)
	}

	return result
}

func fallbackResult(sg *cooccurrence.Subgraph) *CommunityDetectionResult {
	r := SingleCommunity(sg)
	r.Fallback = true
	return r
}

// SingleCommunity places every node in community 0.
func SingleCommunity(sg *cooccurrence.Subgraph) *CommunityDetectionResult {
	all := make([]int, sg.Len())
	for i := range all {
		all[i] = i
	}
	r := buildResult(sg, [][]int{all})
	r.Method = MethodSingle
	return r
}

// Modularity computes the weighted modularity of a partition given as node
// index groups. A subgraph without edge weight has modularity 0.
func Modularity(sg *cooccurrence.Subgraph, groups [][]int) float64 {
	if sg.TotalWeight() == 0 {
		return 0
	}
	communities := make([][]graph.Node, len(groups))
	for c, members := range groups {
		communities[c] = make([]graph.Node, len(members))
		for k, i := range members {
			communities[c][k] = simple.Node(i)
		}
	}
	return community.Q(sg.WeightedUndirected(), communities, 1)
}

// buildResult orders groups by size descending, ties by smallest member
// index, and numbers them from zero in that order.
func buildResult(sg *cooccurrence.Subgraph, groups [][]int) *CommunityDetectionResult {
	ordered := make([][]int, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		members := append([]int(nil), g...)
		sort.Ints(members)
		ordered = append(ordered, members)
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		if len(ordered[a]) != len(ordered[b]) {
			return len(ordered[a]) > len(ordered[b])
		}
		return ordered[a][0] < ordered[b][0]
	})

	result := &CommunityDetectionResult{
		Communities:   make([]*Community, len(ordered)),
		NodeCommunity: make(map[string]int, sg.Len()),
		Modularity:    Modularity(sg, ordered),
	}

	for id, members := range ordered {
		c := &Community{
			ID:      id,
			Nodes:   make([]string, len(members)),
			Size:    len(members),
			Density: density(sg, members),
		}
		for k, i := range members {
			word := sg.Node(i)
			c.Nodes[k] = word
			result.NodeCommunity[word] = id
		}
		result.Communities[id] = c
	}

	return result
}

// density is intra-community edges over possible pairs; 0 for singletons.
func density(sg *cooccurrence.Subgraph, members []int) float64 {
	if len(members) < 2 {
		return 0
	}
	in := make(map[int]bool, len(members))
	for _, i := range members {
		in[i] = true
	}
	edges := 0
	for _, i := range members {
		for _, j := range sg.Neighbors(i) {
			if i < j && in[j] {
				edges++
			}
		}
	}
	possible := len(members) * (len(members) - 1) / 2
	return float64(edges) / float64(possible)
}

func checkPartition(sg *cooccurrence.Subgraph, r *CommunityDetectionResult) error {
	if r == nil {
		return fmt.Errorf("detector returned no result")
	}
	seen := make(map[string]bool, sg.Len())
	for _, c := range r.Communities {
		for _, w := range c.Nodes {
			if seen[w] {
				return fmt.Errorf("node %q assigned to more than one community", w)
			}
			if _, ok := sg.Index(w); !ok {
				return fmt.Errorf("unknown node %q in community %d", w, c.ID)
			}
			seen[w] = true
		}
	}
	if len(seen) != sg.Len() {
		return fmt.Errorf("partition covers %d of %d nodes", len(seen), sg.Len())
	}
	return nil
}
