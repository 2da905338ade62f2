package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// ConnectedComponents treats every connected component as one community.
type ConnectedComponents struct{}

func (ConnectedComponents) Name() string { return MethodConnectedComponents }

// Detect finds all connected components with a BFS from each unvisited node
// in index order.
func (ConnectedComponents) Detect(sg *cooccurrence.Subgraph) (*CommunityDetectionResult, error) {
	n := sg.Len()
	visited := make([]bool, n)
	groups := make([][]int, 0)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := make([]int, 0)
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			node, ok := queue.Remove(queue.Front()).(int)
			if !ok {
				continue
			}
			component = append(component, node)

			for _, nb := range sg.Neighbors(node) {
				if !visited[nb] {
					visited[nb] = true
					queue.PushBack(nb)
				}
			}
		}

		groups = append(groups, component)
	}

	result := buildResult(sg, groups)
	result.Method = MethodConnectedComponents
	return result, nil
}
