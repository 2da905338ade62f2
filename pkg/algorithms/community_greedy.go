package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// mergeEpsilon absorbs rounding noise so that a zero gain is not taken as positive.
const mergeEpsilon = 1e-12

// GreedyModularity is the Clauset-Newman-Moore agglomerative method on edge
// weights: start from singletons and keep merging the adjacent pair with the
// largest modularity gain while that gain is positive.
type GreedyModularity struct {
	// MaxMerges caps the number of merges. Zero means n-1.
	MaxMerges int
}

func (GreedyModularity) Name() string { return MethodGreedyModularity }

// Detect partitions sg. Ties between equal gains go to the pair with the
// lowest community indices, so results are reproducible.
func (g GreedyModularity) Detect(sg *cooccurrence.Subgraph) (*CommunityDetectionResult, error) {
	n := sg.Len()
	m := sg.TotalWeight()

	members := make([][]int, n)
	degree := make([]float64, n)
	links := make([]map[int]float64, n)
	alive := make([]bool, n)

	for i := 0; i < n; i++ {
		members[i] = []int{i}
		degree[i] = sg.WeightedDegree(i)
		links[i] = make(map[int]float64)
		alive[i] = true
		for _, j := range sg.Neighbors(i) {
			links[i][j] += sg.Weight(i, j)
		}
	}

	maxMerges := g.MaxMerges
	if maxMerges <= 0 || maxMerges > n-1 {
		maxMerges = n - 1
	}

	for merges := 0; m > 0 && merges < maxMerges; merges++ {
		bestA, bestB := -1, -1
		bestGain := 0.0

		for a := 0; a < n; a++ {
			if !alive[a] {
				continue
			}
			for _, b := range sortedKeys(links[a]) {
				if b <= a {
					continue
				}
				gain := links[a][b]/m - degree[a]*degree[b]/(2*m*m)
				if bestA < 0 || gain > bestGain+mergeEpsilon {
					bestA, bestB, bestGain = a, b, gain
				}
			}
		}

		if bestA < 0 || bestGain <= mergeEpsilon {
			break
		}

		// merge bestB into bestA
		members[bestA] = append(members[bestA], members[bestB]...)
		degree[bestA] += degree[bestB]
		for d, w := range links[bestB] {
			delete(links[d], bestB)
			if d == bestA {
				continue
			}
			links[bestA][d] += w
			links[d][bestA] += w
		}
		delete(links[bestA], bestB)
		links[bestB] = nil
		members[bestB] = nil
		alive[bestB] = false
	}

	groups := make([][]int, 0, n)
	for c := 0; c < n; c++ {
		if alive[c] {
			groups = append(groups, members[c])
		}
	}

	result := buildResult(sg, groups)
	result.Method = MethodGreedyModularity
	return result, nil
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
