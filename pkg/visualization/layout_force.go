package visualization

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// componentGap separates packed components, in unit-scale coordinates.
const componentGap = 0.5

// ForceDirectedLayout implements the Fruchterman-Reingold spring layout.
// Each connected component is laid out on its own and the components are
// packed left to right, so disjoint clusters never overlap.
type ForceDirectedLayout struct {
	config LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config LayoutConfig) *ForceDirectedLayout {
	return &ForceDirectedLayout{config: config.withDefaults()}
}

func (*ForceDirectedLayout) Name() string { return MethodSpring }

// ComputeLayout computes positions using the force-directed algorithm. A
// cancelled context stops the iterations early; positions stay finite.
func (fdl *ForceDirectedLayout) ComputeLayout(ctx context.Context, sg *cooccurrence.Subgraph) ([]Position, error) {
	n := sg.Len()
	positions := make([]Position, n)
	if n <= 1 {
		return positions, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))
	cursor := 0.0

	for _, component := range components(sg) {
		local := fdl.spring(ctx, sg, component, rng)
		rescale(local, 1)

		minX, maxX, _, _ := bounds(local)
		for k, node := range component {
			positions[node] = Position{
				X: local[k].X - minX + cursor,
				Y: local[k].Y,
			}
		}
		cursor += maxX - minX + componentGap
	}

	if !allFinite(positions) {
		return nil, ErrLayoutDivergence
	}
	return positions, nil
}

// components returns connected components as sorted node index lists,
// ordered by their smallest index.
func components(sg *cooccurrence.Subgraph) [][]int {
	ccs := topo.ConnectedComponents(sg.Undirected())

	out := make([][]int, len(ccs))
	for c, cc := range ccs {
		out[c] = make([]int, len(cc))
		for k, node := range cc {
			out[c][k] = int(node.ID())
		}
		sort.Ints(out[c])
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

// spring runs Fruchterman-Reingold on one component, starting from seeded
// random positions in the unit square.
func (fdl *ForceDirectedLayout) spring(ctx context.Context, sg *cooccurrence.Subgraph, nodes []int, rng *rand.Rand) []Position {
	n := len(nodes)
	positions := make([]Position, n)
	for i := range positions {
		positions[i] = Position{X: rng.Float64(), Y: rng.Float64()}
	}
	if n == 1 {
		positions[0] = Position{}
		return positions
	}

	k := fdl.config.Repulsion // Optimal distance
	iterations := fdl.config.Iterations
	temperature := 0.1
	cooling := temperature / float64(iterations+1)

	for iter := 0; iter < iterations; iter++ {
		if ctx.Err() != nil {
			break
		}

		forces := make([]Position, n)

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				// repulsion k²/d, attraction w·d²/k along the edge
				force := k*k/(dist*dist) - sg.Weight(nodes[i], nodes[j])*dist/k
				fx := dx * force
				fy := dy * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Apply forces with cooling
		for i := range positions {
			length := math.Max(math.Hypot(forces[i].X, forces[i].Y), 0.01)
			positions[i].X += forces[i].X * temperature / length
			positions[i].Y += forces[i].Y * temperature / length
		}

		temperature -= cooling
	}

	return positions
}
