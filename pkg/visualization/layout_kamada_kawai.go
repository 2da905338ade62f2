package visualization

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/optimize"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// centringWeight pulls the mean position toward the origin so the optimum is unique.
const centringWeight = 1e-3

// KamadaKawaiLayout places nodes so that Euclidean distances approximate
// shortest-path hop distances, minimising the stress energy with L-BFGS.
type KamadaKawaiLayout struct {
	config LayoutConfig
}

// NewKamadaKawaiLayout creates a new stress-minimising layout
func NewKamadaKawaiLayout(config LayoutConfig) *KamadaKawaiLayout {
	return &KamadaKawaiLayout{config: config.withDefaults()}
}

func (*KamadaKawaiLayout) Name() string { return MethodKamadaKawai }

// ComputeLayout returns ErrLayoutDivergence for disconnected subgraphs and
// whenever the optimizer ends on non-finite or worse-than-initial positions.
func (kk *KamadaKawaiLayout) ComputeLayout(ctx context.Context, sg *cooccurrence.Subgraph) ([]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := sg.Len()
	if n <= 1 {
		return make([]Position, n), nil
	}

	dist, err := hopDistances(sg)
	if err != nil {
		return nil, err
	}

	x0 := make([]float64, 2*n)
	for i, p := range circle(n) {
		x0[2*i] = p.X
		x0[2*i+1] = p.Y
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return stress(x, dist, nil) },
		Grad: func(grad, x []float64) { stress(x, dist, grad) },
	}
	settings := &optimize.Settings{
		MajorIterations:   kk.config.StressIterations,
		GradientThreshold: 1e-6,
	}

	initial := stress(x0, dist, nil)
	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("%w: %w", ErrLayoutDivergence, err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, fmt.Errorf("%w: non-finite stress", ErrLayoutDivergence)
	}
	// line search stalls are reported as errors even when the location improved
	if err != nil && result.F > initial {
		return nil, fmt.Errorf("%w: %w", ErrLayoutDivergence, err)
	}

	positions := make([]Position, n)
	for i := range positions {
		positions[i] = Position{X: result.X[2*i], Y: result.X[2*i+1]}
	}
	if !allFinite(positions) {
		return nil, fmt.Errorf("%w: non-finite coordinates", ErrLayoutDivergence)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return positions, nil
}

// hopDistances returns all-pairs unweighted shortest path lengths.
func hopDistances(sg *cooccurrence.Subgraph) ([][]float64, error) {
	n := sg.Len()
	paths, _ := path.FloydWarshall(sg.Undirected())

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == j {
				continue
			}
			d := paths.Weight(int64(i), int64(j))
			if math.IsInf(d, 0) || math.IsNaN(d) {
				return nil, fmt.Errorf("%w: %q and %q are not connected", ErrLayoutDivergence, sg.Node(i), sg.Node(j))
			}
			dist[i][j] = d
		}
	}
	return dist, nil
}

// stress evaluates 0.5·Σ(|pi-pj|/dij - 1)² over ordered pairs plus the
// centring term, writing the gradient into grad when it is non-nil.
func stress(x []float64, dist [][]float64, grad []float64) float64 {
	n := len(dist)
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}

	cost := 0.0
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		xi, yi := x[2*i], x[2*i+1]
		sumX += xi
		sumY += yi

		for j := i + 1; j < n; j++ {
			dx := xi - x[2*j]
			dy := yi - x[2*j+1]
			sep := math.Hypot(dx, dy)
			offset := sep/dist[i][j] - 1

			// both (i,j) and (j,i) contribute 0.5·offset²
			cost += offset * offset

			if grad != nil && sep > 1e-12 {
				g := 2 * offset / (dist[i][j] * sep)
				grad[2*i] += g * dx
				grad[2*i+1] += g * dy
				grad[2*j] -= g * dx
				grad[2*j+1] -= g * dy
			}
		}
	}

	cost += 0.5 * centringWeight * (sumX*sumX + sumY*sumY)
	if grad != nil {
		for i := 0; i < n; i++ {
			grad[2*i] += centringWeight * sumX
			grad[2*i+1] += centringWeight * sumY
		}
	}

	return cost
}
