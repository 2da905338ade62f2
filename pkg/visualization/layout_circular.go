package visualization

import (
	"context"
	"math"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
)

// CircularLayout arranges nodes in index order on the unit circle
type CircularLayout struct{}

// NewCircularLayout creates a new circular layout
func NewCircularLayout() *CircularLayout {
	return &CircularLayout{}
}

func (*CircularLayout) Name() string { return MethodCircular }

// ComputeLayout arranges nodes in a circle. It never fails.
func (*CircularLayout) ComputeLayout(_ context.Context, sg *cooccurrence.Subgraph) ([]Position, error) {
	return circle(sg.Len()), nil
}

func circle(n int) []Position {
	positions := make([]Position, n)
	if n == 1 {
		return positions
	}

	angleStep := 2 * math.Pi / float64(n)
	for i := range positions {
		angle := float64(i) * angleStep
		positions[i] = Position{
			X: math.Cos(angle),
			Y: math.Sin(angle),
		}
	}
	return positions
}
