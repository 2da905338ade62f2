package visualization

import (
	"context"
	"errors"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

// ErrLayoutDivergence means a layout could not produce finite coordinates
// for every node. FallbackLayout recovers from it.
var ErrLayoutDivergence = errors.New("layout diverged")

// Layout method names
const (
	MethodKamadaKawai = "kamada_kawai"
	MethodSpring      = "spring"
	MethodCircular    = "circular"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 // Canvas width
	Height  float64 // Canvas height
	Padding float64 // Padding from edges

	Iterations       int     // Spring layout iterations
	StressIterations int     // Kamada-Kawai optimizer iterations
	Repulsion        float64 // Spring optimal distance k
	Seed             int64   // Seed for the spring layout's initial positions
}

// DefaultLayoutConfig returns a 1000x600 canvas with the spring layout at
// k=1 and 50 iterations.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:            1000,
		Height:           600,
		Padding:          50,
		Iterations:       50,
		StressIterations: 500,
		Repulsion:        1,
		Seed:             42,
	}
}

func (c LayoutConfig) withDefaults() LayoutConfig {
	d := DefaultLayoutConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Padding < 0 || 2*c.Padding >= c.Width || 2*c.Padding >= c.Height {
		c.Padding = 0
	}
	c.Iterations = validation.DefaultOrInt(c.Iterations, d.Iterations)
	c.StressIterations = validation.DefaultOrInt(c.StressIterations, d.StressIterations)
	if c.Repulsion <= 0 {
		c.Repulsion = d.Repulsion
	}
	return c
}

// Layout computes raw positions aligned with sg.Nodes(). Coordinates are only
// meaningful relative to each other.
type Layout interface {
	Name() string
	ComputeLayout(ctx context.Context, sg *cooccurrence.Subgraph) ([]Position, error)
}

// LayoutResult is a layout mapped onto the canvas.
type LayoutResult struct {
	Positions []Position
	Method    string
	Fallback  bool
	// Cause is why the primary layout was abandoned, nil when it succeeded.
	Cause error
}
