package visualization

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
)

// NewLayout returns the layout registered under method. An empty method
// selects Kamada-Kawai.
func NewLayout(method string, config LayoutConfig) (Layout, error) {
	switch method {
	case "", MethodKamadaKawai:
		return NewKamadaKawaiLayout(config), nil
	case MethodSpring:
		return NewForceDirectedLayout(config), nil
	case MethodCircular:
		return NewCircularLayout(), nil
	default:
		return nil, fmt.Errorf("unknown layout method %q", method)
	}
}

// FallbackLayout tries Primary, then Fallback, then a circle, and maps the
// first usable result onto the canvas.
type FallbackLayout struct {
	Primary  Layout
	Fallback Layout
	config   LayoutConfig
	logger   logging.Logger
}

// NewFallbackLayout uses Kamada-Kawai as primary and the spring layout as fallback.
func NewFallbackLayout(config LayoutConfig, logger logging.Logger) *FallbackLayout {
	config = config.withDefaults()
	return &FallbackLayout{
		Primary:  NewKamadaKawaiLayout(config),
		Fallback: NewForceDirectedLayout(config),
		config:   config,
		logger:   logging.OrDefault(logger),
	}
}

// WithPrimary replaces the primary layout.
func (f *FallbackLayout) WithPrimary(l Layout) *FallbackLayout {
	f.Primary = l
	return f
}

// Compute always yields one finite canvas position per node of sg. The only
// error is the context's, when it is already done on entry.
func (f *FallbackLayout) Compute(ctx context.Context, sg *cooccurrence.Subgraph) (*LayoutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &LayoutResult{}
	chain := []Layout{f.Primary, f.Fallback, NewCircularLayout()}

	for step, layout := range chain {
		if layout == nil {
			continue
		}

		positions, err := layout.ComputeLayout(ctx, sg)
		if err == nil && (len(positions) != sg.Len() || !allFinite(positions)) {
			err = ErrLayoutDivergence
		}
		if err != nil {
			if !errors.Is(err, ErrLayoutDivergence) {
				err = fmt.Errorf("%w: %w", ErrLayoutDivergence, err)
			}
			if result.Cause == nil {
				result.Cause = err
			}
			f.logger.Warn("layout failed, falling back",
				logging.Method(layout.Name()),
				logging.Nodes(sg.Len()),
				logging.Error(err))
			continue
		}

		result.Positions = normalizePositions(positions, f.config.Width, f.config.Height, f.config.Padding)
		result.Method = layout.Name()
		result.Fallback = step > 0
		return result, nil
	}

	// unreachable: the circular layout cannot fail
	result.Positions = normalizePositions(circle(sg.Len()), f.config.Width, f.config.Height, f.config.Padding)
	result.Method = MethodCircular
	result.Fallback = true
	return result, nil
}
