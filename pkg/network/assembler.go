package network

import (
	"github.com/dd0wney/cluso-textnet/pkg/algorithms"
	"github.com/dd0wney/cluso-textnet/pkg/cooccurrence"
	"github.com/dd0wney/cluso-textnet/pkg/visualization"
)

// Assembler turns the per-stage outputs into render-ready nodes, edges and groups.
type Assembler struct {
	PaletteSize    int
	NodeSizeBase   float64
	NodeSizeScale  float64
	EdgeWidthBase  float64
	EdgeWidthScale float64
}

// NewAssembler takes the styling settings from cfg.
func NewAssembler(cfg Config) Assembler {
	return Assembler{
		PaletteSize:    cfg.PaletteSize,
		NodeSizeBase:   cfg.NodeSizeBase,
		NodeSizeScale:  cfg.NodeSizeScale,
		EdgeWidthBase:  cfg.EdgeWidthBase,
		EdgeWidthScale: cfg.EdgeWidthScale,
	}
}

// Assemble joins sg with its communities, centrality and layout. Nodes keep
// the subgraph's order and edges keep the selection order. Words missing
// from dictionary, or mapped to "", are labelled with themselves.
func (a Assembler) Assemble(
	sg *cooccurrence.Subgraph,
	communities *algorithms.CommunityDetectionResult,
	centrality map[string]float64,
	layout *visualization.LayoutResult,
	dictionary map[string]string,
) *Result {
	result := &Result{
		Status:            StatusOK,
		Nodes:             make([]RenderNode, sg.Len()),
		Edges:             make([]RenderEdge, sg.EdgeCount()),
		Groups:            make([]Group, len(communities.Communities)),
		Modularity:        communities.Modularity,
		DetectionMethod:   communities.Method,
		DetectionFallback: communities.Fallback,
		LayoutMethod:      layout.Method,
		LayoutFallback:    layout.Fallback,
	}

	for i, word := range sg.Nodes() {
		group := communities.NodeCommunity[word]
		c := centrality[word]
		result.Nodes[i] = RenderNode{
			ID:         word,
			Label:      label(word, dictionary),
			X:          layout.Positions[i].X,
			Y:          layout.Positions[i].Y,
			Group:      group,
			ColorIndex: a.color(group),
			Centrality: c,
			Size:       a.NodeSizeBase + c*a.NodeSizeScale,
		}
	}

	for i, e := range sg.Edges() {
		result.Edges[i] = RenderEdge{
			Source: e.Source,
			Target: e.Target,
			Weight: e.Weight,
			Width:  a.EdgeWidthBase + float64(e.Weight)*a.EdgeWidthScale,
		}
	}

	for i, c := range communities.Communities {
		result.Groups[i] = Group{
			ID:         c.ID,
			Members:    append([]string(nil), c.Nodes...),
			Size:       c.Size,
			Density:    c.Density,
			ColorIndex: a.color(c.ID),
		}
	}

	return result
}

func (a Assembler) color(group int) int {
	if a.PaletteSize <= 0 {
		return group
	}
	return group % a.PaletteSize
}

func label(word string, dictionary map[string]string) string {
	if l, ok := dictionary[word]; ok && l != "" {
		return l
	}
	return word
}
