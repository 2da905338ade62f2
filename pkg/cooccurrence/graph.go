// Package cooccurrence builds undirected word co-occurrence graphs from
// tokenized documents and prunes them to their heaviest edges.
package cooccurrence

import (
	"errors"
)

// ErrInsufficientData signals that no edge survived thresholding or selection.
// It is a normal "nothing to visualize" outcome, not a failure.
var ErrInsufficientData = errors.New("insufficient data: no co-occurring word pairs")

// Edge is an undirected word pair with the number of documents containing both words.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

type pairKey struct {
	a, b int // global first-seen word indices, a < b
}

// Graph is an immutable co-occurrence graph. Nodes are listed in global
// first-seen order and edges in the order their pairs were first enumerated.
type Graph struct {
	nodes []string
	index map[string]int
	edges []Edge
	pos   map[[2]string]int
}

func newGraph(nodes []string, edges []Edge) *Graph {
	g := &Graph{
		nodes: nodes,
		index: make(map[string]int, len(nodes)),
		edges: edges,
		pos:   make(map[[2]string]int, len(edges)),
	}
	for i, n := range nodes {
		g.index[n] = i
	}
	for i, e := range edges {
		g.pos[[2]string{e.Source, e.Target}] = i
	}
	return g
}

// Nodes returns the words that are endpoints of at least one edge.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Edges returns a copy of the edge list in enumeration order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether word is part of the graph.
func (g *Graph) HasNode(word string) bool {
	_, ok := g.index[word]
	return ok
}

// Weight returns the weight of the edge between a and b in either
// orientation, or 0 when there is none.
func (g *Graph) Weight(a, b string) int {
	if i, ok := g.pos[[2]string{a, b}]; ok {
		return g.edges[i].Weight
	}
	if i, ok := g.pos[[2]string{b, a}]; ok {
		return g.edges[i].Weight
	}
	return 0
}

// Empty reports whether the graph has no edges.
func (g *Graph) Empty() bool {
	return len(g.edges) == 0
}
