package cooccurrence

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

// Subgraph is the graph induced by a set of selected edges. Node i of the
// gonum views has ID i and corresponds to Nodes()[i].
type Subgraph struct {
	nodes    []string
	index    map[string]int
	edges    []Edge
	adj      [][]int
	weights  []map[int]float64
	strength []float64
	total    float64
}

// SelectTopEdges keeps the n heaviest edges of g. Ties keep enumeration
// order. Nodes of the result are the endpoints of the kept edges, listed in
// order of first appearance in the kept edge list.
func SelectTopEdges(g *Graph, n int) (*Subgraph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: top edge cap must be at least 1, got %d",
			validation.ErrInvalidConfiguration, n)
	}
	if g == nil || g.Empty() {
		return nil, ErrInsufficientData
	}

	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if len(edges) > n {
		edges = edges[:n]
	}

	return FromEdges(edges)
}

// FromEdges builds a subgraph from an explicit edge list. Self loops,
// duplicate pairs and non-positive weights are rejected.
func FromEdges(edges []Edge) (*Subgraph, error) {
	if len(edges) == 0 {
		return nil, ErrInsufficientData
	}

	sg := &Subgraph{
		index: make(map[string]int),
		edges: make([]Edge, 0, len(edges)),
	}

	nodeID := func(w string) int {
		if id, ok := sg.index[w]; ok {
			return id
		}
		id := len(sg.nodes)
		sg.index[w] = id
		sg.nodes = append(sg.nodes, w)
		sg.adj = append(sg.adj, nil)
		sg.weights = append(sg.weights, make(map[int]float64))
		sg.strength = append(sg.strength, 0)
		return id
	}

	for _, e := range edges {
		if e.Source == e.Target {
			return nil, fmt.Errorf("self loop on %q", e.Source)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("edge %q-%q has non-positive weight %d", e.Source, e.Target, e.Weight)
		}
		u, v := nodeID(e.Source), nodeID(e.Target)
		if _, dup := sg.weights[u][v]; dup {
			return nil, fmt.Errorf("duplicate edge %q-%q", e.Source, e.Target)
		}

		w := float64(e.Weight)
		sg.adj[u] = append(sg.adj[u], v)
		sg.adj[v] = append(sg.adj[v], u)
		sg.weights[u][v] = w
		sg.weights[v][u] = w
		sg.strength[u] += w
		sg.strength[v] += w
		sg.total += w
		sg.edges = append(sg.edges, e)
	}

	return sg, nil
}

// Nodes returns the node words in index order.
func (sg *Subgraph) Nodes() []string {
	return append([]string(nil), sg.nodes...)
}

// Edges returns the kept edges in selection order.
func (sg *Subgraph) Edges() []Edge {
	return append([]Edge(nil), sg.edges...)
}

func (sg *Subgraph) Len() int { return len(sg.nodes) }

func (sg *Subgraph) EdgeCount() int { return len(sg.edges) }

// Node returns the word at index i.
func (sg *Subgraph) Node(i int) string { return sg.nodes[i] }

// Index returns the index of word.
func (sg *Subgraph) Index(word string) (int, bool) {
	i, ok := sg.index[word]
	return i, ok
}

// Neighbors returns the neighbor indices of node i in edge order.
func (sg *Subgraph) Neighbors(i int) []int {
	return sg.adj[i]
}

// Degree is the number of edges incident to node i.
func (sg *Subgraph) Degree(i int) int {
	return len(sg.adj[i])
}

// WeightedDegree is the sum of the weights of edges incident to node i.
func (sg *Subgraph) WeightedDegree(i int) float64 {
	return sg.strength[i]
}

// Weight returns the weight between nodes i and j, 0 when not adjacent.
func (sg *Subgraph) Weight(i, j int) float64 {
	return sg.weights[i][j]
}

// TotalWeight is the sum of all edge weights (m in modularity terms).
func (sg *Subgraph) TotalWeight() float64 {
	return sg.total
}

// Undirected returns an unweighted gonum view of the subgraph.
func (sg *Subgraph) Undirected() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range sg.nodes {
		g.AddNode(simple.Node(i))
	}
	for u, nbrs := range sg.adj {
		for _, v := range nbrs {
			if u < v {
				g.SetEdge(g.NewEdge(simple.Node(u), simple.Node(v)))
			}
		}
	}
	return g
}

// WeightedUndirected returns a weighted gonum view of the subgraph.
func (sg *Subgraph) WeightedUndirected() *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range sg.nodes {
		g.AddNode(simple.Node(i))
	}
	for u, nbrs := range sg.adj {
		for _, v := range nbrs {
			if u < v {
				g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), sg.weights[u][v]))
			}
		}
	}
	return g
}
