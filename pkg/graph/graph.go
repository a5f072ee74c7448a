// Package graph implements the routable street graph consumed by the
// synthesis pipeline.
//
// A Graph is an undirected weighted multigraph: nodes carry exact projected
// coordinates, edges carry a scalar weight (geometric length unless the
// source supplies a different cost) and are identified by their own edge ID,
// so parallel edges between the same node pair remain distinct.
//
// The zero value is not usable; use New. Graph is not safe for concurrent
// mutation; the synthesis pipeline only reads it.
package graph

import (
	"errors"
	"maps"
	"slices"

	"github.com/hausweber/heatnet/pkg/geom"
)

var (
	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdge = errors.New("duplicate edge ID")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when either endpoint
	// node does not exist, or by [Graph.Validate] when a stored edge
	// references a missing node.
	ErrUnknownEndpoint = errors.New("edge references unknown node")

	// ErrEmptyGraph is returned by [Graph.Validate] for a graph with zero
	// nodes or zero edges.
	ErrEmptyGraph = errors.New("graph has no nodes or no edges")

	// ErrNoNodes is returned by [Graph.NearestNode] on an empty graph.
	ErrNoNodes = errors.New("graph has no nodes")
)

// Node is a graph vertex with an exact projected coordinate.
// Nodes are immutable once added.
type Node struct {
	ID  int64
	Pos geom.Point
}

// Edge is an undirected connection between two nodes. Weight is the routing
// cost; AddEdge fills it with the geometric length when it is not positive.
type Edge struct {
	ID     int64
	From   int64
	To     int64
	Weight float64
}

// Other returns the endpoint of e opposite to node id.
func (e Edge) Other(id int64) int64 {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Graph is a routable street graph.
type Graph struct {
	nodes    map[int64]Node
	edges    map[int64]Edge
	incident map[int64][]int64 // node ID -> incident edge IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[int64]Node),
		edges:    make(map[int64]Edge),
		incident: make(map[int64][]int64),
	}
}

// AddNode adds a node. Returns ErrDuplicateNode if the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNode
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge adds an edge between two existing nodes. A non-positive weight is
// replaced by the straight-line distance between the endpoints.
func (g *Graph) AddEdge(e Edge) error {
	if _, exists := g.edges[e.ID]; exists {
		return ErrDuplicateEdge
	}
	from, okF := g.nodes[e.From]
	to, okT := g.nodes[e.To]
	if !okF || !okT {
		return ErrUnknownEndpoint
	}
	if e.Weight <= 0 {
		e.Weight = from.Pos.Dist(to.Pos)
	}
	g.edges[e.ID] = e
	g.incident[e.From] = append(g.incident[e.From], e.ID)
	g.incident[e.To] = append(g.incident[e.To], e.ID)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int64) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id int64) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []Node {
	ids := slices.Sorted(maps.Keys(g.nodes))
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns all edges sorted by edge ID. The deterministic order matters:
// the edge-split connector's first-edge-wins tie-break depends on it.
func (g *Graph) Edges() []Edge {
	ids := slices.Sorted(maps.Keys(g.edges))
	edges := make([]Edge, len(ids))
	for i, id := range ids {
		edges[i] = g.edges[id]
	}
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Incident returns the IDs of edges touching the node.
// The returned slice is a read-only view.
func (g *Graph) Incident(id int64) []int64 { return g.incident[id] }

// Degree returns the number of edges touching the node.
func (g *Graph) Degree(id int64) int { return len(g.incident[id]) }

// Segment returns the straight-line geometry of an edge, built from the
// stored endpoint coordinates.
func (g *Graph) Segment(e Edge) geom.Segment {
	return geom.Segment{A: g.nodes[e.From].Pos, B: g.nodes[e.To].Pos}
}

// NearestNode returns the node closest to p by Euclidean distance.
// Exact distance ties are broken by the smallest node ID, which Nodes'
// sorted iteration order guarantees.
func (g *Graph) NearestNode(p geom.Point) (Node, error) {
	if len(g.nodes) == 0 {
		return Node{}, ErrNoNodes
	}
	var best Node
	bestDist := -1.0
	for _, n := range g.Nodes() {
		d := n.Pos.Dist(p)
		if bestDist < 0 || d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best, nil
}

// Validate checks structural integrity: at least one node and one edge, and
// every edge referencing existing nodes.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 || len(g.edges) == 0 {
		return ErrEmptyGraph
	}
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return ErrUnknownEndpoint
		}
		if _, ok := g.nodes[e.To]; !ok {
			return ErrUnknownEndpoint
		}
	}
	return nil
}
