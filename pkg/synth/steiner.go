package synth

import (
	"maps"
	"slices"
	"sort"

	"github.com/hausweber/heatnet/pkg/errors"
	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
)

// Tree is the Steiner subtree connecting all terminal-nearest graph nodes.
// It is undirected, connected and acyclic; every tree edge keeps the
// original graph edge's identity and geometry.
type Tree struct {
	nodes map[int64]graph.Node
	edges map[int64]graph.Edge

	// terminalNodes are the distinct terminal-nearest node IDs, sorted.
	terminalNodes []int64
}

// Nodes returns the tree nodes sorted by ID.
func (t *Tree) Nodes() []graph.Node {
	ids := slices.Sorted(maps.Keys(t.nodes))
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = t.nodes[id]
	}
	return nodes
}

// Edges returns the tree edges sorted by edge ID. The deterministic order is
// load-bearing: the edge-split connector resolves exact distance ties in
// favor of the first edge scanned.
func (t *Tree) Edges() []graph.Edge {
	ids := slices.Sorted(maps.Keys(t.edges))
	edges := make([]graph.Edge, len(ids))
	for i, id := range ids {
		edges[i] = t.edges[id]
	}
	return edges
}

// Node returns the tree node with the given ID.
func (t *Tree) Node(id int64) (graph.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// NodeCount returns the number of tree nodes.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of tree edges.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// TerminalNodes returns the distinct terminal-nearest node IDs, sorted.
func (t *Tree) TerminalNodes() []int64 { return t.terminalNodes }

// Segment returns the straight-line geometry of a tree edge, rebuilt from
// the stored node coordinates.
func (t *Tree) Segment(e graph.Edge) geom.Segment {
	return geom.Segment{A: t.nodes[e.From].Pos, B: t.nodes[e.To].Pos}
}

// BuildSteinerTree computes an approximate minimum-weight subtree of g
// connecting the nearest graph node of every terminal.
//
// The construction is the classic metric-closure approximation: shortest
// paths between all terminal nodes, a minimum spanning tree of the resulting
// closure, expansion of closure edges back to graph paths, a spanning tree of
// the union, and removal of non-terminal leaves.
//
// Errors are fatal and leave no partial output: an empty graph or terminal
// set is an input-validation error, unreachable terminal nodes are a
// connectivity error, and a zero-length tree edge is a geometry error.
func BuildSteinerTree(g *graph.Graph, terminals []Terminal) (*Tree, error) {
	if len(terminals) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTerminals, "no terminals to connect")
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEmptyGraph, err, "street graph unusable")
	}

	termNodes, err := mapTerminalsToNodes(g, terminals)
	if err != nil {
		return nil, err
	}

	tree := &Tree{
		nodes:         make(map[int64]graph.Node),
		edges:         make(map[int64]graph.Edge),
		terminalNodes: termNodes,
	}

	if len(termNodes) == 1 {
		n, _ := g.Node(termNodes[0])
		tree.nodes[n.ID] = n
		// With a single terminal node the subtree itself has no edges, which
		// leaves the connector nothing to split. Pull in each terminal's
		// nearest graph edge so attachment points can land on real geometry.
		if err := tree.addNearestEdges(g, terminals); err != nil {
			return nil, err
		}
		return tree, nil
	}

	// Shortest paths from every terminal node.
	paths := make(map[int64]*graph.Paths, len(termNodes))
	for _, id := range termNodes {
		paths[id] = g.ShortestPaths(id)
	}

	closure, err := metricClosure(termNodes, paths)
	if err != nil {
		return nil, err
	}

	// Union of the shortest paths realizing the closure MST.
	union := make(map[int64]graph.Edge)
	for _, ce := range primMST(termNodes, closure) {
		for _, edgeID := range paths[ce.from].EdgePath(ce.to) {
			e, _ := g.Edge(edgeID)
			union[e.ID] = e
		}
	}

	for _, e := range spanningTree(union) {
		tree.edges[e.ID] = e
		for _, nodeID := range []int64{e.From, e.To} {
			if _, ok := tree.nodes[nodeID]; !ok {
				n, _ := g.Node(nodeID)
				tree.nodes[nodeID] = n
			}
		}
	}

	tree.pruneNonTerminalLeaves()

	for _, e := range tree.Edges() {
		if tree.Segment(e).IsDegenerate() {
			return nil, errors.New(errors.ErrCodeDegenerateEdge,
				"tree edge %d has coincident endpoints at (%v, %v)",
				e.ID, tree.nodes[e.From].Pos.X, tree.nodes[e.From].Pos.Y)
		}
	}

	return tree, nil
}

// addNearestEdges adds, for each terminal, the closest graph edge incident to
// the sole tree node. Ties go to the lowest edge ID. Restricting the search to
// incident edges keeps the tree connected; running the picks through the
// spanning-tree filter keeps it acyclic when parallel edges tie.
func (t *Tree) addNearestEdges(g *graph.Graph, terminals []Terminal) error {
	nodeID := t.terminalNodes[0]
	picked := make(map[int64]graph.Edge)
	for _, term := range terminals {
		bestID := int64(-1)
		bestDist := 0.0
		for _, edgeID := range slices.Sorted(slices.Values(g.Incident(nodeID))) {
			e, _ := g.Edge(edgeID)
			seg := geom.Segment{A: mustPos(g, e.From), B: mustPos(g, e.To)}
			if seg.IsDegenerate() {
				return errors.New(errors.ErrCodeDegenerateEdge,
					"edge %d has coincident endpoints at (%v, %v)", e.ID, seg.A.X, seg.A.Y)
			}
			if d := seg.DistTo(term.Pos); bestID < 0 || d < bestDist {
				bestID, bestDist = edgeID, d
			}
		}
		if bestID >= 0 {
			e, _ := g.Edge(bestID)
			picked[e.ID] = e
		}
	}
	for _, e := range spanningTree(picked) {
		t.edges[e.ID] = e
		for _, id := range []int64{e.From, e.To} {
			n, _ := g.Node(id)
			t.nodes[id] = n
		}
	}
	return nil
}

func mustPos(g *graph.Graph, nodeID int64) geom.Point {
	n, _ := g.Node(nodeID)
	return n.Pos
}

// mapTerminalsToNodes maps each terminal to its nearest graph node and
// returns the distinct node IDs sorted ascending.
func mapTerminalsToNodes(g *graph.Graph, terminals []Terminal) ([]int64, error) {
	seen := make(map[int64]bool, len(terminals))
	var ids []int64
	for _, t := range terminals {
		n, err := g.NearestNode(t.Pos)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeEmptyGraph, err, "terminal %s", t.ID)
		}
		if !seen[n.ID] {
			seen[n.ID] = true
			ids = append(ids, n.ID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// closureEdge is one pair distance in the terminal metric closure.
type closureEdge struct {
	from, to int64
	dist     float64
}

func metricClosure(termNodes []int64, paths map[int64]*graph.Paths) (map[int64]map[int64]float64, error) {
	closure := make(map[int64]map[int64]float64, len(termNodes))
	for _, u := range termNodes {
		closure[u] = make(map[int64]float64)
	}
	for i, u := range termNodes {
		for _, v := range termNodes[i+1:] {
			if !paths[u].Reachable(v) {
				return nil, errors.New(errors.ErrCodeDisconnectedGraph,
					"terminal node %d cannot reach terminal node %d", u, v)
			}
			d := paths[u].Dist[v]
			closure[u][v] = d
			closure[v][u] = d
		}
	}
	return closure, nil
}

// primMST computes the minimum spanning tree of the terminal metric closure.
// Ties are resolved by scan order over the sorted terminal node IDs, which
// keeps the result deterministic.
func primMST(termNodes []int64, closure map[int64]map[int64]float64) []closureEdge {
	inTree := map[int64]bool{termNodes[0]: true}
	var mst []closureEdge

	for len(mst) < len(termNodes)-1 {
		best := closureEdge{dist: -1}
		for _, u := range termNodes {
			if !inTree[u] {
				continue
			}
			for _, v := range termNodes {
				if inTree[v] {
					continue
				}
				if d := closure[u][v]; best.dist < 0 || d < best.dist {
					best = closureEdge{from: u, to: v, dist: d}
				}
			}
		}
		inTree[best.to] = true
		mst = append(mst, best)
	}
	return mst
}

// spanningTree removes cycles from the path union via Kruskal's algorithm,
// preferring lighter edges and lower IDs on equal weight.
func spanningTree(union map[int64]graph.Edge) []graph.Edge {
	edges := make([]graph.Edge, 0, len(union))
	for _, e := range union {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight < edges[j].Weight
		}
		return edges[i].ID < edges[j].ID
	})

	parent := make(map[int64]int64)
	var find func(int64) int64
	find = func(x int64) int64 {
		if _, ok := parent[x]; !ok {
			parent[x] = x
		}
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	var kept []graph.Edge
	for _, e := range edges {
		ra, rb := find(e.From), find(e.To)
		if ra == rb {
			continue
		}
		parent[ra] = rb
		kept = append(kept, e)
	}
	return kept
}

// pruneNonTerminalLeaves repeatedly removes degree-1 tree nodes that are not
// terminal nodes, together with their only edge. The path union can leave
// such stubs where shortest paths overlap partially.
func (t *Tree) pruneNonTerminalLeaves() {
	isTerminal := make(map[int64]bool, len(t.terminalNodes))
	for _, id := range t.terminalNodes {
		isTerminal[id] = true
	}

	for {
		degree := make(map[int64]int, len(t.nodes))
		incident := make(map[int64]int64, len(t.nodes)) // leaf node -> sole edge
		for id, e := range t.edges {
			degree[e.From]++
			degree[e.To]++
			incident[e.From] = id
			incident[e.To] = id
		}

		removed := false
		for nodeID := range t.nodes {
			if degree[nodeID] == 1 && !isTerminal[nodeID] {
				delete(t.edges, incident[nodeID])
				delete(t.nodes, nodeID)
				removed = true
				break // degrees are stale after a removal; recompute
			}
		}
		if !removed {
			return
		}
	}
}
