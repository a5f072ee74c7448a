package graph

import (
	"container/heap"
	"slices"
)

// Hop records how a node was reached in a shortest-path tree: the previous
// node and the edge that was taken from it.
type Hop struct {
	Node int64
	Edge int64
}

// Paths holds the single-source shortest-path tree produced by
// [Graph.ShortestPaths].
type Paths struct {
	Source int64
	Dist   map[int64]float64
	prev   map[int64]Hop
}

// Reachable reports whether the target node was reached from the source.
func (p *Paths) Reachable(target int64) bool {
	_, ok := p.Dist[target]
	return ok
}

// EdgePath returns the edge IDs of the shortest path from the source to the
// target, in travel order. It returns nil when the target is unreachable and
// an empty slice when target == source.
func (p *Paths) EdgePath(target int64) []int64 {
	if !p.Reachable(target) {
		return nil
	}
	edges := []int64{}
	for at := target; at != p.Source; {
		hop := p.prev[at]
		edges = append(edges, hop.Edge)
		at = hop.Node
	}
	slices.Reverse(edges)
	return edges
}

// ShortestPaths runs Dijkstra's algorithm from the source node over edge
// weights. Nodes not present in the returned Dist map are unreachable.
func (g *Graph) ShortestPaths(source int64) *Paths {
	p := &Paths{
		Source: source,
		Dist:   make(map[int64]float64, len(g.nodes)),
		prev:   make(map[int64]Hop),
	}
	if _, ok := g.nodes[source]; !ok {
		return p
	}

	settled := make(map[int64]bool, len(g.nodes))
	pq := &nodeQueue{{node: source, dist: 0}}
	p.Dist[source] = 0

	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		if settled[item.node] {
			continue
		}
		settled[item.node] = true

		for _, edgeID := range g.incident[item.node] {
			e := g.edges[edgeID]
			next := e.Other(item.node)
			if settled[next] {
				continue
			}
			alt := item.dist + e.Weight
			if cur, seen := p.Dist[next]; !seen || alt < cur {
				p.Dist[next] = alt
				p.prev[next] = Hop{Node: item.node, Edge: edgeID}
				heap.Push(pq, queueItem{node: next, dist: alt})
			}
		}
	}
	return p
}

// ConnectedWith reports whether every node in ids can reach the first one.
// An empty or single-element slice is trivially connected.
func (g *Graph) ConnectedWith(ids []int64) bool {
	if len(ids) < 2 {
		return true
	}
	paths := g.ShortestPaths(ids[0])
	for _, id := range ids[1:] {
		if !paths.Reachable(id) {
			return false
		}
	}
	return true
}

type queueItem struct {
	node int64
	dist float64
}

// nodeQueue is a min-heap of queue items ordered by distance.
type nodeQueue []queueItem

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
