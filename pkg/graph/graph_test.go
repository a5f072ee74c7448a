package graph

import (
	"errors"
	"testing"

	"github.com/hausweber/heatnet/pkg/geom"
)

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	// 1 --(1)-- 2 --(2)-- 3
	//  \                 /
	//   +-----(3)-------+       edge 3 is the long way around
	g := New()
	for id, pos := range map[int64]geom.Point{
		1: {X: 0, Y: 0},
		2: {X: 10, Y: 0},
		3: {X: 20, Y: 0},
	} {
		if err := g.AddNode(Node{ID: id, Pos: pos}); err != nil {
			t.Fatalf("AddNode(%d): %v", id, err)
		}
	}
	for _, e := range []Edge{
		{ID: 1, From: 1, To: 2},
		{ID: 2, From: 2, To: 3},
		{ID: 3, From: 1, To: 3, Weight: 100},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%d): %v", e.ID, err)
		}
	}
	return g
}

func TestAddNode_Duplicate(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: 7}); err != nil {
		t.Fatalf("AddNode() = %v", err)
	}
	if err := g.AddNode(Node{ID: 7}); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("AddNode() duplicate = %v, want ErrDuplicateNode", err)
	}
}

func TestAddEdge_UnknownEndpoint(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1})
	if err := g.AddEdge(Edge{ID: 1, From: 1, To: 99}); !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("AddEdge() = %v, want ErrUnknownEndpoint", err)
	}
}

func TestAddEdge_DefaultWeightIsLength(t *testing.T) {
	g := buildTestGraph(t)
	e, _ := g.Edge(1)
	if e.Weight != 10 {
		t.Errorf("Weight = %v, want geometric length 10", e.Weight)
	}
	// Explicit weights are kept even when they disagree with geometry.
	e, _ = g.Edge(3)
	if e.Weight != 100 {
		t.Errorf("Weight = %v, want supplied 100", e.Weight)
	}
}

func TestParallelEdgesStayDistinct(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1, Pos: geom.Point{X: 0, Y: 0}})
	g.AddNode(Node{ID: 2, Pos: geom.Point{X: 5, Y: 0}})
	if err := g.AddEdge(Edge{ID: 10, From: 1, To: 2}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(Edge{ID: 11, From: 1, To: 2, Weight: 9}); err != nil {
		t.Fatalf("parallel edge rejected: %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if len(g.Incident(1)) != 2 {
		t.Errorf("Incident(1) = %v, want two edges", g.Incident(1))
	}
}

func TestNearestNode_TieBreaksBySmallestID(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 5, Pos: geom.Point{X: 1, Y: 0}})
	g.AddNode(Node{ID: 2, Pos: geom.Point{X: -1, Y: 0}})

	n, err := g.NearestNode(geom.Point{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != 2 {
		t.Errorf("NearestNode() = node %d, want 2 (smallest ID on tie)", n.ID)
	}
}

func TestNearestNode_Empty(t *testing.T) {
	if _, err := New().NearestNode(geom.Point{}); !errors.Is(err, ErrNoNodes) {
		t.Errorf("NearestNode() = %v, want ErrNoNodes", err)
	}
}

func TestValidate(t *testing.T) {
	if err := New().Validate(); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("Validate() empty = %v, want ErrEmptyGraph", err)
	}
	if err := buildTestGraph(t).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestShortestPaths(t *testing.T) {
	g := buildTestGraph(t)
	p := g.ShortestPaths(1)

	if d := p.Dist[3]; d != 20 {
		t.Errorf("Dist[3] = %v, want 20 (via node 2, not the weight-100 edge)", d)
	}
	path := p.EdgePath(3)
	want := []int64{1, 2}
	if len(path) != 2 || path[0] != want[0] || path[1] != want[1] {
		t.Errorf("EdgePath(3) = %v, want %v", path, want)
	}
	if got := p.EdgePath(1); got == nil || len(got) != 0 {
		t.Errorf("EdgePath(source) = %v, want empty", got)
	}
}

func TestShortestPaths_Unreachable(t *testing.T) {
	g := buildTestGraph(t)
	g.AddNode(Node{ID: 9, Pos: geom.Point{X: 99, Y: 99}})

	p := g.ShortestPaths(1)
	if p.Reachable(9) {
		t.Error("Reachable(9) = true for isolated node")
	}
	if p.EdgePath(9) != nil {
		t.Errorf("EdgePath(9) = %v, want nil", p.EdgePath(9))
	}
}

func TestConnectedWith(t *testing.T) {
	g := buildTestGraph(t)
	g.AddNode(Node{ID: 9, Pos: geom.Point{X: 99, Y: 99}})

	if !g.ConnectedWith([]int64{1, 2, 3}) {
		t.Error("ConnectedWith(1,2,3) = false, want true")
	}
	if g.ConnectedWith([]int64{1, 9}) {
		t.Error("ConnectedWith(1,9) = true, want false")
	}
	if !g.ConnectedWith([]int64{1}) {
		t.Error("ConnectedWith(single) = false, want true")
	}
}
