package synth

import (
	"testing"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
)

func TestAssembleNetworkUnsplitEdge(t *testing.T) {
	terms := []Terminal{building("b1", 0, 0)}
	tree := mustTree(t, singleEdgeGraph(t), terms)

	network := assembleNetwork(tree, map[int64][]splitPoint{})
	if len(network) != 1 {
		t.Fatalf("segments = %d, want 1", len(network))
	}
	want := geom.Segment{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 10, Y: 0}}
	if network[0] != want {
		t.Errorf("segment = %+v, want %+v", network[0], want)
	}
}

func TestAssembleNetworkOrdersSplits(t *testing.T) {
	terms := []Terminal{building("b1", 0, 0)}
	tree := mustTree(t, singleEdgeGraph(t), terms)

	// Splits registered out of order must come out sorted along the edge.
	splits := map[int64][]splitPoint{
		1: {
			{Point: geom.Point{X: 7, Y: 0}, T: 0.7},
			{Point: geom.Point{X: 3, Y: 0}, T: 0.3},
		},
	}

	network := assembleNetwork(tree, splits)
	want := Network{
		{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 3, Y: 0}},
		{A: geom.Point{X: 3, Y: 0}, B: geom.Point{X: 7, Y: 0}},
		{A: geom.Point{X: 7, Y: 0}, B: geom.Point{X: 10, Y: 0}},
	}
	if len(network) != len(want) {
		t.Fatalf("segments = %d, want %d", len(network), len(want))
	}
	for i := range want {
		if network[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, network[i], want[i])
		}
	}
}

// The assembled segments must reconstruct each edge exactly: consecutive
// segments share the identical stored coordinate, and the chain starts and
// ends on the original endpoints. This holds bit-exactly even for awkward
// projection parameters because every coordinate is reused, never recomputed.
func TestAssembleNetworkReconstructsEdge(t *testing.T) {
	terms := []Terminal{
		building("b1", 1.1, 2),
		building("b2", 6.7, -1),
		building("b3", 9.3, 4),
	}
	tree := mustTree(t, singleEdgeGraph(t), terms)

	conns, splits, err := connectTerminals(tree, terms, 0.1)
	if err != nil {
		t.Fatalf("connectTerminals: %v", err)
	}
	network := assembleNetwork(tree, splits)

	if len(network) != 4 {
		t.Fatalf("segments = %d, want 4", len(network))
	}
	edge := geom.Segment{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 10, Y: 0}}
	if network[0].A != edge.A {
		t.Errorf("chain starts at %+v, want %+v", network[0].A, edge.A)
	}
	if network[len(network)-1].B != edge.B {
		t.Errorf("chain ends at %+v, want %+v", network[len(network)-1].B, edge.B)
	}
	for i := 1; i < len(network); i++ {
		if network[i].A != network[i-1].B {
			t.Errorf("gap between segment %d and %d: %+v vs %+v",
				i-1, i, network[i-1].B, network[i].A)
		}
	}

	// Every attachment point appears verbatim as a segment endpoint.
	degrees := network.EndpointDegrees()
	for _, c := range conns {
		if degrees[c.Point] == 0 {
			t.Errorf("attachment %+v not an endpoint of any segment", c.Point)
		}
	}
}

func TestAssembleNetworkMultipleEdges(t *testing.T) {
	g := graph.New()
	addNode(t, g, 1, 0, 0)
	addNode(t, g, 2, 10, 0)
	addNode(t, g, 3, 10, 10)
	addEdge(t, g, 1, 1, 2)
	addEdge(t, g, 2, 2, 3)

	terms := []Terminal{building("b1", 0, 0), building("b2", 10, 10)}
	tree := mustTree(t, g, terms)

	splits := map[int64][]splitPoint{
		2: {{Point: geom.Point{X: 10, Y: 4}, T: 0.4}},
	}
	network := assembleNetwork(tree, splits)
	if len(network) != 3 {
		t.Fatalf("segments = %d, want 3 (one unsplit, one split in two)", len(network))
	}
}
