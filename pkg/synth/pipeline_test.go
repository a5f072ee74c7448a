package synth

import (
	"testing"

	"github.com/hausweber/heatnet/pkg/errors"
	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
)

func TestSynthesizeSingleStreetMidpoint(t *testing.T) {
	// One street, one building exactly on it: the edge is split at the
	// building, both halves survive pruning, and no feed line is needed.
	g := singleEdgeGraph(t)
	buildings := []Terminal{building("b1", 5, 0)}

	res, err := Synthesize(g, buildings, nil, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(res.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(res.Connections))
	}
	c := res.Connections[0]
	if c.Kind != EdgeSplit {
		t.Errorf("kind = %v, want EdgeSplit", c.Kind)
	}
	if (c.Point != geom.Point{X: 5, Y: 0}) {
		t.Errorf("attachment = %+v, want (5, 0)", c.Point)
	}

	want := Network{
		seg(0, 0, 5, 0),
		seg(5, 0, 10, 0),
	}
	if len(res.Supply) != len(want) {
		t.Fatalf("supply = %v, want %v", res.Supply, want)
	}
	for i := range want {
		if res.Supply[i] != want[i] {
			t.Errorf("supply segment %d = %+v, want %+v", i, res.Supply[i], want[i])
		}
	}

	if res.Stats.PrunedSegments != 0 {
		t.Errorf("pruned segments = %d, want 0", res.Stats.PrunedSegments)
	}
	if !res.Stats.PruneConverged {
		t.Error("pruning should converge")
	}
	if len(res.Houses) != 1 {
		t.Fatalf("houses = %d, want 1", len(res.Houses))
	}
	if res.Houses[0].Line.B != (geom.Point{X: 6, Y: 0}) {
		t.Errorf("house cross-line end = %+v, want (6, 0) with the default offset", res.Houses[0].Line.B)
	}
}

func TestSynthesizeSnapsNearEndpoint(t *testing.T) {
	// With a generous threshold the building snaps onto the street node
	// instead of splitting; the unused remainder of the street is pruned.
	g := singleEdgeGraph(t)
	buildings := []Terminal{building("b1", 0.3, 1)}

	res, err := Synthesize(g, buildings, nil, Options{NodeThreshold: 0.5})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	c := res.Connections[0]
	if c.Kind != NodeAttach {
		t.Errorf("kind = %v, want NodeAttach", c.Kind)
	}
	if (c.Point != geom.Point{X: 0, Y: 0}) {
		t.Errorf("attachment = %+v, want the exact node coordinate", c.Point)
	}

	// The street dead-ends at (10,0) with nothing attached, so only the
	// feed line remains.
	if len(res.Supply) != 1 {
		t.Fatalf("supply = %v, want only the feed line", res.Supply)
	}
	if res.Supply[0] != (geom.Segment{A: geom.Point{X: 0.3, Y: 1}, B: geom.Point{X: 0, Y: 0}}) {
		t.Errorf("feed line = %+v", res.Supply[0])
	}
	if res.Stats.PrunedSegments != 1 {
		t.Errorf("pruned segments = %d, want 1", res.Stats.PrunedSegments)
	}
}

func TestSynthesizeEmptyTerminals(t *testing.T) {
	_, err := Synthesize(singleEdgeGraph(t), nil, nil, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeEmptyTerminals {
		t.Errorf("error code = %s, want %s", code, errors.ErrCodeEmptyTerminals)
	}
}

func TestSynthesizeInvalidOptions(t *testing.T) {
	_, err := Synthesize(singleEdgeGraph(t), []Terminal{building("b1", 5, 0)}, nil,
		Options{NodeThreshold: -1})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %s, want %s", code, errors.ErrCodeInvalidInput)
	}
}

func TestSynthesizeDuplicateTerminalID(t *testing.T) {
	g := singleEdgeGraph(t)

	// Same ID within the building set.
	_, err := Synthesize(g, []Terminal{building("b1", 3, 1), building("b1", 7, 1)}, nil, Options{})
	if err == nil {
		t.Fatal("expected error for duplicate building id")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %s, want %s", code, errors.ErrCodeInvalidInput)
	}

	// Same ID shared between a building and a generator.
	_, err = Synthesize(g, []Terminal{building("t1", 3, 1)}, []Terminal{building("t1", 7, 1)}, Options{})
	if err == nil {
		t.Fatal("expected error for building and generator sharing an id")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %s, want %s", code, errors.ErrCodeInvalidInput)
	}
}

func TestSynthesizePreservesTerminalOrder(t *testing.T) {
	g := districtGraph(t)
	buildings := []Terminal{building("b1", 2, 2), building("b2", 17, -2)}
	generators := []Terminal{building("g1", 10, 11)}

	res, err := Synthesize(g, buildings, generators, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	wantOrder := []string{"b1", "b2", "g1"}
	if len(res.Connections) != len(wantOrder) {
		t.Fatalf("connections = %d, want %d", len(res.Connections), len(wantOrder))
	}
	for i, id := range wantOrder {
		if res.Connections[i].TerminalID != id {
			t.Errorf("connection %d = %s, want %s", i, res.Connections[i].TerminalID, id)
		}
	}

	if res.Stats.Buildings != 2 || res.Stats.Generators != 1 || res.Stats.Terminals != 3 {
		t.Errorf("stats counts = %d/%d/%d, want 2/1/3",
			res.Stats.Buildings, res.Stats.Generators, res.Stats.Terminals)
	}
}

// districtGraph is a small street network: a main road with a side street
// and a spur.
//
//	4 (10,10)
//	|
//	1 -- 2 -- 3    (0,0) (10,0) (20,0)
func districtGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	addNode(t, g, 1, 0, 0)
	addNode(t, g, 2, 10, 0)
	addNode(t, g, 3, 20, 0)
	addNode(t, g, 4, 10, 10)
	addEdge(t, g, 1, 1, 2)
	addEdge(t, g, 2, 2, 3)
	addEdge(t, g, 3, 2, 4)
	return g
}

func TestSynthesizeProtectedEndpointsSurvive(t *testing.T) {
	g := districtGraph(t)
	buildings := []Terminal{
		building("b1", 3, 2),
		building("b2", 14, -1),
		building("b3", 10, 9),
	}

	res, err := Synthesize(g, buildings, nil, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	degrees := res.Supply.EndpointDegrees()
	for _, p := range res.Protected {
		if degrees[p] == 0 {
			t.Errorf("protected point %+v lost all segments", p)
		}
	}
	for _, c := range res.Connections {
		if degrees[c.Point] == 0 {
			t.Errorf("attachment %+v lost all segments", c.Point)
		}
	}
}

func TestSynthesizeReturnMirrorsSupply(t *testing.T) {
	g := districtGraph(t)
	buildings := []Terminal{building("b1", 3, 2), building("b2", 14, -1)}

	res, err := Synthesize(g, buildings, nil, Options{OffsetX: 2, OffsetY: 1.5})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(res.Return) != len(res.Supply) {
		t.Fatalf("return segments = %d, want %d", len(res.Return), len(res.Supply))
	}
	for i, s := range res.Supply {
		want := geom.Segment{
			A: geom.Point{X: s.A.X + 2, Y: s.A.Y + 1.5},
			B: geom.Point{X: s.B.X + 2, Y: s.B.Y + 1.5},
		}
		if res.Return[i] != want {
			t.Errorf("return segment %d = %+v, want %+v", i, res.Return[i], want)
		}
	}
}

func TestSynthesizeStats(t *testing.T) {
	g := districtGraph(t)
	buildings := []Terminal{building("b1", 3, 2)}
	generators := []Terminal{building("g1", 19, 1)}

	res, err := Synthesize(g, buildings, generators, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if res.Stats.SupplySegments != len(res.Supply) {
		t.Errorf("stats supply segments = %d, want %d", res.Stats.SupplySegments, len(res.Supply))
	}
	if res.Stats.ReturnSegments != len(res.Return) {
		t.Errorf("stats return segments = %d, want %d", res.Stats.ReturnSegments, len(res.Return))
	}
	if res.Stats.TreeNodes == 0 || res.Stats.TreeEdges == 0 {
		t.Errorf("tree stats = %d nodes / %d edges, want non-zero",
			res.Stats.TreeNodes, res.Stats.TreeEdges)
	}

	wantLength := res.Supply.TotalLength() + res.Return.TotalLength()
	for _, h := range res.Houses {
		wantLength += h.Line.Length()
	}
	for _, gc := range res.Generators {
		wantLength += gc.Line.Length()
	}
	if res.Stats.TotalLength != wantLength {
		t.Errorf("total length = %v, want %v", res.Stats.TotalLength, wantLength)
	}
}
