package synth_test

import (
	"fmt"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
	"github.com/hausweber/heatnet/pkg/synth"
)

// A single street with one building on it: the street is split at the
// building's attachment point and both halves become supply segments.
func ExampleSynthesize() {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Pos: geom.Point{X: 0, Y: 0}})
	_ = g.AddNode(graph.Node{ID: 2, Pos: geom.Point{X: 10, Y: 0}})
	_ = g.AddEdge(graph.Edge{ID: 1, From: 1, To: 2})

	buildings := []synth.Terminal{
		{ID: "house-1", Pos: geom.Point{X: 5, Y: 0}},
	}

	result, err := synth.Synthesize(g, buildings, nil, synth.Options{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	c := result.Connections[0]
	fmt.Printf("attachment: %s at (%.0f, %.0f)\n", c.Kind, c.Point.X, c.Point.Y)
	fmt.Printf("supply segments: %d\n", len(result.Supply))
	fmt.Printf("total length: %.1f\n", result.Stats.TotalLength)
	// Output:
	// attachment: split at (5, 0)
	// supply segments: 2
	// total length: 21.0
}
