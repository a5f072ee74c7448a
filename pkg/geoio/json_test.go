package geoio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hausweber/heatnet/pkg/geom"
)

const sceneJSON = `{
  "nodes": [
    {"id": 1, "x": 0, "y": 0},
    {"id": 2, "x": 10, "y": 0},
    {"id": 3, "x": 10, "y": 10}
  ],
  "edges": [
    {"id": 1, "from": 1, "to": 2},
    {"id": 2, "from": 2, "to": 3, "weight": 25}
  ],
  "buildings": [
    {"id": "b1", "x": 5, "y": 2, "attrs": {"heat_demand_kw": 14}}
  ],
  "generators": [
    {"id": "g1", "x": 10, "y": 9}
  ]
}`

func TestReadJSON(t *testing.T) {
	scene, err := ReadJSON(strings.NewReader(sceneJSON))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if scene.Graph.NodeCount() != 3 {
		t.Errorf("nodes = %d, want 3", scene.Graph.NodeCount())
	}
	if scene.Graph.EdgeCount() != 2 {
		t.Errorf("edges = %d, want 2", scene.Graph.EdgeCount())
	}

	e1, ok := scene.Graph.Edge(1)
	if !ok {
		t.Fatal("edge 1 missing")
	}
	if e1.Weight != 10 {
		t.Errorf("edge 1 weight = %v, want geometric default 10", e1.Weight)
	}
	e2, _ := scene.Graph.Edge(2)
	if e2.Weight != 25 {
		t.Errorf("edge 2 weight = %v, want the explicit 25", e2.Weight)
	}

	if len(scene.Buildings) != 1 || len(scene.Generators) != 1 {
		t.Fatalf("terminals = %d buildings / %d generators, want 1/1",
			len(scene.Buildings), len(scene.Generators))
	}
	b := scene.Buildings[0]
	if b.ID != "b1" || (b.Pos != geom.Point{X: 5, Y: 2}) {
		t.Errorf("building = %+v", b)
	}
	if b.Attrs["heat_demand_kw"] != 14.0 {
		t.Errorf("attrs = %v, want heat_demand_kw 14", b.Attrs)
	}
}

func TestReadJSONBadReferences(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"duplicate node", `{"nodes":[{"id":1},{"id":1}],"edges":[]}`},
		{"unknown endpoint", `{"nodes":[{"id":1}],"edges":[{"id":1,"from":1,"to":9}]}`},
		{"duplicate edge", `{"nodes":[{"id":1,"x":0},{"id":2,"x":5}],"edges":[{"id":1,"from":1,"to":2},{"id":1,"from":1,"to":2}]}`},
		{"malformed", `{"nodes": [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tc.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	scene, err := ReadJSON(strings.NewReader(sceneJSON))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(scene, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	again, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON (round trip): %v", err)
	}

	if again.Graph.NodeCount() != scene.Graph.NodeCount() {
		t.Errorf("round trip nodes = %d, want %d", again.Graph.NodeCount(), scene.Graph.NodeCount())
	}
	if again.Graph.EdgeCount() != scene.Graph.EdgeCount() {
		t.Errorf("round trip edges = %d, want %d", again.Graph.EdgeCount(), scene.Graph.EdgeCount())
	}
	n2, _ := again.Graph.Node(2)
	if (n2.Pos != geom.Point{X: 10, Y: 0}) {
		t.Errorf("node 2 position = %+v, want (10, 0)", n2.Pos)
	}
	if again.Buildings[0].ID != "b1" || again.Generators[0].ID != "g1" {
		t.Errorf("round trip terminals = %+v / %+v", again.Buildings, again.Generators)
	}
}
