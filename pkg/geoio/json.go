package geoio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
	"github.com/hausweber/heatnet/pkg/synth"
)

// Scene bundles everything a synthesis run consumes: the street graph and
// the building and generator terminals.
type Scene struct {
	Graph      *graph.Graph
	Buildings  []synth.Terminal
	Generators []synth.Terminal
}

type jsonScene struct {
	Nodes      []jsonNode     `json:"nodes"`
	Edges      []jsonEdge     `json:"edges"`
	Buildings  []jsonTerminal `json:"buildings"`
	Generators []jsonTerminal `json:"generators"`
}

type jsonNode struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type jsonEdge struct {
	ID     int64   `json:"id"`
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Weight float64 `json:"weight,omitempty"`
}

type jsonTerminal struct {
	ID    string         `json:"id"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Attrs synth.Metadata `json:"attrs,omitempty"`
}

// ReadJSON decodes a scene from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays plus
// optional "buildings" and "generators" arrays; see the package
// documentation for the exact shape. ReadJSON returns an error for
// malformed JSON, duplicate node or edge IDs, and edges referencing
// unknown nodes. It does not close r.
func ReadJSON(r io.Reader) (*Scene, error) {
	var data jsonScene
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return sceneFromJSON(&data)
}

// ImportJSON reads the JSON scene file at path.
func ImportJSON(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func sceneFromJSON(data *jsonScene) (*Scene, error) {
	g := graph.New()
	for _, n := range data.Nodes {
		node := graph.Node{ID: n.ID, Pos: geom.Point{X: n.X, Y: n.Y}}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		edge := graph.Edge{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight}
		if err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
	}

	scene := &Scene{Graph: g}
	for _, t := range data.Buildings {
		scene.Buildings = append(scene.Buildings, synth.Terminal{
			ID:    t.ID,
			Pos:   geom.Point{X: t.X, Y: t.Y},
			Attrs: t.Attrs,
		})
	}
	for _, t := range data.Generators {
		scene.Generators = append(scene.Generators, synth.Terminal{
			ID:  t.ID,
			Pos: geom.Point{X: t.X, Y: t.Y},
		})
	}
	return scene, nil
}

// WriteJSON encodes the scene to w in the same format ReadJSON consumes,
// enabling full round trips.
func WriteJSON(scene *Scene, w io.Writer) error {
	data := jsonScene{}
	for _, n := range scene.Graph.Nodes() {
		data.Nodes = append(data.Nodes, jsonNode{ID: n.ID, X: n.Pos.X, Y: n.Pos.Y})
	}
	for _, e := range scene.Graph.Edges() {
		data.Edges = append(data.Edges, jsonEdge{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight})
	}
	for _, t := range scene.Buildings {
		data.Buildings = append(data.Buildings, jsonTerminal{ID: t.ID, X: t.Pos.X, Y: t.Pos.Y, Attrs: t.Attrs})
	}
	for _, t := range scene.Generators {
		data.Generators = append(data.Generators, jsonTerminal{ID: t.ID, X: t.Pos.X, Y: t.Pos.Y})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&data)
}

// ExportJSON writes the scene to a file at path.
func ExportJSON(scene *Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(scene, f)
}
