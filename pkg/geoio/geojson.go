package geoio

import (
	"fmt"
	"io"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/synth"
)

// Feature roles used in GeoJSON scenes and results.
const (
	RoleNode       = "node"
	RoleEdge       = "edge"
	RoleBuilding   = "building"
	RoleGenerator  = "generator"
	RoleSupply     = "supply"
	RoleReturn     = "return"
	RoleHouse      = "house_connection"
	RoleGenLine    = "generator_connection"
	RoleAttachment = "attachment"
)

// ReadGeoJSON decodes a scene from a GeoJSON FeatureCollection.
//
// Point features carry a "role" property of "node", "building" or
// "generator". Node points need a numeric "id"; terminal points a string
// "id". LineString features are edges with numeric "id", "from" and "to"
// properties and an optional "weight". Any other building properties are
// kept as the terminal's attribute bag.
func ReadGeoJSON(r io.Reader) (*Scene, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	data := jsonScene{}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature %d: missing geometry", i)
		}
		switch f.Geometry.Type {
		case geojson.GeometryPoint:
			if err := collectPoint(&data, f); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		case geojson.GeometryLineString:
			if err := collectEdge(&data, f); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("feature %d: unsupported geometry %s", i, f.Geometry.Type)
		}
	}
	return sceneFromJSON(&data)
}

// ImportGeoJSON reads the GeoJSON scene file at path.
func ImportGeoJSON(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGeoJSON(f)
}

func collectPoint(data *jsonScene, f *geojson.Feature) error {
	if len(f.Geometry.Point) < 2 {
		return fmt.Errorf("point feature needs two coordinates")
	}
	x, y := f.Geometry.Point[0], f.Geometry.Point[1]

	role, err := f.PropertyString("role")
	if err != nil {
		return fmt.Errorf("point feature needs a role property")
	}
	switch role {
	case RoleNode:
		id, err := f.PropertyInt("id")
		if err != nil {
			return fmt.Errorf("node feature needs a numeric id")
		}
		data.Nodes = append(data.Nodes, jsonNode{ID: int64(id), X: x, Y: y})
	case RoleBuilding:
		id, err := f.PropertyString("id")
		if err != nil {
			return fmt.Errorf("building feature needs a string id")
		}
		data.Buildings = append(data.Buildings, jsonTerminal{
			ID: id, X: x, Y: y, Attrs: terminalAttrs(f),
		})
	case RoleGenerator:
		id, err := f.PropertyString("id")
		if err != nil {
			return fmt.Errorf("generator feature needs a string id")
		}
		data.Generators = append(data.Generators, jsonTerminal{ID: id, X: x, Y: y})
	default:
		return fmt.Errorf("unknown point role %q", role)
	}
	return nil
}

func collectEdge(data *jsonScene, f *geojson.Feature) error {
	ls := f.Geometry.LineString
	if len(ls) != 2 {
		return fmt.Errorf("edge feature must be a two-point line, got %d points", len(ls))
	}
	id, err := f.PropertyInt("id")
	if err != nil {
		return fmt.Errorf("edge feature needs a numeric id")
	}
	from, err := f.PropertyInt("from")
	if err != nil {
		return fmt.Errorf("edge %d needs a from property", id)
	}
	to, err := f.PropertyInt("to")
	if err != nil {
		return fmt.Errorf("edge %d needs a to property", id)
	}
	weight, _ := f.PropertyFloat64("weight")

	data.Edges = append(data.Edges, jsonEdge{
		ID: int64(id), From: int64(from), To: int64(to), Weight: weight,
	})
	return nil
}

// terminalAttrs copies all feature properties except the reserved ones into
// an attribute bag. Returns nil if nothing remains.
func terminalAttrs(f *geojson.Feature) synth.Metadata {
	var attrs synth.Metadata
	for k, v := range f.Properties {
		if k == "role" || k == "id" {
			continue
		}
		if attrs == nil {
			attrs = synth.Metadata{}
		}
		attrs[k] = v
	}
	return attrs
}

// WriteResultGeoJSON encodes the synthesis result as a FeatureCollection.
// Each network segment becomes a LineString tagged with its role; every
// terminal attachment becomes a Point. House connections carry the
// building's attribute bag as additional properties.
func WriteResultGeoJSON(res *synth.Result, w io.Writer) error {
	fc := geojson.NewFeatureCollection()

	appendNetwork(fc, res.Supply, RoleSupply)
	appendNetwork(fc, res.Return, RoleReturn)

	for _, h := range res.Houses {
		f := lineFeature(h.Line, RoleHouse)
		f.SetProperty("building_id", h.BuildingID)
		for k, v := range h.Attrs {
			f.SetProperty(k, v)
		}
		fc.AddFeature(f)
	}
	for _, g := range res.Generators {
		f := lineFeature(g.Line, RoleGenLine)
		f.SetProperty("generator_index", g.Index)
		fc.AddFeature(f)
	}
	for _, c := range res.Connections {
		f := geojson.NewPointFeature([]float64{c.Point.X, c.Point.Y})
		f.SetProperty("role", RoleAttachment)
		f.SetProperty("terminal_id", c.TerminalID)
		f.SetProperty("kind", c.Kind.String())
		if c.Kind == synth.EdgeSplit {
			f.SetProperty("edge_id", c.EdgeID)
		}
		fc.AddFeature(f)
	}

	raw, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	_, err = w.Write(raw)
	return err
}

// ReadResultGeoJSON decodes a FeatureCollection written by
// [WriteResultGeoJSON] back into a result. Only the geometry and the
// reserved properties survive the round trip; statistics do not.
func ReadResultGeoJSON(r io.Reader) (*synth.Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	res := &synth.Result{}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature %d: missing geometry", i)
		}
		role, err := f.PropertyString("role")
		if err != nil {
			return nil, fmt.Errorf("feature %d: missing role property", i)
		}

		switch role {
		case RoleSupply, RoleReturn, RoleHouse, RoleGenLine:
			seg, err := segmentFromFeature(f)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			switch role {
			case RoleSupply:
				res.Supply = append(res.Supply, seg)
			case RoleReturn:
				res.Return = append(res.Return, seg)
			case RoleHouse:
				id, _ := f.PropertyString("building_id")
				res.Houses = append(res.Houses, synth.HouseConnection{
					BuildingID: id,
					Line:       seg,
					Attrs:      houseAttrs(f),
				})
			case RoleGenLine:
				idx, _ := f.PropertyInt("generator_index")
				res.Generators = append(res.Generators, synth.GeneratorConnection{
					Index: idx,
					Line:  seg,
				})
			}
		case RoleAttachment:
			if len(f.Geometry.Point) < 2 {
				return nil, fmt.Errorf("feature %d: attachment needs two coordinates", i)
			}
			id, _ := f.PropertyString("terminal_id")
			conn := synth.Connection{
				TerminalID: id,
				Point:      geom.Point{X: f.Geometry.Point[0], Y: f.Geometry.Point[1]},
			}
			if kind, _ := f.PropertyString("kind"); kind == synth.EdgeSplit.String() {
				conn.Kind = synth.EdgeSplit
				edgeID, _ := f.PropertyInt("edge_id")
				conn.EdgeID = int64(edgeID)
			}
			res.Connections = append(res.Connections, conn)
		default:
			return nil, fmt.Errorf("feature %d: unknown result role %q", i, role)
		}
	}
	return res, nil
}

// ImportResultGeoJSON reads the result file at path.
func ImportResultGeoJSON(path string) (*synth.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadResultGeoJSON(f)
}

func segmentFromFeature(f *geojson.Feature) (geom.Segment, error) {
	ls := f.Geometry.LineString
	if len(ls) != 2 {
		return geom.Segment{}, fmt.Errorf("segment must be a two-point line, got %d points", len(ls))
	}
	return geom.Segment{
		A: geom.Point{X: ls[0][0], Y: ls[0][1]},
		B: geom.Point{X: ls[1][0], Y: ls[1][1]},
	}, nil
}

func houseAttrs(f *geojson.Feature) synth.Metadata {
	var attrs synth.Metadata
	for k, v := range f.Properties {
		if k == "role" || k == "building_id" {
			continue
		}
		if attrs == nil {
			attrs = synth.Metadata{}
		}
		attrs[k] = v
	}
	return attrs
}

func appendNetwork(fc *geojson.FeatureCollection, n synth.Network, role string) {
	for _, s := range n {
		fc.AddFeature(lineFeature(s, role))
	}
}

func lineFeature(s geom.Segment, role string) *geojson.Feature {
	f := geojson.NewLineStringFeature([][]float64{
		{s.A.X, s.A.Y},
		{s.B.X, s.B.Y},
	})
	f.SetProperty("role", role)
	return f
}
