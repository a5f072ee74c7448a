package geoio

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
)

// earthRadius is the WGS84 equatorial radius in meters.
const earthRadius = 6378137.0

// nonRoutable lists highway values that never carry pipes along a street.
var nonRoutable = map[string]bool{
	"proposed":     true,
	"construction": true,
	"razed":        true,
	"abandoned":    true,
}

// ReadOSM builds a street graph from an OpenStreetMap XML extract.
//
// Ways tagged with a routable highway value become edges, one per
// consecutive node pair, so a single OSM way with n nodes yields n-1 graph
// edges. Node coordinates are projected from WGS84 into a local
// equirectangular meter grid centered on the extract's mean coordinate;
// for district-sized extracts the distortion is negligible.
//
// Graph node IDs are the OSM node IDs. Edge IDs are assigned sequentially
// in way order.
func ReadOSM(ctx context.Context, r io.Reader) (*graph.Graph, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	coords := make(map[osm.NodeID][2]float64) // lon, lat
	var ways []*osm.Way

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			coords[o.ID] = [2]float64{o.Lon, o.Lat}
		case *osm.Way:
			hw := o.Tags.Find("highway")
			if hw == "" || nonRoutable[hw] {
				continue
			}
			ways = append(ways, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm: %w", err)
	}
	if len(ways) == 0 {
		return nil, fmt.Errorf("extract contains no routable highway ways")
	}

	// Projection origin: the mean of all way-node coordinates.
	var sumLon, sumLat float64
	var count int
	for _, w := range ways {
		for _, wn := range w.Nodes {
			if c, ok := coords[wn.ID]; ok {
				sumLon += c[0]
				sumLat += c[1]
				count++
			}
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("highway ways reference no known nodes")
	}
	originLon := sumLon / float64(count)
	originLat := sumLat / float64(count)
	cosLat := math.Cos(originLat * math.Pi / 180)

	project := func(lon, lat float64) geom.Point {
		return geom.Point{
			X: earthRadius * (lon - originLon) * math.Pi / 180 * cosLat,
			Y: earthRadius * (lat - originLat) * math.Pi / 180,
		}
	}

	g := graph.New()
	edgeID := int64(1)
	for _, w := range ways {
		var prev osm.NodeID
		havePrev := false
		for _, wn := range w.Nodes {
			c, ok := coords[wn.ID]
			if !ok {
				// Extracts clipped at a bounding box drop nodes of
				// border-crossing ways; skip the missing vertex.
				havePrev = false
				continue
			}
			if _, exists := g.Node(int64(wn.ID)); !exists {
				node := graph.Node{ID: int64(wn.ID), Pos: project(c[0], c[1])}
				if err := g.AddNode(node); err != nil {
					return nil, fmt.Errorf("way %d node %d: %w", w.ID, wn.ID, err)
				}
			}
			if havePrev && prev != wn.ID {
				edge := graph.Edge{ID: edgeID, From: int64(prev), To: int64(wn.ID)}
				if err := g.AddEdge(edge); err != nil {
					return nil, fmt.Errorf("way %d edge %d: %w", w.ID, edgeID, err)
				}
				edgeID++
			}
			prev = wn.ID
			havePrev = true
		}
	}
	return g, nil
}

// ImportOSM reads the OSM XML file at path.
func ImportOSM(ctx context.Context, path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadOSM(ctx, f)
}
