// Package geoio reads street graphs and terminal sets and writes synthesis
// results in the supported interchange formats.
//
// # Formats
//
// Three input formats are supported:
//
//   - JSON: a plain object with "nodes", "edges", "buildings" and
//     "generators" arrays. This is the native format of the HTTP API and
//     the round-trip format of the CLI.
//   - GeoJSON: a FeatureCollection of Point features (nodes, buildings,
//     generators, distinguished by a "role" property) and LineString
//     features (edges). Coordinates are used as-is; the core performs no
//     reprojection, so the file must already be in a planar, meter-scale
//     reference system.
//   - OSM XML: an OpenStreetMap extract. Ways carrying a highway tag become
//     street edges; node coordinates are projected from WGS84 into a local
//     equirectangular meter grid around the extract's center.
//
// Results are written either as plain JSON (the [synth.Result] structure)
// or as a GeoJSON FeatureCollection in which every supply, return, house
// and generator segment is a LineString feature tagged with its role.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": 1, "x": 0, "y": 0},
//	    {"id": 2, "x": 120.5, "y": 0}
//	  ],
//	  "edges": [
//	    {"id": 1, "from": 1, "to": 2}
//	  ],
//	  "buildings": [
//	    {"id": "b1", "x": 60, "y": 8, "attrs": {"heat_demand_kw": 14}}
//	  ],
//	  "generators": [
//	    {"id": "g1", "x": 0, "y": -5}
//	  ]
//	}
//
// Edge weight is optional and defaults to the geometric length. Building
// attrs are opaque and carried through to the house connections unchanged.
//
// All readers validate references (an edge naming an unknown node is an
// error) and return errors wrapped with the offending element's ID.
package geoio
