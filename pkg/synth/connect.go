package synth

import (
	"github.com/hausweber/heatnet/pkg/errors"
	"github.com/hausweber/heatnet/pkg/geom"
)

// splitPoint is a pending split registered on a tree edge: the exact
// attachment coordinate and its projection parameter t measured from the
// edge's A endpoint. t orders the splits during network assembly.
type splitPoint struct {
	Point geom.Point
	T     float64
}

// connectTerminals finds, for every terminal, the exact attachment point on
// the subtree: either an existing node coordinate (within nodeThreshold of
// an edge endpoint) or a new point splitting an edge.
//
// Every projection uses the original, unmodified edge geometry, so no
// terminal's result depends on another terminal's snap. Edges are scanned in
// ascending edge-ID order and exact distance ties keep the first edge
// encountered; this tie-break is deliberate and part of the contract.
func connectTerminals(tree *Tree, terminals []Terminal, nodeThreshold float64) ([]Connection, map[int64][]splitPoint, error) {
	edges := tree.Edges()
	splits := make(map[int64][]splitPoint)
	conns := make([]Connection, 0, len(terminals))

	// A tree without edges is a single terminal node; every terminal
	// attaches to it directly.
	if len(edges) == 0 {
		nodes := tree.Nodes()
		if len(nodes) == 0 {
			return nil, nil, errors.New(errors.ErrCodeInternal, "subtree has no nodes")
		}
		for _, term := range terminals {
			conns = append(conns, Connection{
				TerminalID: term.ID,
				Point:      nodes[0].Pos,
				Kind:       NodeAttach,
			})
		}
		return conns, splits, nil
	}

	for _, e := range edges {
		if tree.Segment(e).IsDegenerate() {
			return nil, nil, errors.New(errors.ErrCodeDegenerateEdge,
				"cannot project onto zero-length edge %d", e.ID)
		}
	}

	for _, term := range terminals {
		var (
			bestDist  = -1.0
			bestEdge  int64
			bestPoint geom.Point
			bestSeg   geom.Segment
		)
		for _, e := range edges {
			seg := tree.Segment(e)
			q, _ := seg.ClosestPoint(term.Pos)
			if d := term.Pos.Dist(q); bestDist < 0 || d < bestDist {
				bestDist = d
				bestEdge = e.ID
				bestPoint = q
				bestSeg = seg
			}
		}

		conn := Connection{TerminalID: term.ID, Point: bestPoint, EdgeID: bestEdge, Kind: EdgeSplit}

		// Snap to an endpoint when the projection lands within
		// nodeThreshold of it; the stored endpoint coordinate is reused
		// verbatim so no new vertex is introduced.
		dA := bestPoint.Dist(bestSeg.A)
		dB := bestPoint.Dist(bestSeg.B)
		switch {
		case dA <= nodeThreshold && dA <= dB:
			conn.Point = bestSeg.A
			conn.Kind = NodeAttach
			conn.EdgeID = 0
		case dB <= nodeThreshold:
			conn.Point = bestSeg.B
			conn.Kind = NodeAttach
			conn.EdgeID = 0
		default:
			registerSplit(splits, bestEdge, bestSeg, bestPoint)
		}
		conns = append(conns, conn)
	}

	return conns, splits, nil
}

// registerSplit appends the point to the edge's pending split list unless an
// exactly identical coordinate is already registered. Two terminals that
// independently project to the same coordinate share one split.
func registerSplit(splits map[int64][]splitPoint, edgeID int64, seg geom.Segment, p geom.Point) {
	for _, existing := range splits[edgeID] {
		if existing.Point == p {
			return
		}
	}
	_, t := seg.ClosestPoint(p)
	splits[edgeID] = append(splits[edgeID], splitPoint{Point: p, T: t})
}

// protectedEndpoints collects the attachment coordinates of all connections.
// The dead-end pruner never removes a segment endpoint in this set.
func protectedEndpoints(conns []Connection) map[geom.Point]bool {
	protected := make(map[geom.Point]bool, len(conns))
	for _, c := range conns {
		protected[c.Point] = true
	}
	return protected
}
