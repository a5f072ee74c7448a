package synth

import (
	"sort"

	"github.com/hausweber/heatnet/pkg/geom"
)

// assembleNetwork flattens the subtree into supply segments, splitting edges
// at their registered attachment points.
//
// For each edge the split points are ordered by their projection parameter
// from the edge's A endpoint, and one segment is emitted per consecutive
// pair in [A, splits..., B]. Every coordinate is taken verbatim from the
// stored values, so laying the emitted segments end to end reconstructs the
// original edge geometry exactly.
func assembleNetwork(tree *Tree, splits map[int64][]splitPoint) Network {
	var network Network
	for _, e := range tree.Edges() {
		seg := tree.Segment(e)
		pending := splits[e.ID]
		if len(pending) == 0 {
			network = append(network, seg)
			continue
		}

		ordered := make([]splitPoint, len(pending))
		copy(ordered, pending)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].T < ordered[j].T })

		chain := make([]geom.Point, 0, len(ordered)+2)
		chain = append(chain, seg.A)
		for _, sp := range ordered {
			chain = append(chain, sp.Point)
		}
		chain = append(chain, seg.B)

		for i := 0; i < len(chain)-1; i++ {
			network = append(network, geom.Segment{A: chain[i], B: chain[i+1]})
		}
	}
	return network
}
