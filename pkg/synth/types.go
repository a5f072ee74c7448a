package synth

import (
	"github.com/hausweber/heatnet/pkg/geom"
)

// Metadata stores arbitrary key-value pairs attached to building terminals.
// The synthesis pipeline never inspects it; it is carried through unchanged
// to the final house connection.
type Metadata map[string]any

// Terminal is a point that must be connected to the network: a building or
// a heat generator. The coordinate lives in the same projected space as the
// street graph. Attrs is only meaningful for buildings and may be nil.
type Terminal struct {
	ID    string
	Pos   geom.Point
	Attrs Metadata
}

// AttachKind classifies how a terminal meets the network.
type AttachKind int

const (
	// NodeAttach means the attachment point is an existing tree-node
	// coordinate; no edge needs splitting.
	NodeAttach AttachKind = iota
	// EdgeSplit means the attachment point lies strictly inside a tree
	// edge, which is split there during network assembly.
	EdgeSplit
)

// String returns the attachment kind name.
func (k AttachKind) String() string {
	if k == NodeAttach {
		return "node"
	}
	return "split"
}

// Connection maps a terminal to its exact attachment point on the supply
// network. EdgeID is only meaningful when Kind is EdgeSplit.
type Connection struct {
	TerminalID string
	Point      geom.Point
	Kind       AttachKind
	EdgeID     int64
}

// Network is an ordered collection of two-point supply or return segments.
type Network []geom.Segment

// TotalLength returns the summed length of all segments.
func (n Network) TotalLength() float64 {
	var total float64
	for _, s := range n {
		total += s.Length()
	}
	return total
}

// Translate returns a copy of the network with every vertex shifted by
// (dx, dy). This is a rigid translation, not a parallel-curve offset; on
// sharp concave turns the result can self-overlap, which the pipeline
// accepts as a documented limitation.
func (n Network) Translate(dx, dy float64) Network {
	out := make(Network, len(n))
	for i, s := range n {
		out[i] = s.Translate(dx, dy)
	}
	return out
}

// EndpointDegrees counts, for every endpoint coordinate, how many segment
// ends touch it. Coordinates are compared exactly.
func (n Network) EndpointDegrees() map[geom.Point]int {
	deg := make(map[geom.Point]int, len(n)*2)
	for _, s := range n {
		deg[s.A]++
		deg[s.B]++
	}
	return deg
}

// HouseConnection is the cross-line joining a building's supply-side point
// to its return-side point, tagged with the building's attribute bag.
type HouseConnection struct {
	BuildingID string
	Line       geom.Segment
	Attrs      Metadata
}

// GeneratorConnection is the analogous cross-line for a heat generator,
// tagged with its 0-based index.
type GeneratorConnection struct {
	Index int
	Line  geom.Segment
}
