package synth

import "github.com/hausweber/heatnet/pkg/geom"

// dualPipe holds the outputs of the dual-pipe network builder.
type dualPipe struct {
	Supply     Network
	Return     Network
	Houses     []HouseConnection
	Generators []GeneratorConnection
}

// buildDualPipe completes the supply network with the final-meter connection
// lines and derives the return side.
//
// For every connection a straight segment from the terminal coordinate to
// its attachment point is appended to the supply network first, so that the
// return network (the supply network rigidly translated by (dx, dy))
// mirrors the full topology including those connection lines. House and
// generator connections are the cross-lines from each terminal's original
// coordinate to that coordinate translated by the same offset.
func buildDualPipe(supply Network, conns []Connection, buildings, generators []Terminal, dx, dy float64) dualPipe {
	terminalPos := make(map[string]geom.Point, len(buildings)+len(generators))
	for _, t := range buildings {
		terminalPos[t.ID] = t.Pos
	}
	for _, t := range generators {
		terminalPos[t.ID] = t.Pos
	}

	full := make(Network, len(supply), len(supply)+len(conns))
	copy(full, supply)
	for _, c := range conns {
		pos, ok := terminalPos[c.TerminalID]
		if !ok {
			continue
		}
		// A terminal sitting exactly on the network needs no feed line.
		if pos == c.Point {
			continue
		}
		full = append(full, geom.Segment{A: pos, B: c.Point})
	}

	out := dualPipe{
		Supply: full,
		Return: full.Translate(dx, dy),
	}

	for _, t := range buildings {
		out.Houses = append(out.Houses, HouseConnection{
			BuildingID: t.ID,
			Line:       geom.Segment{A: t.Pos, B: t.Pos.Add(dx, dy)},
			Attrs:      t.Attrs,
		})
	}
	for i, t := range generators {
		out.Generators = append(out.Generators, GeneratorConnection{
			Index: i,
			Line:  geom.Segment{A: t.Pos, B: t.Pos.Add(dx, dy)},
		})
	}
	return out
}
