package synth

import "github.com/hausweber/heatnet/pkg/geom"

// pruneResult reports how dead-end pruning went.
type pruneResult struct {
	Network    Network
	Iterations int
	Removed    int
	Converged  bool
}

// pruneDeadEnds iteratively removes segments with a free end: an endpoint
// touched by no other segment and not protected as a terminal attachment
// point. Each pass recomputes endpoint degrees from the current snapshot,
// so a removal only takes effect in the next pass.
//
// Pruning stops after a pass that removes nothing, or after maxIterations
// passes. Hitting the iteration cap is a soft condition: the partially
// pruned network is returned with Converged set to false.
func pruneDeadEnds(network Network, protected map[geom.Point]bool, maxIterations int) pruneResult {
	res := pruneResult{Network: network}

	for res.Iterations < maxIterations {
		degrees := res.Network.EndpointDegrees()

		kept := make(Network, 0, len(res.Network))
		removed := 0
		for _, s := range res.Network {
			if isDeadEnd(s.A, degrees, protected) || isDeadEnd(s.B, degrees, protected) {
				removed++
				continue
			}
			kept = append(kept, s)
		}

		res.Iterations++
		if removed == 0 {
			res.Converged = true
			return res
		}
		res.Network = kept
		res.Removed += removed
	}
	return res
}

func isDeadEnd(p geom.Point, degrees map[geom.Point]int, protected map[geom.Point]bool) bool {
	return degrees[p] == 1 && !protected[p]
}
