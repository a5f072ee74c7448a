package synth

import (
	"testing"

	"github.com/hausweber/heatnet/pkg/geom"
)

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func seg(ax, ay, bx, by float64) geom.Segment {
	return geom.Segment{A: pt(ax, ay), B: pt(bx, by)}
}

func TestPruneDeadEndsRemovesSpur(t *testing.T) {
	// A straight line with a dangling spur nobody attaches to: the spur
	// goes, the line stays.
	network := Network{
		seg(0, 0, 10, 0),
		seg(10, 0, 20, 0),
		seg(10, 0, 10, 3),
	}
	protected := map[geom.Point]bool{
		pt(0, 0):  true,
		pt(20, 0): true,
	}

	res := pruneDeadEnds(network, protected, DefaultMaxPruneIterations)
	if !res.Converged {
		t.Error("pruning should converge")
	}
	if res.Removed != 1 {
		t.Errorf("removed = %d, want 1", res.Removed)
	}
	if len(res.Network) != 2 {
		t.Fatalf("remaining segments = %d, want 2", len(res.Network))
	}
	for _, s := range res.Network {
		if s == seg(10, 0, 10, 3) {
			t.Error("spur segment should have been removed")
		}
	}
}

func TestPruneDeadEndsKeepsProtectedSpur(t *testing.T) {
	network := Network{
		seg(0, 0, 10, 0),
		seg(10, 0, 20, 0),
		seg(10, 0, 10, 3),
	}
	protected := map[geom.Point]bool{
		pt(0, 0):  true,
		pt(20, 0): true,
		pt(10, 3): true, // a terminal attaches at the spur tip
	}

	res := pruneDeadEnds(network, protected, DefaultMaxPruneIterations)
	if res.Removed != 0 {
		t.Errorf("removed = %d, want 0", res.Removed)
	}
	if res.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", res.Iterations)
	}
	if !res.Converged {
		t.Error("pruning should converge immediately")
	}
}

func TestPruneDeadEndsCascades(t *testing.T) {
	// A three-segment chain hanging off a protected junction disappears
	// one segment per pass, outermost first.
	network := Network{
		seg(0, 0, 10, 0),
		seg(10, 0, 20, 0),
		seg(10, 0, 10, 2),
		seg(10, 2, 10, 4),
		seg(10, 4, 10, 6),
	}
	protected := map[geom.Point]bool{
		pt(0, 0):  true,
		pt(20, 0): true,
	}

	res := pruneDeadEnds(network, protected, DefaultMaxPruneIterations)
	if !res.Converged {
		t.Error("pruning should converge")
	}
	if res.Removed != 3 {
		t.Errorf("removed = %d, want 3", res.Removed)
	}
	if len(res.Network) != 2 {
		t.Errorf("remaining segments = %d, want 2", len(res.Network))
	}
	// One pass per chain segment plus the final empty pass.
	if res.Iterations != 4 {
		t.Errorf("iterations = %d, want 4", res.Iterations)
	}
}

func TestPruneDeadEndsIterationCap(t *testing.T) {
	// Nothing is protected, so the whole chain would eventually vanish;
	// the cap stops pruning early without an error.
	network := Network{
		seg(0, 0, 1, 0),
		seg(1, 0, 2, 0),
		seg(2, 0, 3, 0),
		seg(3, 0, 4, 0),
		seg(4, 0, 5, 0),
	}

	res := pruneDeadEnds(network, map[geom.Point]bool{}, 2)
	if res.Converged {
		t.Error("hitting the iteration cap should report non-convergence")
	}
	if res.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", res.Iterations)
	}
	if res.Removed != 4 {
		t.Errorf("removed = %d, want 4 (two per pass from both ends)", res.Removed)
	}
	if len(res.Network) != 1 {
		t.Errorf("remaining segments = %d, want 1", len(res.Network))
	}
}

func TestPruneDeadEndsIdempotent(t *testing.T) {
	network := Network{
		seg(0, 0, 10, 0),
		seg(10, 0, 20, 0),
		seg(10, 0, 10, 2),
		seg(10, 2, 10, 4),
	}
	protected := map[geom.Point]bool{
		pt(0, 0):  true,
		pt(20, 0): true,
	}

	first := pruneDeadEnds(network, protected, DefaultMaxPruneIterations)
	second := pruneDeadEnds(first.Network, protected, DefaultMaxPruneIterations)
	if second.Removed != 0 {
		t.Errorf("re-pruning removed %d segments, want 0", second.Removed)
	}
}

func TestPruneDeadEndsEmptyNetwork(t *testing.T) {
	res := pruneDeadEnds(Network{}, map[geom.Point]bool{}, DefaultMaxPruneIterations)
	if !res.Converged || res.Removed != 0 || len(res.Network) != 0 {
		t.Errorf("empty network prune = %+v, want immediate convergence", res)
	}
}
