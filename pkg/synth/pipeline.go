// Package synth implements the district-heating network topology synthesis
// pipeline.
//
// Given a routable street graph and a set of terminals (buildings and heat
// generators), the pipeline produces a dual-pipe network in five stages:
//
//  1. Steiner: an approximate minimum-weight subtree of the street graph
//     connecting every terminal's nearest graph node
//  2. Connect: exact attachment points for every terminal, splitting tree
//     edges where no existing node is close enough
//  3. Assemble: the subtree flattened into supply segments with splits
//     inserted in order along each edge
//  4. Prune: iterative removal of dead-end segments that serve no terminal
//  5. Dual-pipe: final-meter connection lines, the translated return
//     network, and per-terminal cross-connections
//
// A run is a pure function of its inputs: no internal I/O, no shared state
// across invocations, and either a complete output bundle or an error.
//
// # Usage
//
//	opts := synth.Options{NodeThreshold: 0.1}
//	result, err := synth.Synthesize(streets, buildings, generators, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.SupplySegments)
//
// Callers that want caching and observability hooks wrap the same
// computation in a [Runner].
package synth

import (
	"cmp"
	"slices"
	"time"

	"github.com/hausweber/heatnet/pkg/errors"
	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/graph"
)

// Synthesize runs the full topology synthesis pipeline.
//
// Buildings and generators share one coordinate space with g. The terminal
// order is preserved in Result.Connections: buildings first, generators
// after, each in input order. Errors abort the run with no partial output.
func Synthesize(g *graph.Graph, buildings, generators []Terminal, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	start := time.Now()

	terminals := make([]Terminal, 0, len(buildings)+len(generators))
	terminals = append(terminals, buildings...)
	terminals = append(terminals, generators...)
	if len(terminals) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTerminals, "no building or generator terminals given")
	}
	// IDs key the attachment lookup in the dual-pipe stage, so a collision
	// would silently route a feed line from the wrong coordinate.
	seen := make(map[string]bool, len(terminals))
	for _, t := range terminals {
		if seen[t.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate terminal id %q", t.ID)
		}
		seen[t.ID] = true
	}

	// Stage 1: Steiner subtree
	stageStart := time.Now()
	tree, err := BuildSteinerTree(g, terminals)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	result.Stats.SteinerTime = time.Since(stageStart)
	result.Stats.TreeNodes = tree.NodeCount()
	result.Stats.TreeEdges = tree.EdgeCount()
	logger.Debug("built steiner subtree",
		"nodes", tree.NodeCount(),
		"edges", tree.EdgeCount(),
		"duration", result.Stats.SteinerTime)

	// Stage 2: terminal attachment
	stageStart = time.Now()
	conns, splits, err := connectTerminals(tree, terminals, opts.NodeThreshold)
	if err != nil {
		return nil, err
	}
	result.Connections = conns
	result.Stats.ConnectTime = time.Since(stageStart)
	logger.Debug("connected terminals",
		"terminals", len(conns),
		"split_edges", len(splits),
		"duration", result.Stats.ConnectTime)

	// Stage 3: network assembly
	stageStart = time.Now()
	supply := assembleNetwork(tree, splits)
	result.Stats.AssembleTime = time.Since(stageStart)

	// Stage 4: dead-end pruning
	stageStart = time.Now()
	protected := buildProtectedSet(tree, conns, splits)
	pruned := pruneDeadEnds(supply, protected, opts.MaxPruneIterations)
	result.Stats.PruneTime = time.Since(stageStart)
	result.Stats.PruneIterations = pruned.Iterations
	result.Stats.PrunedSegments = pruned.Removed
	result.Stats.PruneConverged = pruned.Converged
	if !pruned.Converged {
		logger.Warn("dead-end pruning stopped before convergence",
			"iterations", pruned.Iterations,
			"removed", pruned.Removed)
	} else {
		logger.Debug("pruned dead ends",
			"iterations", pruned.Iterations,
			"removed", pruned.Removed,
			"duration", result.Stats.PruneTime)
	}

	// Stage 5: dual-pipe completion
	stageStart = time.Now()
	pipes := buildDualPipe(pruned.Network, conns, buildings, generators, opts.OffsetX, opts.OffsetY)
	result.Supply = pipes.Supply
	result.Return = pipes.Return
	result.Houses = pipes.Houses
	result.Generators = pipes.Generators
	result.Protected = sortedPoints(protected)
	result.Stats.DualPipeTime = time.Since(stageStart)

	result.Stats.Terminals = len(terminals)
	result.Stats.Buildings = len(buildings)
	result.Stats.Generators = len(generators)
	result.Stats.SupplySegments = len(result.Supply)
	result.Stats.ReturnSegments = len(result.Return)
	result.Stats.TotalLength = totalLength(result)
	result.Stats.Duration = time.Since(start)

	logger.Info("synthesized network",
		"terminals", len(terminals),
		"supply_segments", len(result.Supply),
		"total_length", result.Stats.TotalLength,
		"duration", result.Stats.Duration)

	return result, nil
}

// buildProtectedSet collects the coordinates the dead-end pruner must keep:
// every attachment point, and both endpoints of every edge that received a
// split. Protecting the split edge's endpoints keeps the street a consumer
// taps into intact instead of cutting it back to the tap.
func buildProtectedSet(tree *Tree, conns []Connection, splits map[int64][]splitPoint) map[geom.Point]bool {
	protected := protectedEndpoints(conns)
	for edgeID := range splits {
		for _, e := range tree.Edges() {
			if e.ID == edgeID {
				seg := tree.Segment(e)
				protected[seg.A] = true
				protected[seg.B] = true
			}
		}
	}
	return protected
}

// sortedPoints returns the set as a slice ordered by X then Y, for
// deterministic output.
func sortedPoints(set map[geom.Point]bool) []geom.Point {
	points := make([]geom.Point, 0, len(set))
	for p := range set {
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b geom.Point) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return points
}

// totalLength sums all produced line work: both pipe runs plus the house and
// generator cross-connections.
func totalLength(r *Result) float64 {
	total := r.Supply.TotalLength() + r.Return.TotalLength()
	for _, h := range r.Houses {
		total += h.Line.Length()
	}
	for _, g := range r.Generators {
		total += g.Line.Length()
	}
	return total
}
