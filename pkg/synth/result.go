package synth

import (
	"time"

	"github.com/hausweber/heatnet/pkg/geom"
)

// Result is the complete output bundle of one synthesis run. All collections
// are immutable once returned; a run either produces the full bundle or an
// error, never a partial network.
type Result struct {
	// Connections maps each terminal to its attachment point, in input
	// terminal order (buildings first, then generators).
	Connections []Connection `json:"connections"`

	// Supply is the pruned supply network including the final-meter
	// connection lines from each terminal to its attachment point.
	Supply Network `json:"supply"`

	// Return is the supply network translated by the configured offset.
	Return Network `json:"return"`

	// Houses are the per-building supply-to-return cross-lines, carrying
	// each building's attribute bag unchanged.
	Houses []HouseConnection `json:"houses"`

	// Generators are the per-generator cross-lines, tagged with a 0-based
	// generator index.
	Generators []GeneratorConnection `json:"generators"`

	// Protected are the endpoint coordinates the dead-end pruner preserved.
	Protected []geom.Point `json:"protected"`

	// Stats contains counts, lengths and timing information.
	Stats Stats `json:"stats"`
}

// Stats contains synthesis statistics. Counts and lengths describe the final
// outputs; durations are informational only.
type Stats struct {
	Terminals  int `json:"terminals"`
	Buildings  int `json:"buildings"`
	Generators int `json:"generators"`

	TreeNodes int `json:"tree_nodes"`
	TreeEdges int `json:"tree_edges"`

	SupplySegments int     `json:"supply_segments"`
	ReturnSegments int     `json:"return_segments"`
	TotalLength    float64 `json:"total_length"`

	PruneIterations int  `json:"prune_iterations"`
	PrunedSegments  int  `json:"pruned_segments"`
	PruneConverged  bool `json:"prune_converged"`

	SteinerTime  time.Duration `json:"steiner_time"`
	ConnectTime  time.Duration `json:"connect_time"`
	AssembleTime time.Duration `json:"assemble_time"`
	PruneTime    time.Duration `json:"prune_time"`
	DualPipeTime time.Duration `json:"dual_pipe_time"`
	Duration     time.Duration `json:"duration"`
}
