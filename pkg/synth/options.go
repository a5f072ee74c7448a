package synth

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/hausweber/heatnet/pkg/cache"
	"github.com/hausweber/heatnet/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultNodeThreshold is the snap distance, in length units, within
	// which a projected attachment point is moved onto an existing tree
	// node instead of splitting the edge.
	DefaultNodeThreshold = 0.1

	// DefaultOffsetX and DefaultOffsetY define the rigid translation, in
	// length units, that derives the return network from the supply network.
	DefaultOffsetX = 1.0
	DefaultOffsetY = 0.0

	// DefaultMaxPruneIterations caps the dead-end pruning passes. Reaching
	// the cap is a soft condition, not an error.
	DefaultMaxPruneIterations = 10
)

// Options contains all configuration for a synthesis run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// NodeThreshold is the endpoint snap distance. Zero selects the default.
	NodeThreshold float64 `json:"node_threshold,omitempty"`

	// OffsetX and OffsetY translate the supply network into the return
	// network. Both zero selects the default offset.
	OffsetX float64 `json:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty"`

	// MaxPruneIterations caps dead-end pruning passes. Zero selects the
	// default.
	MaxPruneIterations int `json:"max_prune_iterations,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.NodeThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node threshold must not be negative, got %v", o.NodeThreshold)
	}
	if o.MaxPruneIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max prune iterations must not be negative, got %d", o.MaxPruneIterations)
	}
	if o.NodeThreshold == 0 {
		o.NodeThreshold = DefaultNodeThreshold
	}
	if o.OffsetX == 0 && o.OffsetY == 0 {
		o.OffsetX = DefaultOffsetX
		o.OffsetY = DefaultOffsetY
	}
	if o.MaxPruneIterations == 0 {
		o.MaxPruneIterations = DefaultMaxPruneIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key options describing this configuration.
func (o *Options) KeyOpts() cache.SynthesisKeyOpts {
	return cache.SynthesisKeyOpts{
		NodeThreshold:      o.NodeThreshold,
		OffsetX:            o.OffsetX,
		OffsetY:            o.OffsetY,
		MaxPruneIterations: o.MaxPruneIterations,
	}
}
