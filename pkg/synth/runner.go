package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hausweber/heatnet/pkg/cache"
	"github.com/hausweber/heatnet/pkg/graph"
	"github.com/hausweber/heatnet/pkg/observability"
)

// Runner encapsulates synthesis execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// RunResult wraps a synthesis result with cache metadata.
type RunResult struct {
	*Result

	// InputHash fingerprints the street graph and terminal set.
	InputHash string `json:"input_hash"`

	// Cached is true when the result was served from cache.
	Cached bool `json:"cached"`
}

// Execute runs the synthesis pipeline with caching. The cache key is a
// fingerprint of the full input (graph, terminals, parameters), so a hit is
// guaranteed to be the exact result a fresh run would produce.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, buildings, generators []Terminal, opts Options) (*RunResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	inputHash, err := fingerprintInput(g, buildings, generators)
	if err != nil {
		return nil, fmt.Errorf("fingerprint input: %w", err)
	}
	cacheKey := r.Keyer.SynthesisKey(inputHash, opts.KeyOpts())

	observability.Synthesis().OnRunStart(ctx, g.NodeCount(), len(buildings)+len(generators))

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "synth")
			r.Logger.Debug("synthesis cache hit", "key", cacheKey)
			observability.Synthesis().OnRunComplete(ctx,
				cached.Stats.SupplySegments+cached.Stats.ReturnSegments, 0, nil)
			return &RunResult{Result: &cached, InputHash: inputHash, Cached: true}, nil
		}
		// Corrupt cached payload - recompute
		_ = r.Cache.Delete(ctx, cacheKey)
	}
	observability.Cache().OnCacheMiss(ctx, "synth")

	start := time.Now()
	result, err := Synthesize(g, buildings, generators, opts)
	if err != nil {
		observability.Synthesis().OnRunComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	observability.Synthesis().OnPrune(ctx,
		result.Stats.PruneIterations, result.Stats.PrunedSegments, result.Stats.PruneConverged)
	observability.Synthesis().OnRunComplete(ctx,
		result.Stats.SupplySegments+result.Stats.ReturnSegments, time.Since(start), nil)

	if data, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSynthesis); err == nil {
			observability.Cache().OnCacheSet(ctx, "synth", len(data))
		} else {
			r.Logger.Warn("failed to cache synthesis result", "err", err)
		}
	}

	return &RunResult{Result: result, InputHash: inputHash, Cached: false}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// fingerprintInput produces a stable hash of the street graph and terminal
// set. Nodes and edges are serialized in sorted ID order so that two graphs
// with identical content always hash identically.
func fingerprintInput(g *graph.Graph, buildings, generators []Terminal) (string, error) {
	snapshot := struct {
		Nodes      []graph.Node `json:"nodes"`
		Edges      []graph.Edge `json:"edges"`
		Buildings  []Terminal   `json:"buildings"`
		Generators []Terminal   `json:"generators"`
	}{
		Nodes:      g.Nodes(),
		Edges:      g.Edges(),
		Buildings:  buildings,
		Generators: generators,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
