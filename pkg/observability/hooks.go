// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about synthesis runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the core library free of metrics framework imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSynthesisHooks(&myHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Synthesis().OnRunStart(ctx, nodeCount, terminalCount)
//	// ... synthesize ...
//	observability.Synthesis().OnRunComplete(ctx, segments, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Synthesis Hooks
// =============================================================================

// SynthesisHooks receives events from topology synthesis runs.
type SynthesisHooks interface {
	// OnRunStart records the beginning of a synthesis run.
	OnRunStart(ctx context.Context, graphNodes, terminals int)

	// OnRunComplete records a finished run. segments is the total segment
	// count across supply and return; err is nil on success.
	OnRunComplete(ctx context.Context, segments int, duration time.Duration, err error)

	// OnPrune records the dead-end pruning outcome of a run.
	OnPrune(ctx context.Context, iterations, removed int, converged bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSynthesisHooks is a no-op implementation of SynthesisHooks.
type NoopSynthesisHooks struct{}

func (NoopSynthesisHooks) OnRunStart(context.Context, int, int)                     {}
func (NoopSynthesisHooks) OnRunComplete(context.Context, int, time.Duration, error) {}
func (NoopSynthesisHooks) OnPrune(context.Context, int, int, bool)                  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	synthesisHooks SynthesisHooks = NoopSynthesisHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetSynthesisHooks registers custom synthesis hooks.
// This should be called once at application startup before any runs.
func SetSynthesisHooks(h SynthesisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		synthesisHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Synthesis returns the registered synthesis hooks.
func Synthesis() SynthesisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return synthesisHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	synthesisHooks = NoopSynthesisHooks{}
	cacheHooks = NoopCacheHooks{}
}
