// Package cache provides pluggable result caching for synthesis runs.
//
// Three backends are included: a file-based cache for CLI usage, a Redis
// cache for server deployments, and a null cache that disables caching
// entirely. All backends store opaque byte slices under string keys with an
// optional time-to-live.
//
// Keys are produced by a Keyer so that the key schema lives in one place.
// The default schema hashes the full synthesis input (graph, terminals) plus
// the parameters that change the output, which makes a key a fingerprint of
// the run: identical inputs hit, any change misses.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLs for the cached artifact classes. Synthesis results are pure functions
// of their key, so the TTL only bounds storage growth, not staleness.
const (
	// TTLSynthesis applies to full synthesis result bundles.
	TTLSynthesis = 7 * 24 * time.Hour

	// TTLRender applies to rendered plan and schematic outputs.
	TTLRender = 24 * time.Hour
)

// Cache is the storage interface all backends implement.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// the error return is reserved for backend failures. Set with ttl <= 0
// stores without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SynthesisKeyOpts holds the parameters that affect a synthesis result and
// therefore participate in its cache key.
type SynthesisKeyOpts struct {
	NodeThreshold      float64 `json:"node_threshold"`
	OffsetX            float64 `json:"offset_x"`
	OffsetY            float64 `json:"offset_y"`
	MaxPruneIterations int     `json:"max_prune_iterations"`
}

// RenderKeyOpts holds the parameters that affect a rendered output.
type RenderKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
}

// Keyer generates cache keys. Implementations must be deterministic: the
// same inputs always produce the same key.
type Keyer interface {
	// SynthesisKey generates a key for a synthesis result. inputHash is the
	// fingerprint of the street graph and terminal set.
	SynthesisKey(inputHash string, opts SynthesisKeyOpts) string

	// RenderKey generates a key for a rendered output derived from the
	// synthesis result identified by resultHash.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// DefaultKeyer implements the standard key schema.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SynthesisKey generates a key of the form "synth:<sha256>".
func (k *DefaultKeyer) SynthesisKey(inputHash string, opts SynthesisKeyOpts) string {
	return digestKey("synth", inputHash, opts)
}

// RenderKey generates a key of the form "render:<sha256>".
func (k *DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return digestKey("render", resultHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

// digestKey builds a key of the form "<class>:<sha256>". The digest covers
// the input fingerprint and the option set together, so any parameter that
// shapes the output lands in the key.
func digestKey(class, inputHash string, opts any) string {
	payload, _ := json.Marshal(struct {
		Input string `json:"input"`
		Opts  any    `json:"opts"`
	}{inputHash, opts})
	sum := sha256.Sum256(payload)
	return class + ":" + hex.EncodeToString(sum[:])
}

// Hash fingerprints raw bytes as a 64-character hex SHA-256 digest. The
// synthesis runner hashes the serialized scene with it; the file cache
// hashes keys with it to derive file names.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
