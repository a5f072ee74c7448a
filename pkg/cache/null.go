package cache

import (
	"context"
	"time"
)

// NullCache is a no-op cache that never stores anything. Used when caching
// is disabled and in tests that must not share state.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always reports a miss.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the entry.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
