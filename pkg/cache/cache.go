// Package cache stores the output of slow, rarely-changing external tool probes.
//
// Starting conda takes about a second, and conda-pip-minimal asks both conda-tree
// and pipdeptree for their versions on every run before trusting their output
// format. Those answers only change when the tools are upgraded, so they are
// cached with a short TTL.
//
// # Backends
//
//   - [FileCache]: one JSON file per key under ~/.cache/conda-pip-minimal (default)
//   - [RedisCache]: shared cache for CI fleets, keyed per host with [ScopedKeyer]
//   - [NullCache]: caching disabled (--no-cache)
//
// Cached values are raw tool output; callers always re-validate them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached data and whether it was found and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// TTLToolProbe is how long a tool's --version output is trusted.
const TTLToolProbe = time.Hour
