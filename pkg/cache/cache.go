// Package cache provides byte-level caching for fetched assets.
//
// The export pipeline inlines remote assets (the lesson logo) into
// self-contained artifacts. Fetching the same asset once per export flow
// would be wasteful, so fetched bytes are cached with a TTL. Two backends
// are provided:
//   - FileCache: filesystem-backed, used by the CLI
//   - NullCache: no-op, used in tests and when caching is disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// TTLs for cached content.
const (
	// TTLAsset is how long fetched remote assets (logo images) stay cached.
	TTLAsset = 24 * time.Hour
)

// Cache is the interface for cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// AssetKey generates a cache key for a fetched asset URL.
func AssetKey(url string) string {
	return hashKey("asset", url)
}
