package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Allows swapping the implementation (Redis, in-memory for tests).
type Cache interface {
	// Get fetches data from cache and unmarshals it into dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// GetRaw fetches the stored payload without unmarshaling.
	GetRaw(ctx context.Context, key string) (string, bool, error)

	// Set stores data in cache with a TTL. ttl = 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from cache
	Delete(ctx context.Context, keys ...string) error

	// Increment atomically increments an integer key, creating it at 1
	Increment(ctx context.Context, key string) (int64, error)

	// Exists reports whether a key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the connection
	Ping(ctx context.Context) error
}
