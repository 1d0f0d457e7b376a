package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Fetch is the cache-aside primitive: look up key, and on a miss invoke
// fetcher, store the result with the given TTL, and return it.
//
// A stored payload that fails to unmarshal into T is treated as a cold
// miss: logged, re-fetched and overwritten, never surfaced to the caller.
// The database can always serve what a corrupt cache entry cannot.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fetcher func(ctx context.Context) (T, error)) (T, error) {
	var result T

	found, err := c.Get(ctx, key, &result)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry unreadable, treating as miss")
	}
	if found && err == nil {
		return result, nil
	}

	result, err = fetcher(ctx)
	if err != nil {
		return result, err
	}

	if err := c.Set(ctx, key, result, ttl); err != nil {
		// A failed write only costs the next caller a fetch
		log.Warn().Err(err).Str("key", key).Msg("Cache SET failed")
	}

	return result, nil
}
