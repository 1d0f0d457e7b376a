package cache

import (
	"context"
	"strconv"
)

// Version counters live under their own prefix so they never collide with
// the entries they invalidate.
const versionKeyPrefix = "cache:ver:"

// Versions maintains a monotonic integer version per cache namespace.
// Versioned keys embed the current version; bumping the version orphans
// every previously written entry for that namespace without enumerating
// them - stale entries simply age out via TTL.
type Versions struct {
	cache Cache
}

func NewVersions(cache Cache) *Versions {
	return &Versions{cache: cache}
}

// Get returns the current version for a namespace, creating it at 1 if absent.
func (v *Versions) Get(ctx context.Context, namespace string) (int64, error) {
	key := versionKeyPrefix + namespace

	raw, found, err := v.cache.GetRaw(ctx, key)
	if err != nil {
		return 0, err
	}
	if found {
		version, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return version, nil
		}
		// INCR errors on a non-integer value, so drop the key and
		// restart the sequence below
		if err := v.cache.Delete(ctx, key); err != nil {
			return 0, err
		}
	}

	// INCR creates the key at 1 atomically, so two racing readers agree
	return v.cache.Increment(ctx, key)
}

// Bump atomically increments the version, logically invalidating all
// cache entries keyed with the previous one.
func (v *Versions) Bump(ctx context.Context, namespace string) (int64, error) {
	return v.cache.Increment(ctx, versionKeyPrefix+namespace)
}
