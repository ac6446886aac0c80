// Package cache provides a tag-addressable, TTL-bounded key-value store
// used to memoize content reads. Entries carry a set of invalidation tags;
// invalidating a tag marks every entry carrying it stale in one call.
package cache

import (
	"context"
	"time"
)

// TagStore is the cache service consumed by the cached fetch layer and the
// revalidator. Implementations live in this package (memory, redis) and are
// injected so tests can construct and tear down a store per test.
type TagStore interface {
	// Get returns the live value stored under key. The second return is
	// false on a miss, an expired entry, or an entry invalidated by tag.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given invalidation tags and TTL.
	Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error

	// InvalidateTag drops every entry carrying tag. Idempotent: invalidating
	// an already-stale or unknown tag is a no-op, not an error.
	InvalidateTag(ctx context.Context, tag string) error
}
