// Package cache holds the two cache tiers in front of the document store:
// the shared cache holding whole composite views under flat string keys, and
// the local read-through cache holding single entities under structured keys.
//
// The shared cache is best effort everywhere. Consumers treat a failed read
// as a miss and a failed write as a skipped optimization; neither may fail
// the request that triggered it.
package cache

import (
	"context"
	"time"
)

// Shared is the cross-process view cache. Keys are the flat string form
// produced by cachekey; Invalidate accepts glob patterns with a trailing *.
type Shared interface {
	// Get retrieves a value. The second return reports existence.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes entries matching the pattern (exact key, or prefix
	// glob like "instructor_dashboard_*").
	Invalidate(ctx context.Context, pattern string) error

	// Close releases the cache resources.
	Close() error
}
