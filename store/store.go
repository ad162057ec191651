// Package store provides database access to all raw objects.
package store

import (
	"time"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/server/cachekey"
	"github.com/learnloop/learnloop/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	batchChunkSize int

	// Local read-through caches for hot single-entity lookups. Writes
	// invalidate by exact structured key; the mutation effect table
	// invalidates by view prefix.
	userCache   *cache.Local
	courseCache *cache.Local
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	localConfig := cache.LocalConfig{
		Capacity: 1000,
		TTL:      10 * time.Minute,
	}

	chunkSize := BatchChunkLimit
	if profile != nil && profile.BatchChunkSize > 0 {
		chunkSize = profile.BatchChunkSize
	}

	return &Store{
		driver:         driver,
		profile:        profile,
		batchChunkSize: chunkSize,
		userCache:      cache.NewLocal(localConfig),
		courseCache:    cache.NewLocal(localConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// InvalidateLocal drops local cache entries for the given structured key.
// A key without qualifiers invalidates every instance of the view; with
// qualifiers it targets one entry. Keys for domains the store does not cache
// locally are ignored.
func (s *Store) InvalidateLocal(key cachekey.Key) {
	var target *cache.Local
	switch key.Domain {
	case "user":
		target = s.userCache
	case "course":
		target = s.courseCache
	default:
		return
	}

	if len(key.Qualifiers) == 0 {
		target.InvalidatePrefix(key.Prefix())
		return
	}
	target.Delete(key)
}
