package cache

import (
	"strings"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/learnloop/learnloop/server/cachekey"
)

// LocalConfig configures a local entity cache.
type LocalConfig struct {
	Capacity int
	TTL      time.Duration
}

const localNumShards = 64

// evict 10% of entries when the cache fills
const localEvictionPercentage = 10

// Local is the in-process read-through cache for single-entity lookups,
// keyed by structured cachekey tuples. It exists so repeated dashboard
// builds do not refetch the same user/course rows; composite views live in
// the Shared cache, not here.
type Local struct {
	client *sturdyc.Client[any]
}

// NewLocal creates a local entity cache.
func NewLocal(cfg LocalConfig) *Local {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1000
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &Local{
		client: sturdyc.New[any](cfg.Capacity, localNumShards, cfg.TTL, localEvictionPercentage),
	}
}

// Get retrieves the value stored under key.
func (l *Local) Get(key cachekey.Key) (any, bool) {
	return l.client.Get(key.String())
}

// Set stores value under key.
func (l *Local) Set(key cachekey.Key, value any) {
	l.client.Set(key.String(), value)
}

// Delete removes the exact key.
func (l *Local) Delete(key cachekey.Key) {
	l.client.Delete(key.String())
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (l *Local) InvalidatePrefix(prefix string) {
	for _, key := range l.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			l.client.Delete(key)
		}
	}
}

// Size returns the number of live entries.
func (l *Local) Size() int {
	return len(l.client.ScanKeys())
}
