package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryConfig configures the in-process shared cache.
type MemoryConfig struct {
	Capacity        int           // Maximum number of entries (default: 1000)
	DefaultTTL      time.Duration // Default TTL for entries (default: 5 minutes)
	CleanupInterval time.Duration // Interval for expired entry cleanup (default: 1 minute)
}

// DefaultMemoryConfig returns the default memory cache configuration.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:        1000,
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// Memory is an LRU shared-cache implementation with TTL support. It is the
// default tier for single-instance deployments; multi-instance deployments
// use Redis instead.
type Memory struct {
	capacity   int
	defaultTTL time.Duration
	mu         sync.Mutex

	cache map[string]*entry
	order *list.List // Doubly linked list for LRU ordering

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	cleanup time.Duration
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

// NewMemory creates a new in-process shared cache.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1000
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Memory{
		capacity:   cfg.Capacity,
		defaultTTL: cfg.DefaultTTL,
		cache:      make(map[string]*entry),
		order:      list.New(),
		cancel:     cancel,
		cleanup:    cfg.CleanupInterval,
	}

	m.wg.Add(1)
	go m.cleanupLoop(ctx)

	return m
}

// Get retrieves a value from the cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.cache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.removeEntry(e)
		return nil, false
	}

	m.order.MoveToFront(e.element)
	return e.value, true
}

// Set stores a value in the cache.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.cache[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(ttl)
		m.order.MoveToFront(e.element)
		return nil
	}

	for len(m.cache) >= m.capacity {
		m.evictOldest()
	}

	e := &entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	e.element = m.order.PushFront(e)
	m.cache[key] = e
	return nil
}

// Invalidate removes entries matching the pattern.
// Supports a trailing * wildcard (e.g. "instructor_dashboard_*").
func (m *Memory) Invalidate(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !strings.Contains(pattern, "*") {
		if e, ok := m.cache[pattern]; ok {
			m.removeEntry(e)
		}
		return nil
	}

	prefix := strings.TrimSuffix(pattern, "*")
	for key, e := range m.cache {
		if strings.HasPrefix(key, prefix) {
			m.removeEntry(e)
		}
	}
	return nil
}

// Size returns the number of entries in the cache.
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

func (m *Memory) cleanupLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.cleanupExpired()
		}
	}
}

func (m *Memory) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var toDelete []*entry
	now := time.Now()
	for _, e := range m.cache {
		if now.After(e.expiresAt) {
			toDelete = append(toDelete, e)
		}
	}
	for _, e := range toDelete {
		m.removeEntry(e)
	}
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (m *Memory) evictOldest() {
	oldest := m.order.Back()
	if oldest == nil {
		return
	}
	m.removeEntry(oldest.Value.(*entry))
}

// removeEntry removes an entry from the cache.
// Must be called with lock held.
func (m *Memory) removeEntry(e *entry) {
	m.order.Remove(e.element)
	delete(m.cache, e.key)
}

// Ensure Memory implements Shared.
var _ Shared = (*Memory)(nil)
