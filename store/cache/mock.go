package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Mock is an in-memory Shared implementation for tests. It records call
// counts and can be told to fail, which is how the degrade-on-cache-failure
// paths are exercised.
type Mock struct {
	mu    sync.Mutex
	store map[string]mockEntry

	GetCalls        int
	SetCalls        int
	InvalidateCalls int

	// FailReads makes every Get report a miss.
	FailReads bool
	// FailWrites makes every Set return an error.
	FailWrites bool
	// FailInvalidate makes every Invalidate return an error.
	FailInvalidate bool
}

type mockEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMock creates a new mock shared cache.
func NewMock() *Mock {
	return &Mock{store: make(map[string]mockEntry)}
}

func (m *Mock) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.FailReads {
		return nil, false
	}

	e, ok := m.store[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.store, key)
		return nil, false
	}
	return e.value, true
}

func (m *Mock) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	if m.FailWrites {
		return errors.New("mock cache: write failed")
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.store[key] = mockEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (m *Mock) Invalidate(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InvalidateCalls++
	if m.FailInvalidate {
		return errors.New("mock cache: invalidate failed")
	}

	if !strings.Contains(pattern, "*") {
		delete(m.store, pattern)
		return nil
	}
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.store {
		if strings.HasPrefix(key, prefix) {
			delete(m.store, key)
		}
	}
	return nil
}

func (m *Mock) Close() error {
	return nil
}

// Len returns the number of live entries.
func (m *Mock) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// Ensure Mock implements Shared.
var _ Shared = (*Mock)(nil)
