package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(MemoryConfig{Capacity: 16, DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Set(ctx, "instructor_dashboard_u1", []byte(`{"a":1}`), time.Minute))

	got, ok := m.Get(ctx, "instructor_dashboard_u1")
	require.True(t, ok)
	require.Equal(t, []byte(`{"a":1}`), got)

	_, ok = m.Get(ctx, "instructor_dashboard_u2")
	require.False(t, ok)
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(ctx, "k")
	require.False(t, ok)
}

func TestMemoryInvalidateExact(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Set(ctx, "student_dashboard_u1", []byte("a"), time.Minute))
	require.NoError(t, m.Invalidate(ctx, "student_dashboard_u1"))

	_, ok := m.Get(ctx, "student_dashboard_u1")
	require.False(t, ok)
}

func TestMemoryInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Set(ctx, "instructor_dashboard_u1", []byte("a"), time.Minute))
	require.NoError(t, m.Set(ctx, "instructor_dashboard_u2", []byte("b"), time.Minute))
	require.NoError(t, m.Set(ctx, "student_dashboard_u1", []byte("c"), time.Minute))

	require.NoError(t, m.Invalidate(ctx, "instructor_dashboard_*"))

	_, ok := m.Get(ctx, "instructor_dashboard_u1")
	require.False(t, ok)
	_, ok = m.Get(ctx, "instructor_dashboard_u2")
	require.False(t, ok)

	// Other views are untouched.
	_, ok = m.Get(ctx, "student_dashboard_u1")
	require.True(t, ok)
}

func TestMemoryEvictsAtCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(MemoryConfig{Capacity: 2, DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, m.Set(ctx, "c", []byte("3"), time.Minute))

	require.Equal(t, 2, m.Size())
	// "a" was the least recently used entry.
	_, ok := m.Get(ctx, "a")
	require.False(t, ok)
}

func TestMemoryReplaceIsWhole(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Set(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, m.Set(ctx, "k", []byte("new"), time.Minute))

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, []byte("new"), got)
	require.Equal(t, 1, m.Size())
}
