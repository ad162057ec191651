package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func makeIDs(n int) []int32 {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i + 1)
	}
	return ids
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		size       int
		wantChunks int
	}{
		{"empty", 0, 10, 0},
		{"one", 1, 10, 1},
		{"under limit", 9, 10, 1},
		{"exactly limit", 10, 10, 1},
		{"limit plus one", 11, 10, 2},
		{"two full chunks", 20, 10, 2},
		{"general ceil", 25, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkIDs(makeIDs(tt.n), tt.size)
			require.Len(t, chunks, tt.wantChunks)

			// Every chunk respects the ceiling and no ID is lost.
			total := 0
			for _, c := range chunks {
				require.LessOrEqual(t, len(c), tt.size)
				total += len(c)
			}
			require.Equal(t, tt.n, total)
		})
	}
}

func TestQueryInChunksQueryCount(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		n           int
		wantQueries int32
	}{
		{0, 0},
		{10, 1},
		{11, 2},
		{35, 4},
	} {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			var queries atomic.Int32
			results, err := queryInChunks(ctx, makeIDs(tt.n), 10, func(_ context.Context, chunk []int32) ([]int32, error) {
				queries.Add(1)
				return chunk, nil
			})
			require.NoError(t, err)
			require.Equal(t, tt.wantQueries, queries.Load())
			require.Len(t, results, tt.n)
		})
	}
}

func TestQueryInChunksEmptyIssuesNoQuery(t *testing.T) {
	called := false
	results, err := queryInChunks(context.Background(), nil, 10, func(_ context.Context, _ []int32) ([]int32, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	require.Nil(t, results)
	require.False(t, called)
}

func TestQueryInChunksWholeBatchFails(t *testing.T) {
	var queries atomic.Int32
	_, err := queryInChunks(context.Background(), makeIDs(25), 10, func(_ context.Context, chunk []int32) ([]int32, error) {
		n := queries.Add(1)
		if n == 2 {
			return nil, errors.New("store unavailable")
		}
		return chunk, nil
	})
	// A partial ID-set result would silently under-report, so one failing
	// chunk fails everything.
	require.Error(t, err)
	require.Contains(t, err.Error(), "store unavailable")
}

func TestDistinctStudentIDsAcrossChunks(t *testing.T) {
	ctx := context.Background()

	// 11 courses forces two chunk queries (10 + 1). Student 7 is enrolled in
	// course 1 (first chunk) and course 11 (second chunk) and must be
	// counted once.
	driver := &fakeDriver{
		enrollments: func(find *FindEnrollment) []*Enrollment {
			var out []*Enrollment
			for _, courseID := range find.CourseIDs {
				out = append(out, &Enrollment{CourseID: courseID, StudentID: courseID % 5})
				if courseID == 1 || courseID == 11 {
					out = append(out, &Enrollment{CourseID: courseID, StudentID: 7})
				}
			}
			return out
		},
	}
	s := New(driver, nil)

	ids, err := s.DistinctStudentIDsByCourseIDs(ctx, makeIDs(11))
	require.NoError(t, err)
	require.Equal(t, int32(2), driver.enrollmentQueries.Load())

	seen := map[int32]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "student %d returned twice", id)
		seen[id] = true
	}
	require.True(t, seen[7])
}

// fakeDriver implements the enrollment read path; everything else panics.
type fakeDriver struct {
	Driver

	mu                sync.Mutex
	enrollments       func(find *FindEnrollment) []*Enrollment
	enrollmentQueries atomic.Int32
}

func (d *fakeDriver) ListEnrollments(_ context.Context, find *FindEnrollment) ([]*Enrollment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enrollmentQueries.Add(1)
	if len(find.CourseIDs) > BatchChunkLimit {
		return nil, errors.Errorf("query exceeds ID-list ceiling: %d > %d", len(find.CourseIDs), BatchChunkLimit)
	}
	return d.enrollments(find), nil
}

func (d *fakeDriver) Close() error { return nil }
