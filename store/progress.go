package store

import "context"

// Progress tracks a student's advancement through one course.
type Progress struct {
	ID             int32
	EnrollmentID   int32
	StudentID      int32
	CourseID       int32
	CompletedItems int32
	TotalItems     int32
	UpdatedTs      int64
}

// Percent returns completion as a 0-100 value.
func (p *Progress) Percent() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.CompletedItems) / float64(p.TotalItems) * 100
}

// FindProgress is the find condition for progress.
type FindProgress struct {
	ID           *int32
	EnrollmentID *int32
	StudentID    *int32
	CourseID     *int32

	// CourseIDs filters to progress rows in any of the listed courses,
	// subject to the per-query ID-list ceiling.
	CourseIDs []int32

	Limit  *int
	Offset *int
}

// UpsertProgress is the upsert request for progress, keyed by enrollment.
type UpsertProgress struct {
	EnrollmentID   int32
	StudentID      int32
	CourseID       int32
	CompletedItems int32
	TotalItems     int32
	UpdatedTs      int64
}

func (s *Store) UpsertProgress(ctx context.Context, upsert *UpsertProgress) (*Progress, error) {
	return s.driver.UpsertProgress(ctx, upsert)
}

func (s *Store) ListProgress(ctx context.Context, find *FindProgress) ([]*Progress, error) {
	return s.driver.ListProgress(ctx, find)
}

// ListProgressByCourseIDs resolves progress rows across an arbitrarily large
// course-ID set through chunked queries.
func (s *Store) ListProgressByCourseIDs(ctx context.Context, courseIDs []int32) ([]*Progress, error) {
	return queryInChunks(ctx, courseIDs, s.batchChunkSize, func(ctx context.Context, chunk []int32) ([]*Progress, error) {
		return s.driver.ListProgress(ctx, &FindProgress{CourseIDs: chunk})
	})
}
