package store

import "context"

// Enrollment links a student to a course.
type Enrollment struct {
	ID          int32
	CourseID    int32
	StudentID   int32
	EnrolledTs  int64
	CompletedTs *int64
}

// FindEnrollment is the find condition for enrollment.
type FindEnrollment struct {
	ID        *int32
	CourseID  *int32
	StudentID *int32
	Completed *bool

	// CourseIDs filters to enrollments in any of the listed courses. The
	// underlying store accepts at most BatchChunkLimit values per query;
	// larger sets must go through ListEnrollmentsByCourseIDs.
	CourseIDs []int32

	Limit  *int
	Offset *int
}

// UpdateEnrollment is the update request for enrollment.
type UpdateEnrollment struct {
	ID          int32
	CompletedTs *int64
}

// DeleteEnrollment is the delete condition for enrollment.
type DeleteEnrollment struct {
	ID int32
}

func (s *Store) CreateEnrollment(ctx context.Context, create *Enrollment) (*Enrollment, error) {
	return s.driver.CreateEnrollment(ctx, create)
}

func (s *Store) ListEnrollments(ctx context.Context, find *FindEnrollment) ([]*Enrollment, error) {
	return s.driver.ListEnrollments(ctx, find)
}

func (s *Store) UpdateEnrollment(ctx context.Context, update *UpdateEnrollment) (*Enrollment, error) {
	return s.driver.UpdateEnrollment(ctx, update)
}

func (s *Store) DeleteEnrollment(ctx context.Context, delete *DeleteEnrollment) error {
	return s.driver.DeleteEnrollment(ctx, delete)
}

// ListEnrollmentsByCourseIDs resolves enrollments across an arbitrarily large
// course-ID set through chunked queries.
func (s *Store) ListEnrollmentsByCourseIDs(ctx context.Context, courseIDs []int32) ([]*Enrollment, error) {
	return queryInChunks(ctx, courseIDs, s.batchChunkSize, func(ctx context.Context, chunk []int32) ([]*Enrollment, error) {
		return s.driver.ListEnrollments(ctx, &FindEnrollment{CourseIDs: chunk})
	})
}

// DistinctStudentIDsByCourseIDs returns the set of student IDs enrolled in
// any of the given courses. The accumulator is a set so a student enrolled in
// courses spanning multiple chunks is counted once.
func (s *Store) DistinctStudentIDsByCourseIDs(ctx context.Context, courseIDs []int32) ([]int32, error) {
	enrollments, err := s.ListEnrollmentsByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[int32]struct{}, len(enrollments))
	ids := make([]int32, 0, len(enrollments))
	for _, e := range enrollments {
		if _, ok := seen[e.StudentID]; ok {
			continue
		}
		seen[e.StudentID] = struct{}{}
		ids = append(ids, e.StudentID)
	}
	return ids, nil
}
