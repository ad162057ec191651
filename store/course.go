package store

import (
	"context"

	"github.com/learnloop/learnloop/server/cachekey"
)

// Course is the object representing a marketplace course.
type Course struct {
	ID           int32
	UID          string
	RowStatus    RowStatus
	CreatedTs    int64
	UpdatedTs    int64
	InstructorID int32
	Title        string
	// Description is raw markdown; rendering happens at the edge.
	Description string
	Category    string
	PriceCents  int64
	Published   bool
}

// FindCourse is the find condition for course.
type FindCourse struct {
	ID           *int32
	UID          *string
	InstructorID *int32
	Category     *string
	Published    *bool
	RowStatus    *RowStatus

	// IDs filters to courses whose ID is in the list. Lists longer than
	// BatchChunkLimit must go through ListCoursesByIDs.
	IDs []int32

	Limit  *int
	Offset *int
}

// UpdateCourse is the update request for course.
type UpdateCourse struct {
	ID          int32
	UpdatedTs   *int64
	RowStatus   *RowStatus
	Title       *string
	Description *string
	Category    *string
	PriceCents  *int64
	Published   *bool
}

// DeleteCourse is the delete condition for course.
type DeleteCourse struct {
	ID int32
}

func (s *Store) CreateCourse(ctx context.Context, create *Course) (*Course, error) {
	course, err := s.driver.CreateCourse(ctx, create)
	if err != nil {
		return nil, err
	}
	s.courseCache.Set(cachekey.CourseRecord(course.UID), course)
	return course, nil
}

func (s *Store) UpdateCourse(ctx context.Context, update *UpdateCourse) (*Course, error) {
	course, err := s.driver.UpdateCourse(ctx, update)
	if err != nil {
		return nil, err
	}
	s.courseCache.Delete(cachekey.CourseRecord(course.UID))
	return course, nil
}

func (s *Store) ListCourses(ctx context.Context, find *FindCourse) ([]*Course, error) {
	return s.driver.ListCourses(ctx, find)
}

// GetCourse returns a single course matching find, or nil when absent.
// Lookups by UID are served from the local entity cache when possible.
func (s *Store) GetCourse(ctx context.Context, find *FindCourse) (*Course, error) {
	if find.UID != nil && find.ID == nil {
		if course, ok := s.courseCache.Get(cachekey.CourseRecord(*find.UID)); ok {
			return course.(*Course), nil
		}
	}

	list, err := s.ListCourses(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	course := list[0]
	s.courseCache.Set(cachekey.CourseRecord(course.UID), course)
	return course, nil
}

// ListCoursesByIDs resolves an arbitrarily large ID set through chunked
// queries, respecting the per-query ID-list ceiling.
func (s *Store) ListCoursesByIDs(ctx context.Context, ids []int32) ([]*Course, error) {
	return queryInChunks(ctx, ids, s.batchChunkSize, func(ctx context.Context, chunk []int32) ([]*Course, error) {
		return s.driver.ListCourses(ctx, &FindCourse{IDs: chunk})
	})
}

func (s *Store) DeleteCourse(ctx context.Context, delete *DeleteCourse) error {
	course, err := s.GetCourse(ctx, &FindCourse{ID: &delete.ID})
	if err != nil {
		return err
	}
	if err := s.driver.DeleteCourse(ctx, delete); err != nil {
		return err
	}
	if course != nil {
		s.courseCache.Delete(cachekey.CourseRecord(course.UID))
	}
	return nil
}
