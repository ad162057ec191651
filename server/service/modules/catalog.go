package modules

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// CatalogService owns course records.
type CatalogService struct {
	store  *store.Store
	shared cache.Shared
	logger *slog.Logger
}

// ListByInstructor returns every course owned by the instructor.
func (s *CatalogService) ListByInstructor(ctx context.Context, instructorID int32) ([]*store.Course, error) {
	return s.store.ListCourses(ctx, &store.FindCourse{InstructorID: &instructorID})
}

// ListPublished returns published courses, optionally filtered by category.
func (s *CatalogService) ListPublished(ctx context.Context, category *string) ([]*store.Course, error) {
	published := true
	return s.store.ListCourses(ctx, &store.FindCourse{Published: &published, Category: category})
}

// GetByUID returns one course or nil.
func (s *CatalogService) GetByUID(ctx context.Context, courseUID string) (*store.Course, error) {
	return s.store.GetCourse(ctx, &store.FindCourse{UID: &courseUID})
}

// ListByIDs resolves an arbitrarily large course-ID set.
func (s *CatalogService) ListByIDs(ctx context.Context, ids []int32) ([]*store.Course, error) {
	return s.store.ListCoursesByIDs(ctx, ids)
}

// CountAll returns the number of courses on the marketplace.
func (s *CatalogService) CountAll(ctx context.Context) (int, error) {
	courses, err := s.store.ListCourses(ctx, &store.FindCourse{})
	if err != nil {
		return 0, err
	}
	return len(courses), nil
}

// CreateCourse creates a draft course for the instructor.
func (s *CatalogService) CreateCourse(ctx context.Context, create *store.Course) (*store.Course, error) {
	if create.Title == "" {
		return nil, errors.New("course title is required")
	}
	create.UID = uuid.NewString()

	course, err := s.store.CreateCourse(ctx, create)
	if err != nil {
		return nil, err
	}
	s.applyEffects(ctx, mutation.CreateCourse)
	return course, nil
}

// UpdateCourse updates course fields.
func (s *CatalogService) UpdateCourse(ctx context.Context, update *store.UpdateCourse) (*store.Course, error) {
	now := time.Now().Unix()
	update.UpdatedTs = &now

	course, err := s.store.UpdateCourse(ctx, update)
	if err != nil {
		return nil, err
	}
	s.applyEffects(ctx, mutation.UpdateCourse)
	return course, nil
}

// PublishCourse flips a course to published and records the activity.
func (s *CatalogService) PublishCourse(ctx context.Context, courseID int32) (*store.Course, error) {
	published := true
	now := time.Now().Unix()
	course, err := s.store.UpdateCourse(ctx, &store.UpdateCourse{
		ID:        courseID,
		Published: &published,
		UpdatedTs: &now,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.CreateActivity(ctx, &store.Activity{
		UID:      shortuuid.New(),
		ActorID:  course.InstructorID,
		Kind:     store.ActivityPublishedCourse,
		CourseID: course.ID,
		Message:  "published course " + course.Title,
	}); err != nil {
		s.logger.Warn("failed to record publish activity", "course_id", course.ID, "error", err)
	}

	s.applyEffects(ctx, mutation.PublishCourse)
	return course, nil
}

// DeleteCourse removes a course.
func (s *CatalogService) DeleteCourse(ctx context.Context, courseID int32) error {
	if err := s.store.DeleteCourse(ctx, &store.DeleteCourse{ID: courseID}); err != nil {
		return err
	}
	s.applyEffects(ctx, mutation.DeleteCourse)
	return nil
}

func (s *CatalogService) applyEffects(ctx context.Context, name string) {
	applyEffects(ctx, name, s.store, s.shared, s.logger)
}
