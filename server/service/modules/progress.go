package modules

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// ProgressService owns per-enrollment progress tracking.
type ProgressService struct {
	store  *store.Store
	shared cache.Shared
	logger *slog.Logger
}

// ListByStudent returns progress rows for one student.
func (s *ProgressService) ListByStudent(ctx context.Context, studentID int32) ([]*store.Progress, error) {
	return s.store.ListProgress(ctx, &store.FindProgress{StudentID: &studentID})
}

// ListByCourseIDs resolves progress rows across an arbitrarily large
// course-ID set through the batched store query.
func (s *ProgressService) ListByCourseIDs(ctx context.Context, courseIDs []int32) ([]*store.Progress, error) {
	return s.store.ListProgressByCourseIDs(ctx, courseIDs)
}

// GetByEnrollment returns the progress row for one enrollment, or nil.
func (s *ProgressService) GetByEnrollment(ctx context.Context, enrollmentID int32) (*store.Progress, error) {
	list, err := s.store.ListProgress(ctx, &store.FindProgress{EnrollmentID: &enrollmentID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// CompleteItem advances an enrollment by one completed item and records the
// activity. Completing the final item does not auto-complete the enrollment;
// that is the enrollment service's explicit CompleteCourse write.
func (s *ProgressService) CompleteItem(ctx context.Context, enrollmentID int32) (*store.Progress, error) {
	current, err := s.GetByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.Errorf("no progress row for enrollment %d", enrollmentID)
	}
	if current.CompletedItems >= current.TotalItems {
		return current, nil
	}

	progress, err := s.store.UpsertProgress(ctx, &store.UpsertProgress{
		EnrollmentID:   current.EnrollmentID,
		StudentID:      current.StudentID,
		CourseID:       current.CourseID,
		CompletedItems: current.CompletedItems + 1,
		TotalItems:     current.TotalItems,
		UpdatedTs:      time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.CreateActivity(ctx, &store.Activity{
		UID:      shortuuid.New(),
		ActorID:  progress.StudentID,
		Kind:     store.ActivityCompletedItem,
		CourseID: progress.CourseID,
		Message:  "completed a course item",
	}); err != nil {
		s.logger.Warn("failed to record item activity", "course_id", progress.CourseID, "error", err)
	}

	s.applyEffects(ctx, mutation.CompleteItem)
	return progress, nil
}

// InitForEnrollment seeds a zero-progress row when an enrollment is created.
func (s *ProgressService) InitForEnrollment(ctx context.Context, enrollment *store.Enrollment, totalItems int32) (*store.Progress, error) {
	return s.store.UpsertProgress(ctx, &store.UpsertProgress{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
		TotalItems:   totalItems,
		UpdatedTs:    time.Now().Unix(),
	})
}

func (s *ProgressService) applyEffects(ctx context.Context, name string) {
	applyEffects(ctx, name, s.store, s.shared, s.logger)
}
