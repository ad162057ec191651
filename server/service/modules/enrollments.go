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

// EnrollmentService owns the student-course relation.
type EnrollmentService struct {
	store  *store.Store
	shared cache.Shared
	logger *slog.Logger
}

// ListByStudent returns every enrollment for one student.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int32) ([]*store.Enrollment, error) {
	return s.store.ListEnrollments(ctx, &store.FindEnrollment{StudentID: &studentID})
}

// ListByCourse returns every enrollment in one course.
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID int32) ([]*store.Enrollment, error) {
	return s.store.ListEnrollments(ctx, &store.FindEnrollment{CourseID: &courseID})
}

// ListByCourseIDs resolves enrollments across an arbitrarily large course-ID
// set through the batched store query.
func (s *EnrollmentService) ListByCourseIDs(ctx context.Context, courseIDs []int32) ([]*store.Enrollment, error) {
	return s.store.ListEnrollmentsByCourseIDs(ctx, courseIDs)
}

// DistinctStudentIDs returns the deduplicated set of students enrolled in
// any of the given courses. This is the "get my students" read an instructor
// with more courses than the per-query ID ceiling exercises.
func (s *EnrollmentService) DistinctStudentIDs(ctx context.Context, courseIDs []int32) ([]int32, error) {
	return s.store.DistinctStudentIDsByCourseIDs(ctx, courseIDs)
}

// CountAll returns the number of enrollments on the marketplace.
func (s *EnrollmentService) CountAll(ctx context.Context) (int, error) {
	enrollments, err := s.store.ListEnrollments(ctx, &store.FindEnrollment{})
	if err != nil {
		return 0, err
	}
	return len(enrollments), nil
}

// Enroll enrolls a student in a course and records the activity.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID int32) (*store.Enrollment, error) {
	enrollment, err := s.store.CreateEnrollment(ctx, &store.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to enroll")
	}

	if _, err := s.store.CreateActivity(ctx, &store.Activity{
		UID:      shortuuid.New(),
		ActorID:  studentID,
		Kind:     store.ActivityEnrolled,
		CourseID: courseID,
		Message:  "enrolled in a course",
	}); err != nil {
		s.logger.Warn("failed to record enroll activity", "course_id", courseID, "error", err)
	}

	s.applyEffects(ctx, mutation.Enroll)
	return enrollment, nil
}

// CompleteCourse marks an enrollment completed and records the activity.
func (s *EnrollmentService) CompleteCourse(ctx context.Context, enrollmentID int32) (*store.Enrollment, error) {
	now := time.Now().Unix()
	enrollment, err := s.store.UpdateEnrollment(ctx, &store.UpdateEnrollment{
		ID:          enrollmentID,
		CompletedTs: &now,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.CreateActivity(ctx, &store.Activity{
		UID:      shortuuid.New(),
		ActorID:  enrollment.StudentID,
		Kind:     store.ActivityCompletedCourse,
		CourseID: enrollment.CourseID,
		Message:  "completed a course",
	}); err != nil {
		s.logger.Warn("failed to record completion activity", "course_id", enrollment.CourseID, "error", err)
	}

	s.applyEffects(ctx, mutation.CompleteCourse)
	return enrollment, nil
}

func (s *EnrollmentService) applyEffects(ctx context.Context, name string) {
	applyEffects(ctx, name, s.store, s.shared, s.logger)
}
