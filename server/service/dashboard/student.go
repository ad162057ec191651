package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnloop/learnloop/server/auth"
	"github.com/learnloop/learnloop/server/cachekey"
	apperrors "github.com/learnloop/learnloop/server/internal/errors"
	"github.com/learnloop/learnloop/store"
)

// StudentDashboard assembles the student's composite view.
func (s *Service) StudentDashboard(ctx context.Context, principal auth.Principal) (*StudentDTO, error) {
	if !principal.CanViewStudentDashboard() {
		return nil, apperrors.Unauthorized("principal may not view the student dashboard")
	}

	key := cachekey.StudentDashboard(principal.UID)
	var cached StudentDTO
	if s.readCached(ctx, key, &cached) {
		return &cached, nil
	}

	fanCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
	defer cancel()

	var (
		enrollments []*store.Enrollment
		progress    []*store.Progress
	)
	g, gctx := errgroup.WithContext(fanCtx)
	g.Go(func() error {
		var err error
		enrollments, err = s.modules.Enrollments.ListByStudent(gctx, principal.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.modules.Progress.ListByStudent(gctx, principal.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, buildError("student", err)
	}

	courseIDs := make([]int32, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	var (
		courses    []*store.Course
		activities []*store.Activity
	)
	g, gctx = errgroup.WithContext(fanCtx)
	g.Go(func() error {
		var err error
		courses, err = s.modules.Catalog.ListByIDs(gctx, courseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.modules.Activities.ListByActor(gctx, principal.UserID, recentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, buildError("student", err)
	}

	coursesByID := make(map[int32]*store.Course, len(courses))
	for _, c := range courses {
		coursesByID[c.ID] = c
	}
	progressByCourse := make(map[int32]*store.Progress, len(progress))
	for _, p := range progress {
		progressByCourse[p.CourseID] = p
	}

	dto := &StudentDTO{
		Courses: make([]EnrolledCourse, 0, len(enrollments)),
	}
	var progressSum float64
	for _, e := range enrollments {
		course, ok := coursesByID[e.CourseID]
		if !ok {
			continue
		}
		var percent float64
		if p, ok := progressByCourse[e.CourseID]; ok {
			percent = p.Percent()
		}
		progressSum += percent
		completed := e.CompletedTs != nil
		if completed {
			dto.Stats.CompletedCourses++
		}
		dto.Courses = append(dto.Courses, EnrolledCourse{
			UID:       course.UID,
			Title:     course.Title,
			Category:  course.Category,
			Progress:  percent,
			Completed: completed,
		})
	}
	dto.Stats.EnrolledCourses = len(enrollments)
	if len(dto.Courses) > 0 {
		dto.Stats.AverageProgress = progressSum / float64(len(dto.Courses))
	}
	dto.RecentActivity = renderActivities(activities, time.Now())

	s.writeCached(ctx, key, dto)
	return dto, nil
}
