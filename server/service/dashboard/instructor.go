package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnloop/learnloop/server/auth"
	"github.com/learnloop/learnloop/server/cachekey"
	apperrors "github.com/learnloop/learnloop/server/internal/errors"
	"github.com/learnloop/learnloop/server/internal/observability"
	"github.com/learnloop/learnloop/server/service/modules"
	"github.com/learnloop/learnloop/store"
)

// InstructorDashboard assembles the instructor's composite view.
func (s *Service) InstructorDashboard(ctx context.Context, principal auth.Principal) (*InstructorDTO, error) {
	if !principal.CanViewInstructorDashboard() {
		return nil, apperrors.Unauthorized("principal may not view the instructor dashboard")
	}

	key := cachekey.InstructorDashboard(principal.UID)
	var cached InstructorDTO
	if s.readCached(ctx, key, &cached) {
		return &cached, nil
	}

	fanCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
	defer cancel()

	// First stage: everything derivable from the principal alone.
	var (
		courses       []*store.Course
		revenueTrends []modules.RevenuePoint
		totalRevenue  int64
	)
	g, gctx := errgroup.WithContext(fanCtx)
	g.Go(func() error {
		var err error
		courses, err = s.modules.Catalog.ListByInstructor(gctx, principal.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		revenueTrends, err = s.modules.Payments.RevenueTrends(gctx, &principal.UserID, 6)
		return err
	})
	g.Go(func() error {
		var err error
		totalRevenue, err = s.modules.Payments.TotalRevenueCents(gctx, &principal.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, buildError("instructor", err)
	}

	courseIDs := make([]int32, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	// Second stage: reads keyed by the course-ID set. The distinct-students
	// and activity reads go through the batched store queries and fail the
	// whole build on error; per-course stats degrade per item instead.
	var (
		studentIDs []int32
		activities []*store.Activity
	)
	statsByID := make(map[int32]CourseStats, len(courses))
	var statsMu sync.Mutex

	g, gctx = errgroup.WithContext(fanCtx)
	g.Go(func() error {
		var err error
		studentIDs, err = s.modules.Enrollments.DistinctStudentIDs(gctx, courseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.modules.Activities.ListByCourseIDs(gctx, courseIDs)
		return err
	})
	for _, course := range courses {
		g.Go(func() error {
			stats, err := s.courseStats(gctx, course.ID)
			if err != nil {
				s.logger.Warn("degrading course stats to defaults",
					observability.LogFieldView, "instructor_dashboard",
					"course_id", course.ID,
					"error", err,
				)
				stats = CourseStats{}
			}
			statsMu.Lock()
			statsByID[course.ID] = stats
			statsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, buildError("instructor", err)
	}

	published := 0
	for _, c := range courses {
		if c.Published {
			published++
		}
	}

	now := time.Now()
	dto := &InstructorDTO{
		Stats: InstructorStats{
			TotalCourses:      len(courses),
			PublishedCourses:  published,
			TotalStudents:     len(studentIDs),
			TotalRevenueCents: totalRevenue,
		},
		RevenueTrends:     revenueTrends,
		RecentActivity:    renderActivities(activities, now),
		CoursePerformance: make([]CoursePerformance, 0, len(courses)),
		Courses:           make([]CourseSummary, 0, len(courses)),
	}
	for _, c := range courses {
		stats := statsByID[c.ID]
		dto.CoursePerformance = append(dto.CoursePerformance, CoursePerformance{
			CourseUID: c.UID,
			Title:     c.Title,
			Stats:     stats,
		})
		dto.Courses = append(dto.Courses, CourseSummary{
			UID:        c.UID,
			Title:      c.Title,
			Category:   c.Category,
			PriceCents: c.PriceCents,
			Published:  c.Published,
			Stats:      stats,
		})
	}

	s.writeCached(ctx, key, dto)
	return dto, nil
}
