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

// AdminDashboard assembles the marketplace-wide operator view.
func (s *Service) AdminDashboard(ctx context.Context, principal auth.Principal) (*AdminDTO, error) {
	if !principal.CanViewAdminDashboard() {
		return nil, apperrors.Unauthorized("principal may not view the admin dashboard")
	}

	key := cachekey.AdminDashboard(principal.UID)
	var cached AdminDTO
	if s.readCached(ctx, key, &cached) {
		return &cached, nil
	}

	fanCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
	defer cancel()

	var (
		studentCount    int
		instructorCount int
		courses         []*store.Course
		enrollmentCount int
		totalRevenue    int64
		revenueTrends   []modules.RevenuePoint
		activities      []*store.Activity
	)
	g, gctx := errgroup.WithContext(fanCtx)
	g.Go(func() error {
		var err error
		studentCount, err = s.modules.Users.CountByRole(gctx, store.RoleStudent)
		return err
	})
	g.Go(func() error {
		var err error
		instructorCount, err = s.modules.Users.CountByRole(gctx, store.RoleInstructor)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = s.modules.Catalog.ListPublished(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		enrollmentCount, err = s.modules.Enrollments.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalRevenue, err = s.modules.Payments.TotalRevenueCents(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		revenueTrends, err = s.modules.Payments.RevenueTrends(gctx, nil, 6)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.modules.Activities.ListRecent(gctx, recentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, buildError("admin", err)
	}

	// Course performance is the per-item enrichment stage; one course's
	// stats failing degrades that row, never the whole view.
	performance := make([]CoursePerformance, len(courses))
	var mu sync.Mutex
	g, gctx = errgroup.WithContext(fanCtx)
	for i, course := range courses {
		g.Go(func() error {
			stats, err := s.courseStats(gctx, course.ID)
			if err != nil {
				s.logger.Warn("degrading course stats to defaults",
					observability.LogFieldView, "admin_dashboard",
					"course_id", course.ID,
					"error", err,
				)
				stats = CourseStats{}
			}
			mu.Lock()
			performance[i] = CoursePerformance{
				CourseUID: course.UID,
				Title:     course.Title,
				Stats:     stats,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, buildError("admin", err)
	}

	dto := &AdminDTO{
		Stats: AdminStats{
			TotalUsers:        studentCount + instructorCount,
			TotalStudents:     studentCount,
			TotalInstructors:  instructorCount,
			TotalCourses:      len(courses),
			TotalEnrollments:  enrollmentCount,
			TotalRevenueCents: totalRevenue,
		},
		RevenueTrends:     revenueTrends,
		RecentActivity:    renderActivities(activities, time.Now()),
		CoursePerformance: performance,
	}

	s.writeCached(ctx, key, dto)
	return dto, nil
}
