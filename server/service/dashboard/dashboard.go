// Package dashboard builds the per-role composite views. Each orchestrator
// follows the same sequence: authorize, try the shared cache, fan out to the
// module services on a miss, assemble the DTO, then cache it best-effort.
// Caching is an optimization only; every step that touches the shared cache
// degrades to the uncached path on failure.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/server/auth"
	"github.com/learnloop/learnloop/server/cachekey"
	apperrors "github.com/learnloop/learnloop/server/internal/errors"
	"github.com/learnloop/learnloop/server/internal/observability"
	"github.com/learnloop/learnloop/server/service/modules"
	"github.com/learnloop/learnloop/server/timefmt"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

const recentActivityLimit = 10

// Service builds role-scoped dashboards over the module services.
type Service struct {
	modules *modules.Services
	shared  cache.Shared
	logger  *slog.Logger

	ttl           time.Duration
	fanoutTimeout time.Duration
}

// NewService wires a dashboard service. shared may be nil, which disables
// composite-view caching entirely.
func NewService(mods *modules.Services, shared cache.Shared, p *profile.Profile, logger *slog.Logger) *Service {
	ttl := 300 * time.Second
	fanout := 10 * time.Second
	if p != nil {
		if p.DashboardTTL > 0 {
			ttl = p.DashboardTTL
		}
		if p.FanoutTimeout > 0 {
			fanout = p.FanoutTimeout
		}
	}
	return &Service{
		modules:       mods,
		shared:        shared,
		logger:        logger,
		ttl:           ttl,
		fanoutTimeout: fanout,
	}
}

// GetDashboard dispatches to the role's orchestrator. The switch is
// exhaustive over the closed role set; an unknown role is a hard error, not
// a fallback to some default view.
func (s *Service) GetDashboard(ctx context.Context, principal auth.Principal) (any, error) {
	switch principal.Role {
	case auth.RoleStudent:
		return s.StudentDashboard(ctx, principal)
	case auth.RoleInstructor:
		return s.InstructorDashboard(ctx, principal)
	case auth.RoleAdmin:
		return s.AdminDashboard(ctx, principal)
	}
	return nil, apperrors.InvalidArgument("unknown role " + principal.Role.String())
}

// readCached attempts a shared-cache read into dest. Any failure, including
// a payload that no longer unmarshals, counts as a miss.
func (s *Service) readCached(ctx context.Context, key cachekey.Key, dest any) bool {
	if s.shared == nil {
		return false
	}
	payload, ok := s.shared.Get(ctx, key.String())
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		s.logger.Warn("discarding undecodable cached dashboard",
			observability.LogFieldCacheKey, key.String(),
			"error", err,
		)
		return false
	}
	return true
}

// writeCached stores an assembled DTO with the configured TTL. Failure is
// logged and swallowed; the caller already holds the DTO.
func (s *Service) writeCached(ctx context.Context, key cachekey.Key, dto any) {
	if s.shared == nil {
		return
	}
	payload, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("failed to encode dashboard for caching",
			observability.LogFieldCacheKey, key.String(),
			"error", err,
		)
		return
	}
	if err := s.shared.Set(ctx, key.String(), payload, s.ttl); err != nil {
		s.logger.Warn("failed to cache dashboard",
			observability.LogFieldCacheKey, key.String(),
			"error", err,
		)
	}
}

// buildError classifies a fan-out failure for the caller: a blown deadline
// is retry-safe, and so is a plain upstream failure.
func buildError(view string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout("timed out building "+view+" dashboard", err)
	}
	return apperrors.UpstreamFailed("failed to build "+view+" dashboard", err)
}

// courseStats computes one course's statistics. Failures are the caller's
// problem; the orchestrators degrade them to the zero value per course.
func (s *Service) courseStats(ctx context.Context, courseID int32) (CourseStats, error) {
	enrollments, err := s.modules.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return CourseStats{}, err
	}
	progress, err := s.modules.Progress.ListByCourseIDs(ctx, []int32{courseID})
	if err != nil {
		return CourseStats{}, err
	}

	stats := CourseStats{TotalStudents: len(enrollments)}
	for _, e := range enrollments {
		if e.CompletedTs != nil {
			stats.CompletedCount++
		}
	}
	if stats.TotalStudents > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.TotalStudents) * 100
	}
	if len(progress) > 0 {
		var sum float64
		for _, p := range progress {
			sum += p.Percent()
		}
		stats.AverageProgress = sum / float64(len(progress))
	}
	return stats, nil
}

// renderActivities sorts feed events newest first, truncates, and renders
// relative timestamps.
func renderActivities(activities []*store.Activity, now time.Time) []ActivityItem {
	sorted := make([]*store.Activity, len(activities))
	copy(sorted, activities)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedTs > sorted[j].CreatedTs })
	if len(sorted) > recentActivityLimit {
		sorted = sorted[:recentActivityLimit]
	}

	items := make([]ActivityItem, 0, len(sorted))
	for _, a := range sorted {
		items = append(items, ActivityItem{
			UID:     a.UID,
			Kind:    string(a.Kind),
			Message: a.Message,
			When:    timefmt.Relative(now, time.Unix(a.CreatedTs, 0)),
		})
	}
	return items
}
