package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/internal/observability"
	"github.com/learnloop/learnloop/server/middleware"
)

// GetDashboard returns the composite view for the caller's role.
// GET /api/v1/dashboard
func (s *APIV1Service) GetDashboard(c echo.Context) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	start := time.Now()
	dto, err := s.Dashboard.GetDashboard(c.Request().Context(), principal)
	if err != nil {
		return errorResponse(c, err)
	}
	s.logger.Info("served dashboard",
		observability.LogFieldUserID, int(principal.UserID),
		observability.LogFieldRole, principal.Role.String(),
		observability.LogFieldDuration, time.Since(start).Milliseconds(),
	)
	return c.JSON(http.StatusOK, dto)
}

// GetCoursePerformance narrows the instructor dashboard to one course with
// per-student progress.
// GET /api/v1/instructor/courses/:uid/performance
func (s *APIV1Service) GetCoursePerformance(c echo.Context) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	detail, err := s.Dashboard.CoursePerformanceDetail(c.Request().Context(), principal, c.Param("uid"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
