package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/middleware"
)

type enrollResponse struct {
	EnrollmentID int32  `json:"enrollmentId"`
	CourseUID    string `json:"courseUid"`
}

// Enroll enrolls the calling student in a course and seeds its progress row.
// POST /api/v1/courses/:uid/enroll
func (s *APIV1Service) Enroll(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	if !principal.CanViewStudentDashboard() {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "only students can enroll"})
	}

	ctx := c.Request().Context()
	course, err := s.Modules.Catalog.GetByUID(ctx, c.Param("uid"))
	if err != nil {
		return errorResponse(c, err)
	}
	if course == nil || !course.Published {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "course not found"})
	}

	existing, err := s.Modules.Enrollments.ListByStudent(ctx, principal.UserID)
	if err != nil {
		return errorResponse(c, err)
	}
	for _, e := range existing {
		if e.CourseID == course.ID {
			return c.JSON(http.StatusConflict, map[string]string{"error": "already enrolled"})
		}
	}

	enrollment, err := s.Modules.Enrollments.Enroll(ctx, principal.UserID, course.ID)
	if err != nil {
		return errorResponse(c, err)
	}
	if _, err := s.Modules.Progress.InitForEnrollment(ctx, enrollment, courseItemCount(course.Description)); err != nil {
		s.logger.Warn("failed to seed progress row", "enrollment_id", enrollment.ID, "error", err)
	}
	return c.JSON(http.StatusOK, enrollResponse{
		EnrollmentID: enrollment.ID,
		CourseUID:    course.UID,
	})
}

// CompleteItem advances the caller's enrollment by one item.
// POST /api/v1/enrollments/:id/complete-item
func (s *APIV1Service) CompleteItem(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	enrollmentID, ok := s.callerEnrollmentID(c, principal.UserID)
	if !ok {
		return nil
	}

	progress, err := s.Modules.Progress.CompleteItem(c.Request().Context(), enrollmentID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"completedItems": progress.CompletedItems,
		"totalItems":     progress.TotalItems,
		"percent":        progress.Percent(),
	})
}

// CompleteCourse marks the caller's enrollment completed.
// POST /api/v1/enrollments/:id/complete
func (s *APIV1Service) CompleteCourse(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	enrollmentID, ok := s.callerEnrollmentID(c, principal.UserID)
	if !ok {
		return nil
	}

	enrollment, err := s.Modules.Enrollments.CompleteCourse(c.Request().Context(), enrollmentID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"enrollmentId": enrollment.ID,
		"completed":    enrollment.CompletedTs != nil,
	})
}

// callerEnrollmentID parses :id and verifies the enrollment belongs to the
// caller. On failure the HTTP response has already been written.
func (s *APIV1Service) callerEnrollmentID(c echo.Context, userID int32) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid enrollment id"})
		return 0, false
	}

	enrollments, err := s.Modules.Enrollments.ListByStudent(c.Request().Context(), userID)
	if err != nil {
		_ = errorResponse(c, err)
		return 0, false
	}
	for _, e := range enrollments {
		if e.ID == int32(id) {
			return int32(id), true
		}
	}
	_ = c.JSON(http.StatusNotFound, map[string]string{"error": "enrollment not found"})
	return 0, false
}

// courseItemCount derives the item total from the course outline. Each
// top-level heading in the description is one item; a course without an
// outline gets a single item so completion stays reachable.
func courseItemCount(description string) int32 {
	count := int32(0)
	for _, line := range strings.Split(description, "\n") {
		if strings.HasPrefix(line, "# ") {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}
