package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/middleware"
	"github.com/learnloop/learnloop/store"
)

type courseResponse struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// DescriptionHTML is the rendered form, present only on the detail view.
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
	Category        string `json:"category"`
	PriceCents      int64  `json:"priceCents"`
	Published       bool   `json:"published"`
}

type upsertCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	PriceCents  *int64  `json:"priceCents"`
}

func toCourseResponse(course *store.Course) courseResponse {
	return courseResponse{
		UID:         course.UID,
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		PriceCents:  course.PriceCents,
		Published:   course.Published,
	}
}

// ListCourses returns the published catalog, optionally filtered by category.
// GET /api/v1/courses
func (s *APIV1Service) ListCourses(c echo.Context) error {
	var category *string
	if v := c.QueryParam("category"); v != "" {
		category = &v
	}
	courses, err := s.Modules.Catalog.ListPublished(c.Request().Context(), category)
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseResponse(course))
	}
	return c.JSON(http.StatusOK, out)
}

// GetCourse returns one course with its description rendered to HTML.
// GET /api/v1/courses/:uid
func (s *APIV1Service) GetCourse(c echo.Context) error {
	course, err := s.Modules.Catalog.GetByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return errorResponse(c, err)
	}
	if course == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "course not found"})
	}

	resp := toCourseResponse(course)
	if html, err := s.MarkdownService.RenderHTML(course.Description); err == nil {
		resp.DescriptionHTML = html
	} else {
		s.logger.Warn("failed to render course description", "course_uid", course.UID, "error", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateCourse creates a draft course owned by the caller.
// POST /api/v1/courses
func (s *APIV1Service) CreateCourse(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	if !principal.CanManageCourse() {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "only instructors can create courses"})
	}

	var req upsertCourseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request"})
	}

	create := &store.Course{InstructorID: principal.UserID}
	if req.Title != nil {
		create.Title = *req.Title
	}
	if req.Description != nil {
		create.Description = *req.Description
	}
	if req.Category != nil {
		create.Category = *req.Category
	}
	if req.PriceCents != nil {
		create.PriceCents = *req.PriceCents
	}

	course, err := s.Modules.Catalog.CreateCourse(c.Request().Context(), create)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toCourseResponse(course))
}

// UpdateCourse updates fields of a course the caller owns.
// PATCH /api/v1/courses/:uid
func (s *APIV1Service) UpdateCourse(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	course, err := s.ownedCourse(c, principal.UserID)
	if err != nil {
		return err
	}

	var req upsertCourseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request"})
	}

	updated, err := s.Modules.Catalog.UpdateCourse(c.Request().Context(), &store.UpdateCourse{
		ID:          course.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toCourseResponse(updated))
}

// PublishCourse flips a course the caller owns to published.
// POST /api/v1/courses/:uid/publish
func (s *APIV1Service) PublishCourse(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	course, err := s.ownedCourse(c, principal.UserID)
	if err != nil {
		return err
	}

	published, err := s.Modules.Catalog.PublishCourse(c.Request().Context(), course.ID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toCourseResponse(published))
}

// DeleteCourse removes a course the caller owns.
// DELETE /api/v1/courses/:uid
func (s *APIV1Service) DeleteCourse(c echo.Context) error {
	principal, _ := middleware.PrincipalFrom(c)
	course, err := s.ownedCourse(c, principal.UserID)
	if err != nil {
		return err
	}

	if err := s.Modules.Catalog.DeleteCourse(c.Request().Context(), course.ID); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ownedCourse resolves :uid and enforces ownership. Admins may manage any
// course.
func (s *APIV1Service) ownedCourse(c echo.Context, userID int32) (*store.Course, error) {
	principal, _ := middleware.PrincipalFrom(c)
	if !principal.CanManageCourse() {
		return nil, c.JSON(http.StatusForbidden, map[string]string{"error": "only instructors can manage courses"})
	}

	course, err := s.Modules.Catalog.GetByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return nil, errorResponse(c, err)
	}
	if course == nil {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "course not found"})
	}
	if course.InstructorID != userID && !principal.CanViewAdminDashboard() {
		return nil, c.JSON(http.StatusForbidden, map[string]string{"error": "not the course owner"})
	}
	return course, nil
}
