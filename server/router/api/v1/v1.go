// Package v1 exposes the JSON API. Handlers stay thin: decode, resolve the
// principal, call into the dashboard or module services, encode.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/plugin/markdown"
	apperrors "github.com/learnloop/learnloop/server/internal/errors"
	"github.com/learnloop/learnloop/server/middleware"
	"github.com/learnloop/learnloop/server/service/dashboard"
	"github.com/learnloop/learnloop/server/service/modules"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// APIV1Service wires the HTTP surface over the service layer.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	Modules         *modules.Services
	Dashboard       *dashboard.Service
	MarkdownService markdown.Service

	logger *slog.Logger
}

// NewAPIV1Service assembles the API service and its dependencies.
func NewAPIV1Service(secret string, p *profile.Profile, st *store.Store, shared cache.Shared, logger *slog.Logger) *APIV1Service {
	mods := modules.NewServices(st, shared, logger)
	return &APIV1Service{
		Secret:          secret,
		Profile:         p,
		Store:           st,
		Modules:         mods,
		Dashboard:       dashboard.NewService(mods, shared, p, logger),
		MarkdownService: markdown.NewService(markdown.WithHardWraps()),
		logger:          logger,
	}
}

// RegisterRoutes mounts the API on the echo server.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	limiter := middleware.NewRateLimiter(10, 20)
	authenticator := middleware.NewAuthenticator(s.Store, s.Secret)

	public := echoServer.Group("/api/v1")
	public.POST("/auth/signup", s.SignUp)
	public.POST("/auth/signin", s.SignIn)
	public.GET("/courses", s.ListCourses)
	public.GET("/courses/:uid", s.GetCourse)

	authed := echoServer.Group("/api/v1", authenticator.Middleware(), limiter.Middleware())
	authed.GET("/me", s.GetMe)
	authed.PATCH("/me", s.UpdateMe)
	authed.GET("/dashboard", s.GetDashboard)
	authed.GET("/instructor/courses/:uid/performance", s.GetCoursePerformance)
	authed.POST("/courses", s.CreateCourse)
	authed.PATCH("/courses/:uid", s.UpdateCourse)
	authed.POST("/courses/:uid/publish", s.PublishCourse)
	authed.DELETE("/courses/:uid", s.DeleteCourse)
	authed.POST("/courses/:uid/enroll", s.Enroll)
	authed.POST("/enrollments/:id/complete-item", s.CompleteItem)
	authed.POST("/enrollments/:id/complete", s.CompleteCourse)
	authed.POST("/payments", s.RecordPayment)
}

// errorResponse maps a service error to an HTTP response carrying the error
// code, so clients can tell "not allowed" from "try again".
func errorResponse(c echo.Context, err error) error {
	code := apperrors.CodeOf(err)
	status := http.StatusBadGateway
	switch code {
	case apperrors.ErrCodeUnauthorized:
		status = http.StatusForbidden
	case apperrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	return c.JSON(status, map[string]string{
		"code":  string(code),
		"error": err.Error(),
	})
}
