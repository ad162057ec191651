// Package server bootstraps the HTTP surface: the JSON API, the feed routes,
// and the shared cache behind the dashboards.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/server/internal/observability"
	apiv1 "github.com/learnloop/learnloop/server/router/api/v1"
	"github.com/learnloop/learnloop/server/router/rss"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// Server owns the echo instance and the shared cache lifecycle.
type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	shared     cache.Shared
	logger     *slog.Logger
}

// NewServer assembles the server. When the profile names a Redis address the
// shared cache is Redis; otherwise a single-instance in-memory cache serves.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	logger := observability.NewLogger(p.IsDev())

	shared, err := newSharedCache(p, logger)
	if err != nil {
		return nil, err
	}

	echoServer := echo.New()
	echoServer.Debug = p.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORS())

	s := &Server{
		Secret:     p.Secret,
		Profile:    p,
		Store:      st,
		echoServer: echoServer,
		shared:     shared,
		logger:     logger,
	}

	apiService := apiv1.NewAPIV1Service(p.Secret, p, st, shared, logger)
	apiService.RegisterRoutes(echoServer)

	rssService := rss.NewRSSService(p, apiService.Modules)
	rssService.RegisterRoutes(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "Service ready.")
	})

	return s, nil
}

// Start begins serving. It blocks until the listener fails or is shut down.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	s.logger.Info("server started",
		"address", address,
		"mode", s.Profile.Mode,
		"driver", s.Profile.Driver,
	)
	return s.echoServer.Start(address)
}

// Shutdown stops the listener and releases the cache and store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shut down server gracefully", "error", err)
	}
	if err := s.shared.Close(); err != nil {
		s.logger.Error("failed to close shared cache", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		s.logger.Error("failed to close store", "error", err)
	}
	s.logger.Info("server shutdown complete")
}

func newSharedCache(p *profile.Profile, logger *slog.Logger) (cache.Shared, error) {
	if p.RedisAddr == "" {
		logger.Info("using in-memory shared cache")
		return cache.NewMemory(cache.MemoryConfig{}), nil
	}

	cfg := cache.DefaultRedisConfig()
	cfg.Addr = p.RedisAddr
	cfg.Password = p.RedisPassword
	cfg.DB = p.RedisDB
	shared, err := cache.NewRedis(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create shared cache")
	}
	logger.Info("using redis shared cache", "addr", p.RedisAddr)
	return shared, nil
}
