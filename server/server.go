// Package server assembles the HTTP server that exposes the MCP
// endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/upamune/chrono-mcp/internal/profile"
	"github.com/upamune/chrono-mcp/internal/observability"
	"github.com/upamune/chrono-mcp/server/middleware"
	"github.com/upamune/chrono-mcp/server/router/mcp"
	"github.com/upamune/chrono-mcp/server/service/parse"
)

const serverName = "chrono-mcp"

type Server struct {
	e       *echo.Echo
	profile *profile.Profile
	logger  *slog.Logger

	Handler *mcp.Handler
	Metrics *observability.Metrics
}

func NewServer(p *profile.Profile, logger *slog.Logger) *Server {
	metrics := observability.NewMetrics()

	svc := parse.NewService(parse.WithLogger(logger))
	registry := mcp.NewRegistry()
	registry.Register(mcp.NewParseTool(svc))

	handler := mcp.NewHandler(registry, logger, metrics, serverName, p.Version, p.MaxConcurrentCalls)
	if p.DefaultTimezoneOffset != nil {
		handler.SetArgumentDefault("timezone_offset", *p.DefaultTimezoneOffset)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.NewRateLimiter(p.RateLimitRPS, p.RateLimitBurst).Middleware())

	s := &Server{
		e:       e,
		profile: p,
		logger:  logger,
		Handler: handler,
		Metrics: metrics,
	}

	e.POST("/mcp", handler.ServeHTTP)
	e.GET("/healthz", s.health)
	return s
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"version": s.profile.Version,
		"metrics": s.Metrics.Snapshot(),
	})
}

// Start runs the HTTP listener until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.e.Start(s.profile.ListenAddr())
	}()
	s.logger.Info("server started",
		slog.String("addr", s.profile.ListenAddr()),
		slog.String("version", s.profile.Version),
		slog.String("mode", s.profile.Mode))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http listener")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	s.logger.Info("server stopped")
	return nil
}
