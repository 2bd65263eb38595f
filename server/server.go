package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/babynest/babynest/internal/profile"
	"github.com/babynest/babynest/plugin/ai/agent"
	"github.com/babynest/babynest/plugin/ai/vector"
	"github.com/babynest/babynest/server/middleware"
	apiv1 "github.com/babynest/babynest/server/router/api/v1"
	"github.com/babynest/babynest/store"
)

// Server wires the echo HTTP server, the store and the agent together.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewServer creates the HTTP server and mounts the v1 API.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, agent *agent.Agent, vectorStore *vector.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
	}

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(middleware.RequestLogger())

	rateLimiter := middleware.NewRateLimiter(time.Second, 30)
	e.Use(rateLimiter.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": profile.Version,
		})
	})

	apiV1Service := apiv1.NewAPIV1Service(profile, store, agent, vectorStore)
	apiV1Service.Register(e)

	return s, nil
}

// Start begins serving requests. It blocks until the listener fails or
// the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start echo server")
	}
	return nil
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}
