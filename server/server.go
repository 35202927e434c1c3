// Package server wires the HTTP server: routes, middleware, the background
// refresh runner and graceful shutdown.
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
	"golang.org/x/sync/errgroup"

	"github.com/corrnet/corrnet/internal/profile"
	apiv1 "github.com/corrnet/corrnet/server/router/api/v1"
	"github.com/corrnet/corrnet/server/runner/refresh"
	"github.com/corrnet/corrnet/store"
)

type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer    *echo.Echo
	apiV1Service  *apiv1.APIV1Service
	refreshRunner *refresh.Runner
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			slog.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	echoServer.Use(echomw.Recover())

	server := &Server{
		Secret:     profile.JWTSecret,
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
	}

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	server.apiV1Service = apiv1.NewAPIV1Service(server.Secret, profile, store)
	server.apiV1Service.RegisterRoutes(echoServer)

	server.refreshRunner = refresh.NewRunner(store, profile)
	server.apiV1Service.Refresher = server.refreshRunner

	return server, nil
}

// Start runs the HTTP server and the refresh runner until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started",
		"address", address,
		"mode", s.Profile.Mode,
		"version", s.Profile.Version)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.refreshRunner.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown http server")
		}
		return nil
	})
	return group.Wait()
}

// Shutdown releases resources the server owns besides the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}
