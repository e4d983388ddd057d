// Package http implements the REST API surface of the activities hub. It
// maps the registration, auth, and announcement services onto HTTP routes
// and translates domain error kinds into transport status codes.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mergington-hub/activities-hub/internal/application/announcements"
	"github.com/mergington-hub/activities-hub/internal/application/auth"
	"github.com/mergington-hub/activities-hub/internal/application/registration"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

// Config contains HTTP server configuration.
type Config struct {
	// Address to bind, e.g. "0.0.0.0:8080".
	Address string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum duration for idle connections.
	IdleTimeout time.Duration
}

// Pinger reports whether backing storage is reachable. Implemented by the
// postgres connection; the in-memory store needs no pinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies contains everything the HTTP handlers call into.
type Dependencies struct {
	Registration  *registration.Service
	Auth          *auth.Service
	Announcements *announcements.Service
	Logger        *logger.Logger

	// Store is optional; when set, /healthz reports its reachability.
	Store Pinger
}

// Server is the echo-based HTTP server.
type Server struct {
	echo *echo.Echo
	cfg  Config
	deps Dependencies
	log  *logger.Logger
}

// NewServer creates the server and registers all routes.
func NewServer(cfg Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo: e,
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger.With(logger.String("component", "http")),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/healthz", s.handleHealth)

	e.GET("/activities", s.handleListActivities)
	e.POST("/activities/:name/signup", s.handleSignUp)
	e.DELETE("/activities/:name/unregister", s.handleUnregister)

	e.POST("/auth/login", s.handleLogin)
	e.POST("/auth/logout", s.handleLogout)
	e.GET("/auth/check-session/:username", s.handleCheckSession)

	e.GET("/announcements", s.handleListActiveAnnouncements)
	e.GET("/announcements/manage", s.handleListAllAnnouncements)
	e.POST("/announcements", s.handleCreateAnnouncement)
	e.PUT("/announcements/:id", s.handleUpdateAnnouncement)
	e.DELETE("/announcements/:id", s.handleDeleteAnnouncement)
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         s.cfg.Address,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.log.Info("http server starting", logger.String("address", s.cfg.Address))
	return s.echo.StartServer(server)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// httpError translates a domain error kind into the transport status.
func httpError(err error) *echo.HTTPError {
	switch {
	case shared.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case shared.IsUnauthorized(err):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case shared.IsConflict(err), shared.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case shared.IsStoreUnavailable(err):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
