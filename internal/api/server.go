package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/davidcollell/plataformes/internal/config"
	"github.com/davidcollell/plataformes/internal/scheduler"
	"github.com/davidcollell/plataformes/internal/watchlist"
	"github.com/davidcollell/plataformes/internal/websocket"
)

// Server handles HTTP requests for the Plataformes API.
type Server struct {
	echo   *echo.Echo
	hub    *websocket.Hub
	logger zerolog.Logger
	cfg    *config.Config

	store     *watchlist.Store
	scheduler *scheduler.Scheduler
	startTime time.Time
}

// NewServer creates a new API server instance.
func NewServer(store *watchlist.Store, hub *websocket.Hub, sched *scheduler.Scheduler, cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		hub:       hub,
		logger:    logger,
		cfg:       cfg,
		store:     store,
		scheduler: sched,
		startTime: time.Now().UTC(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance (for tests and static files).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// --- Handler implementations ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	counts := s.store.Counts()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":      config.Version,
		"startTime":    s.startTime.Format(time.RFC3339),
		"towatchCount": counts.ToWatch,
		"watchedCount": counts.Watched,
		"wsClients":    s.hub.ClientCount(),
	})
}

func (s *Server) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

func (s *Server) runTask(c echo.Context) error {
	if err := s.scheduler.RunNow(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusAccepted)
}
