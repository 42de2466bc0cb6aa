package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/server/internal/observability"
	apiv1 "github.com/hrygo/recognizers/server/router/api/v1"
	"github.com/hrygo/recognizers/server/router/rss"
	"github.com/hrygo/recognizers/server/runner/retention"
	"github.com/hrygo/recognizers/server/stats"
	"github.com/hrygo/recognizers/store"
)

type Server struct {
	Profile    *profile.Profile
	Store      *store.Store
	Recognizer recognizer.Recognizer
	Metrics    *observability.Metrics

	echoServer        *echo.Echo
	stats             *stats.Collector
	runnerCancelFuncs []context.CancelFunc
}

// NewServer wires the API, health and metrics endpoints. store may be nil
// when history is disabled.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, rec recognizer.Recognizer) (*Server, error) {
	if profile == nil || rec == nil {
		return nil, errors.New("profile and recognizer are required")
	}
	s := &Server{
		Profile:    profile,
		Store:      store,
		Recognizer: rec,
		Metrics:    observability.NewMetrics(),
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	s.echoServer = echoServer

	echoServer.GET("/healthz", s.healthz)
	echoServer.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	apiV1Service := apiv1.NewAPIV1Service(profile, rec, store, s.Metrics)
	apiV1Service.RegisterRoutes(echoServer)
	s.stats = apiV1Service.Stats

	rss.NewRSSService(store).RegisterRoutes(echoServer.Group(""))

	return s, nil
}

func (s *Server) healthz(c echo.Context) error {
	if s.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.Store.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			return c.String(http.StatusServiceUnavailable, "Database unavailable.")
		}
	}
	return c.String(http.StatusOK, "Service ready.")
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}

	s.StartBackgroundRunners(ctx)

	go func() {
		s.echoServer.Listener = listener
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	slog.Info("server started", "address", listener.Addr().String(), "version", s.Profile.Version, "mode", s.Profile.Mode)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, cancelFunc := range s.runnerCancelFuncs {
		cancelFunc()
	}

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}

	slog.Info("server stopped properly")
}

// statsInterval is how often the history gauges are refreshed.
const statsInterval = 5 * time.Minute

// StartBackgroundRunners starts the history stats collector and, with a
// finite retention, the retention runner. Both need persisted history.
func (s *Server) StartBackgroundRunners(ctx context.Context) {
	if s.Store == nil {
		return
	}
	runnerCtx, cancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, cancel)

	if s.stats != nil {
		go s.stats.Start(runnerCtx, statsInterval)
	}
	if s.Profile.HistoryRetention > 0 {
		go retention.NewRunner(s.Store, s.Profile.HistoryRetention).Run(runnerCtx)
		slog.Info("retention runner started", "retention", s.Profile.HistoryRetention.String())
	}
}
