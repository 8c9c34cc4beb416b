// Package server holds the application container shared by middleware,
// handlers and the entrypoints, and owns the HTTP server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/cars-api/internal/config"
	"github.com/deppfellow/cars-api/internal/database"
	loggerPkg "github.com/deppfellow/cars-api/internal/logger"
	"github.com/deppfellow/cars-api/internal/metrics"
)

// Server is the application container, not the HTTP server itself.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService may hold a nil New Relic application.
	LoggerService *loggerPkg.LoggerService

	// DB is nil only in tests running on the in-memory repository.
	DB      *database.Database
	Metrics *metrics.Manager

	httpServer *http.Server
}

// New opens the database and builds the container. Failing to reach the
// database is fatal for the caller.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Metrics:       newMetrics(cfg),
	}, nil
}

// NewWithDatabase builds the container around an already opened database,
// or none at all.
func NewWithDatabase(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, db *database.Database) *Server {
	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Metrics:       newMetrics(cfg),
	}
}

func newMetrics(cfg *config.Config) *metrics.Manager {
	mc := cfg.Observability.Metrics
	if !mc.Enabled {
		return nil
	}

	opts := []metrics.Option{metrics.WithRuntimeCollectors()}
	if mc.Namespace != "" {
		opts = append(opts, metrics.WithNamespace(mc.Namespace))
	}
	if len(mc.Buckets) > 0 {
		opts = append(opts, metrics.WithHistogramBuckets(mc.Buckets))
	}

	return metrics.NewManager(opts...)
}

// SetupHTTPServer configures the net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires, then closes the
// database pool and flushes New Relic. Cleanup runs even if draining fails.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	s.LoggerService.Shutdown()

	return errors.Join(errs...)
}
