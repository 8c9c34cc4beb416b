package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/cars-api/internal/config"
	"github.com/deppfellow/cars-api/internal/handler"
	"github.com/deppfellow/cars-api/internal/logger"
	"github.com/deppfellow/cars-api/internal/repository"
	"github.com/deppfellow/cars-api/internal/router"
	"github.com/deppfellow/cars-api/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService, err := logger.NewLoggerService(&cfg.Observability)
	if err != nil {
		panic("failed to start logger service: " + err.Error())
	}

	log := logger.NewLoggerWithService(&cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv.DB, &log, srv.Metrics)
	handlers := handler.NewHandlers(srv, repos)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
