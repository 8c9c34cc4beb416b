package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/deppfellow/cars-api/internal/config"
	"github.com/deppfellow/cars-api/internal/handler"
	"github.com/deppfellow/cars-api/internal/lambda"
	"github.com/deppfellow/cars-api/internal/logger"
	"github.com/deppfellow/cars-api/internal/repository"
	"github.com/deppfellow/cars-api/internal/router"
	"github.com/deppfellow/cars-api/internal/server"
)

// The container, and with it the connection pool, is built once per
// execution environment and reused across invocations.
var proxy *lambda.Proxy

func init() {
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
	r := router.NewRouter(srv, handler.NewHandlers(srv, repos))

	proxy = lambda.NewProxy(r, &log)

	log.Info().Msg("lambda handler initialized")
}

func main() {
	awslambda.Start(proxy.Handle)
}
