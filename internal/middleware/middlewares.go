// Package middleware holds the echo middleware: request ids, the
// request-scoped logger, request logging, New Relic tracing, Prometheus
// request metrics, the function-key gate and the global error handler.
package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/cars-api/internal/server"
)

// Middlewares is built once and shared by the router.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	Metrics         *MetricsMiddleware
}

func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	tracing := NewTracingMiddleware(s, nrApp)

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, tracing),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         tracing,
		Metrics:         NewMetricsMiddleware(s),
	}
}
