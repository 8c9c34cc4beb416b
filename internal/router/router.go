// Package router builds the echo instance: middleware order, the error
// handler and every route.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/handler"
	"github.com/deppfellow/cars-api/internal/middleware"
	"github.com/deppfellow/cars-api/internal/server"
)

// NewRouter wires middleware in this order: request id, New Relic
// transaction, transaction attributes, request-scoped logger, metrics,
// CORS, secure headers, access log, panic recovery.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mws := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mws.Tracing.NewRelicMiddleware(),
		mws.Tracing.EnhanceTracing(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.Metrics.RecordRequests(),
		mws.Global.CORS(),
		mws.Global.Secure(),
		mws.Global.RequestLogger(),
		mws.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)
	registerCarRoutes(router, h, mws)

	return router
}
