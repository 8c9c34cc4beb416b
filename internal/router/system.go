package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/handler"
	"github.com/deppfellow/cars-api/internal/server"
)

// registerSystemRoutes registers the routes outside the /cars surface.
// None of them sit behind the function-key gate.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", handler.StaticFS())
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if s.Metrics != nil {
		r.GET(s.Config.Observability.Metrics.Path, echo.WrapHandler(s.Metrics.Handler()))
	}
}
