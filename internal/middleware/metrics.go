package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/server"
)

// unmatchedRoute labels requests that hit no route, keeping raw paths out
// of label values.
const unmatchedRoute = "unmatched"

type MetricsMiddleware struct {
	server *server.Server
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{server: s}
}

// RecordRequests counts every request by method, route template and final
// status.
func (m *MetricsMiddleware) RecordRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.server.Metrics == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			status := statusFromError(c.Response().Status, err)

			m.server.Metrics.RecordHTTPRequest(
				c.Request().Method,
				route,
				strconv.Itoa(status),
				time.Since(start),
			)

			return err
		}
	}
}
