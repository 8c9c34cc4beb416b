package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/middleware"
	"github.com/deppfellow/cars-api/internal/server"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is the dependency check behind /status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	Handler
	db Pinger
}

// NewHealthHandler pings s.DB; a server without a database reports the
// check as disabled.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}
	if s.DB != nil {
		h.db = s.DB
	}
	return h
}

// CheckHealth answers 200 when every check passes and 503 otherwise. Error
// details are logged, never returned.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}
	isHealthy := true

	if h.db == nil {
		checks["database"] = map[string]interface{}{"status": "disabled"}
	} else {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		dbStart := time.Now()
		if err := h.db.Ping(ctx); err != nil {
			isHealthy = false
			checks["database"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(dbStart).String(),
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
					"check_type":       "database",
					"operation":        "health_check",
					"error_type":       "database_unhealthy",
					"response_time_ms": time.Since(dbStart).Milliseconds(),
				})
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(dbStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
