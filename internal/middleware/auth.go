package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/errs"
	"github.com/deppfellow/cars-api/internal/server"
)

const (
	// FunctionKeyHeader and FunctionKeyQuery carry the trigger key, using
	// the names the Functions host accepts.
	FunctionKeyHeader = "x-functions-key"
	FunctionKeyQuery  = "code"
)

// AuthMiddleware is the trigger-level gate in front of /cars.
type AuthMiddleware struct {
	server  *server.Server
	tracing *TracingMiddleware
}

func NewAuthMiddleware(s *server.Server, tracing *TracingMiddleware) *AuthMiddleware {
	return &AuthMiddleware{
		server:  s,
		tracing: tracing,
	}
}

// RequireFunctionKey rejects requests without the configured function key
// with 401. When no key is configured every request passes through and
// the hosting platform is expected to enforce access.
func (auth *AuthMiddleware) RequireFunctionKey(next echo.HandlerFunc) echo.HandlerFunc {
	expected := auth.server.Config.Auth.FunctionKey
	if expected == "" {
		return next
	}

	return func(c echo.Context) error {
		provided := c.Request().Header.Get(FunctionKeyHeader)
		if provided == "" {
			provided = c.QueryParam(FunctionKeyQuery)
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			GetLogger(c).Warn().
				Str("function", "RequireFunctionKey").
				Bool("key_present", provided != "").
				Msg("rejected request without a valid function key")

			auth.tracing.RecordEvent("FunctionKeyRejected", map[string]any{
				"path":       c.Path(),
				"request_id": GetRequestID(c),
			})

			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		return next(c)
	}
}
