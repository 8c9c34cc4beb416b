package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/errs"
)

// IntegerParam makes a route match only when the named path parameter is
// a base-10 integer. Anything else is answered like an unknown route.
func IntegerParam(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := strconv.Atoi(c.Param(name)); err != nil {
				return errs.NewNotFoundError("Route not found", false, nil)
			}
			return next(c)
		}
	}
}
