// Package handler is the HTTP layer: it binds and validates input, calls
// the repositories and maps results onto status codes and JSON bodies.
package handler

import (
	"github.com/deppfellow/cars-api/internal/repository"
	"github.com/deppfellow/cars-api/internal/server"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Cars    *CarHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Cars:    NewCarHandler(s, repos.Cars),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
