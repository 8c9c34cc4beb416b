// Package repository holds the data access layer.
//
// Each SQL operation is a single parameterized statement executed on a
// connection scoped to that call. Absent rows are reported as values
// (nil, false, UpdateNotFound), never as errors.
package repository

import (
	"github.com/rs/zerolog"

	"github.com/deppfellow/cars-api/internal/database"
	"github.com/deppfellow/cars-api/internal/metrics"
)

// Repositories is the container handed to the handler layer.
type Repositories struct {
	Cars CarRepository
}

// NewRepositories backs every repository with the given database.
func NewRepositories(db *database.Database, logger *zerolog.Logger, m *metrics.Manager) *Repositories {
	return &Repositories{
		Cars: NewCarsRepository(db.Factory(), logger, m),
	}
}
