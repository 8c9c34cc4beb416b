package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/deppfellow/cars-api/internal/database"
	"github.com/deppfellow/cars-api/internal/metrics"
	"github.com/deppfellow/cars-api/internal/model"
	"github.com/deppfellow/cars-api/internal/sqlerr"
)

const (
	createCarQuery  = `INSERT INTO cars (name) VALUES ($1) RETURNING id`
	listCarsQuery   = `SELECT id, name FROM cars ORDER BY id`
	getCarByIDQuery = `SELECT id, name FROM cars WHERE id = $1 LIMIT 1`
	updateCarQuery  = `UPDATE cars SET name = $1 WHERE id = $2`
	deleteCarQuery  = `DELETE FROM cars WHERE id = $1`
)

// UpdateStatus tells whether an update touched a row.
type UpdateStatus int

const (
	UpdateNotFound UpdateStatus = iota
	UpdateApplied
)

func (s UpdateStatus) String() string {
	if s == UpdateApplied {
		return "applied"
	}
	return "not_found"
}

// UpdateResult is returned by CarRepository.Update. Car is the value the
// caller asked to store and is only set when Status is UpdateApplied.
type UpdateResult struct {
	Status UpdateStatus
	Car    model.Car
}

// CarRepository is the data access contract for cars.
//
// Absence is never an error: GetByID returns nil, Update reports
// UpdateNotFound and Delete returns false. Every other failure is returned
// unchanged.
type CarRepository interface {
	Create(ctx context.Context, car model.Car) (model.Car, error)
	ListAll(ctx context.Context) ([]model.Car, error)
	GetByID(ctx context.Context, id int) (*model.Car, error)
	Update(ctx context.Context, car model.Car) (UpdateResult, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// CarsRepository runs each operation as one statement on its own
// connection taken from the factory.
type CarsRepository struct {
	factory *database.ConnectionFactory
	logger  *zerolog.Logger
	metrics *metrics.Manager
}

var _ CarRepository = (*CarsRepository)(nil)

func NewCarsRepository(factory *database.ConnectionFactory, logger *zerolog.Logger, m *metrics.Manager) *CarsRepository {
	return &CarsRepository{factory: factory, logger: logger, metrics: m}
}

func (r *CarsRepository) Create(ctx context.Context, car model.Car) (model.Car, error) {
	start := time.Now()

	var id int
	err := r.factory.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &id, createCarQuery, car.Name)
	})
	if err != nil {
		r.fail(ctx, "create", 0, start, err)
		return model.Car{}, err
	}

	r.metrics.RecordRepositoryOperation("create", metrics.OutcomeOK, time.Since(start))

	car.ID = id
	return car, nil
}

func (r *CarsRepository) ListAll(ctx context.Context) ([]model.Car, error) {
	start := time.Now()

	cars := make([]model.Car, 0)
	err := r.factory.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &cars, listCarsQuery)
	})
	if err != nil {
		r.fail(ctx, "list_all", 0, start, err)
		return nil, err
	}

	r.metrics.RecordRepositoryOperation("list_all", metrics.OutcomeOK, time.Since(start))
	return cars, nil
}

func (r *CarsRepository) GetByID(ctx context.Context, id int) (*model.Car, error) {
	start := time.Now()

	var car model.Car
	err := r.factory.WithConnection(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &car, getCarByIDQuery, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		r.metrics.RecordRepositoryOperation("get_by_id", metrics.OutcomeNotFound, time.Since(start))
		return nil, nil
	}
	if err != nil {
		r.fail(ctx, "get_by_id", id, start, err)
		return nil, err
	}

	r.metrics.RecordRepositoryOperation("get_by_id", metrics.OutcomeOK, time.Since(start))
	return &car, nil
}

// Update writes the name for car.ID. The stored row is not read back.
func (r *CarsRepository) Update(ctx context.Context, car model.Car) (UpdateResult, error) {
	start := time.Now()

	var affected int64
	err := r.factory.WithConnection(ctx, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, updateCarQuery, car.Name, car.ID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		r.fail(ctx, "update", car.ID, start, err)
		return UpdateResult{}, err
	}

	if affected == 0 {
		r.metrics.RecordRepositoryOperation("update", metrics.OutcomeNotFound, time.Since(start))
		return UpdateResult{Status: UpdateNotFound}, nil
	}

	r.metrics.RecordRepositoryOperation("update", metrics.OutcomeOK, time.Since(start))
	return UpdateResult{Status: UpdateApplied, Car: car}, nil
}

func (r *CarsRepository) Delete(ctx context.Context, id int) (bool, error) {
	start := time.Now()

	var affected int64
	err := r.factory.WithConnection(ctx, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, deleteCarQuery, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		r.fail(ctx, "delete", id, start, err)
		return false, err
	}

	outcome := metrics.OutcomeOK
	if affected == 0 {
		outcome = metrics.OutcomeNotFound
	}
	r.metrics.RecordRepositoryOperation("delete", outcome, time.Since(start))

	return affected > 0, nil
}

// fail records and logs a failed operation. The request-scoped logger
// carried by ctx is preferred so the line keeps its request_id.
func (r *CarsRepository) fail(ctx context.Context, operation string, id int, start time.Time, err error) {
	duration := time.Since(start)
	r.metrics.RecordRepositoryOperation(operation, metrics.OutcomeError, duration)

	logger := r.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = l
	}

	event := logger.Error().
		Err(err).
		Str("operation", operation).
		Dur("duration", duration)
	if id != 0 {
		event = event.Int("car_id", id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := sqlerr.ConvertPgError(pgErr)
		event = event.
			Str("sql_code", string(sqlErr.Code)).
			Str("sql_state", sqlErr.DatabaseCode).
			Str("sql_severity", string(sqlErr.Severity))
		if sqlErr.ConstraintName != "" {
			event = event.Str("sql_constraint", sqlErr.ConstraintName)
		}
	}

	event.Msg("car repository operation failed")
}
