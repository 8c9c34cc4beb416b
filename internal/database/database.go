// Package database opens the PostgreSQL connection pool and hands out
// connections scoped to a single repository operation.
//
// The pool is owned by pgxpool. Repositories see it through database/sql
// (pgx stdlib driver) wrapped in sqlx, so each operation can take one
// dedicated connection and release it when done.
package database

import (
	"context"
	"fmt"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/cars-api/internal/config"
	loggerConfig "github.com/deppfellow/cars-api/internal/logger"
)

// DriverName is the database/sql driver registered by pgx stdlib.
const DriverName = "pgx"

// DatabasePingTimeout is the startup ping budget, in seconds.
const DatabasePingTimeout = 10

// Database holds the pgx pool and its database/sql view.
type Database struct {
	Pool *pgxpool.Pool
	DB   *sqlx.DB
	log  *zerolog.Logger
}

// multiTracer fans pgx query tracing out to several tracers, since
// ConnConfig only has one Tracer slot.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// New builds the pool from the AzureSql connection string, attaches the
// New Relic and (in local env) SQL log tracers, and pings the server.
//
// A missing connection string is a configuration error and is reported as
// config.ErrMissingConnectionString before any network activity.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	if cfg.ConnectionStrings.AzureSQL == "" {
		return nil, config.ErrMissingConnectionString
	}

	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.ConnectionStrings.AzureSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	applyPoolSettings(pgxPoolConfig, cfg.Database)

	pgxPoolConfig.ConnConfig.Tracer = buildTracer(cfg, logger, loggerService)

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{
		Pool: pool,
		DB:   sqlx.NewDb(stdlib.OpenDBFromPool(pool), DriverName),
		log:  logger,
	}

	logger.Info().
		Str("host", pgxPoolConfig.ConnConfig.Host).
		Str("database", pgxPoolConfig.ConnConfig.Database).
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Msg("connected to the database")

	return database, nil
}

// NewFromDB wraps an already opened database, e.g. a sqlmock in tests.
func NewFromDB(db *sqlx.DB, logger *zerolog.Logger) *Database {
	return &Database{DB: db, log: logger}
}

func applyPoolSettings(pc *pgxpool.Config, dc config.DatabaseConfig) {
	if dc.MaxConns > 0 {
		pc.MaxConns = dc.MaxConns
	}
	if dc.MinConns > 0 {
		pc.MinConns = dc.MinConns
	}
	if dc.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = dc.MaxConnLifetime
	}
	if dc.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = dc.MaxConnIdleTime
	}
}

// buildTracer returns nil when neither tracer applies.
func buildTracer(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) pgx.QueryTracer {
	var tracers []any

	if loggerService != nil && loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL text and arguments are noisy, keep them to local runs.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
		return nil
	case 1:
		return tracers[0].(pgx.QueryTracer)
	default:
		return &multiTracer{tracers: tracers}
	}
}

// Factory returns the connection factory repositories draw from.
func (db *Database) Factory() *ConnectionFactory {
	return NewConnectionFactory(db.DB)
}

// Ping checks the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the database/sql handle and then the pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")

	var err error
	if db.DB != nil {
		err = db.DB.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
	return err
}
