package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ConnectionFactory opens connections against the configured database.
// Every call hands out a connection owned by the caller, who must close it.
type ConnectionFactory struct {
	db *sqlx.DB
}

func NewConnectionFactory(db *sqlx.DB) *ConnectionFactory {
	return &ConnectionFactory{db: db}
}

// CreateConnection returns a dedicated connection taken from the pool.
// ctx bounds the acquisition only.
func (f *ConnectionFactory) CreateConnection(ctx context.Context) (*sqlx.Conn, error) {
	return f.db.Connx(ctx)
}

// WithConnection runs fn on a fresh connection and releases it on every
// exit path, including a panic inside fn. Errors from fn and from
// acquisition are returned as is.
func (f *ConnectionFactory) WithConnection(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := f.CreateConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}
