package sqlerr

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/cars-api/internal/errs"
)

// ErrCode reports the Code of the first *Error or *pgconn.PgError in
// err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}

	return Other
}

// ConvertPgError converts a raw PostgreSQL error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError converts an error returned by the data layer into an
// *errs.HTTPError suitable for the client:
//
//   - *errs.HTTPError: returned unchanged
//   - sql.ErrNoRows / pgx.ErrNoRows: 404
//   - context cancellation or deadline, canceled queries, lost connections: 503
//   - anything else, constraint violations included: sanitized 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	switch ErrCode(err) {
	case QueryCanceled, ConnectionFailure:
		return errs.NewServiceUnavailableError()
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return errs.NewNotFoundError("Resource not found", false, nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.NewServiceUnavailableError()
	}

	return errs.NewInternalServerError()
}
