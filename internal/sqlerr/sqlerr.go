// Package sqlerr classifies database driver errors.
//
// It parses SQLSTATE codes reported by PostgreSQL into a normalized Code.
// Persistence failures, constraint violations included, reach clients as a
// bare 500 so raw driver text never leaves the service.
package sqlerr

import "fmt"

// Code is the normalized category of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	StringTooLong       Code = "string_data_right_truncation"
	InvalidText         Code = "invalid_text_representation"
	QueryCanceled       Code = "query_canceled"
	UndefinedTable      Code = "undefined_table"
	ConnectionFailure   Code = "connection_exception"
)

// Severity mirrors the PostgreSQL severity field.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is the normalized form of a PostgreSQL error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE onto a Code. Connection exceptions (class 08)
// are matched by class.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22001":
		return StringTooLong
	case "22P02":
		return InvalidText
	case "57014":
		return QueryCanceled
	case "42P01":
		return UndefinedTable
	}

	if len(sqlState) == 5 && sqlState[:2] == "08" {
		return ConnectionFailure
	}

	return Other
}

// MapSeverity maps the raw severity string; unknown values become ERROR.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
