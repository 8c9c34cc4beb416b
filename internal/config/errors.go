package config

import "errors"

// Sentinel error kinds for this package, for errors.Is checks by callers.
var (
	ErrLoadConfig    = errors.New("load config failed")
	ErrInvalidConfig = errors.New("invalid config")

	// ErrMissingConnectionString is returned when ConnectionStrings:AzureSql
	// is not configured. It is always fatal at startup.
	ErrMissingConnectionString = errors.New("ConnectionStrings:AzureSql must be specified")
)
