// Package config manages the service configuration.
//
// It layers defaults, an optional YAML file and environment variables
// (optionally loaded from a `.env` file) into structured Go types, and
// validates that required values are present so the service fails fast
// before it accepts a single request.
//
// Responsibilities:
//   - Provide defaults for every optional block.
//   - Map env vars and file keys into the Config struct.
//   - Reject a missing AzureSql connection string at startup.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	Sources, lowest precedence first:

	1. Default()
	2. YAML file named by CARS_CONFIG
	3. CARS_ prefixed env vars. A double underscore separates nesting levels:
	     CARS_SERVER__PORT                -> server.port
	     CARS_CONNECTIONSTRINGS__AZURESQL -> connectionstrings.azuresql
	4. ConnectionStrings__AzureSql, the name the Functions host uses for
	   connection strings declared in local.settings.json / app settings.
	5. FUNCTIONS_CUSTOMHANDLER_PORT, set by the Functions host when this
	   binary runs as a custom handler.
*/

const (
	// EnvPrefix is the prefix for every service-specific env var.
	EnvPrefix = "CARS_"

	// ConfigFileEnv names the env var holding an optional YAML config path.
	ConfigFileEnv = "CARS_CONFIG"

	// connectionStringsPrefix is the host-level naming convention for
	// connection strings (ConnectionStrings__<Name>).
	connectionStringsPrefix = "ConnectionStrings__"

	// CustomHandlerPortEnv is set by the Functions host for custom handlers.
	CustomHandlerPortEnv = "FUNCTIONS_CUSTOMHANDLER_PORT"
)

// Config is the root configuration object for the service.
//
// The `koanf:"..."` tags map file and env keys onto fields, the
// `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary           Primary             `koanf:"primary" validate:"required"`
	Server            ServerConfig        `koanf:"server" validate:"required"`
	ConnectionStrings ConnectionStrings   `koanf:"connectionstrings" validate:"required"`
	Database          DatabaseConfig      `koanf:"database"`
	Auth              AuthConfig          `koanf:"auth"`
	Observability     ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	ShutdownTimeout    int      `koanf:"shutdown_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// ConnectionStrings holds named database connection strings.
//
// AzureSql is the only one the service needs. Its absence is a fatal
// configuration error.
type ConnectionStrings struct {
	AzureSQL string `koanf:"azuresql" validate:"required"`
}

// DatabaseConfig tunes the connection pool that backs the connection factory.
type DatabaseConfig struct {
	MaxConns        int32         `koanf:"max_conns" validate:"min=1"`
	MinConns        int32         `koanf:"min_conns" validate:"min=0"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
}

// AuthConfig configures the trigger-level gate in front of the /cars routes.
//
// An empty FunctionKey turns the gate into a pass-through; the hosting
// platform is then expected to enforce keys itself.
type AuthConfig struct {
	FunctionKey string `koanf:"function_key"`
}

// Default returns a Config populated with every default value. The
// connection string is deliberately left empty.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			ShutdownTimeout:    30,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        0,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Observability: *DefaultObservabilityConfig(),
	}
}

// LoadConfig builds a Config from defaults, the optional YAML file and the
// environment, then validates it.
//
// Errors wrap ErrLoadConfig, ErrInvalidConfig or ErrMissingConnectionString
// so callers can tell them apart with errors.Is.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, path, err)
		}
	}

	// CARS_SERVER__READ_TIMEOUT -> server.read_timeout
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	// ConnectionStrings__AzureSql -> connectionstrings.azuresql
	err = k.Load(env.Provider(connectionStringsPrefix, ".", func(s string) string {
		return "connectionstrings." + strings.ToLower(strings.TrimPrefix(s, connectionStringsPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: connection strings: %v", ErrLoadConfig, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrLoadConfig, err)
	}

	if port := os.Getenv(CustomHandlerPortEnv); port != "" {
		cfg.Server.Port = port
	}

	// Service name is not configurable; environment always follows primary.env.
	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks struct tags and the observability rules.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ConnectionStrings.AzureSQL) == "" {
		return ErrMissingConnectionString
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("%w: database.min_conns (%d) exceeds database.max_conns (%d)",
			ErrInvalidConfig, c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
