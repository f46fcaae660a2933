package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all configuration options for the jornada tracker
type Config struct {
	Database    DatabaseConfig
	Backend     BackendConfig
	Time        TimeConfig
	Live        LiveConfig
	Server      ServerConfig
	Application ApplicationConfig
}

// DatabaseConfig holds the local draft store configuration
type DatabaseConfig struct {
	Dir            string        `env:"JT_DB_DIR" validate:"required"`
	Filename       string        `env:"JT_DB_FILENAME" validate:"required"`
	QueryTimeout   time.Duration `env:"JT_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"JT_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"JT_DB_DIR_PERMISSIONS"`
}

// BackendConfig holds the REST backend connection settings
type BackendConfig struct {
	BaseURL            string        `env:"JT_BACKEND_URL" validate:"required,url"`
	RequestTimeout     time.Duration `env:"JT_BACKEND_TIMEOUT"`
	CatalogConcurrency int           `env:"JT_BACKEND_CATALOG_CONCURRENCY" validate:"min=1,max=32"`
	ExportPageLimit    int           `env:"JT_BACKEND_EXPORT_LIMIT" validate:"min=1"`
}

// TimeConfig holds time formatting and estimation settings
type TimeConfig struct {
	DisplayFormat           string `env:"JT_TIME_DISPLAY_FORMAT" validate:"required"`
	DefaultEstimatedMinutes int    `env:"JT_TIME_DEFAULT_ESTIMATE" validate:"min=1"`
	MaxFutureDays           int    `env:"JT_TIME_MAX_FUTURE_DAYS" validate:"min=0"`
}

// LiveConfig holds the live refresh settings
type LiveConfig struct {
	TickInterval time.Duration `env:"JT_LIVE_TICK"`
}

// ServerConfig holds the companion server settings
type ServerConfig struct {
	Addr string `env:"JT_SERVER_ADDR" validate:"required"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout  time.Duration `env:"JT_APP_TIMEOUT"`
	Verbose  bool          `env:"JT_APP_VERBOSE"`
	LogLevel string        `env:"JT_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".jt")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "jornadas.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Backend: BackendConfig{
			BaseURL:            "http://localhost:5000",
			RequestTimeout:     15 * time.Second,
			CatalogConcurrency: 4,
			ExportPageLimit:    1000,
		},
		Time: TimeConfig{
			DisplayFormat:           "15:04",
			DefaultEstimatedMinutes: 60,
			MaxFutureDays:           1,
		},
		Live: LiveConfig{
			TickInterval: time.Second,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Application: ApplicationConfig{
			Timeout:  60 * time.Second,
			Verbose:  false,
			LogLevel: "info",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("JT_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("JT_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("JT_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("JT_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("JT_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Backend configuration
	if url := os.Getenv("JT_BACKEND_URL"); url != "" {
		c.Backend.BaseURL = url
	}
	if timeout := os.Getenv("JT_BACKEND_TIMEOUT"); timeout != "" {
		c.Backend.RequestTimeout = ParseDurationWithFallback(timeout, c.Backend.RequestTimeout)
	}
	if n := os.Getenv("JT_BACKEND_CATALOG_CONCURRENCY"); n != "" {
		c.Backend.CatalogConcurrency = ParseIntWithFallback(n, c.Backend.CatalogConcurrency)
	}
	if n := os.Getenv("JT_BACKEND_EXPORT_LIMIT"); n != "" {
		c.Backend.ExportPageLimit = ParseIntWithFallback(n, c.Backend.ExportPageLimit)
	}

	// Time configuration
	if format := os.Getenv("JT_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}
	if n := os.Getenv("JT_TIME_DEFAULT_ESTIMATE"); n != "" {
		c.Time.DefaultEstimatedMinutes = ParseIntWithFallback(n, c.Time.DefaultEstimatedMinutes)
	}
	if n := os.Getenv("JT_TIME_MAX_FUTURE_DAYS"); n != "" {
		c.Time.MaxFutureDays = ParseIntWithFallback(n, c.Time.MaxFutureDays)
	}

	if tick := os.Getenv("JT_LIVE_TICK"); tick != "" {
		c.Live.TickInterval = ParseDurationWithFallback(tick, c.Live.TickInterval)
	}

	if addr := os.Getenv("JT_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	// Application configuration
	if timeout := os.Getenv("JT_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("JT_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if level := os.Getenv("JT_LOG_LEVEL"); level != "" {
		c.Application.LogLevel = level
	}

	return nil
}

var structValidator = validator.New()

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ConfigError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()),
			}
		}
		return &ConfigError{Field: "config", Message: err.Error()}
	}

	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Backend.RequestTimeout <= 0 {
		return &ConfigError{Field: "backend.request_timeout", Message: "request timeout must be positive"}
	}
	if c.Live.TickInterval < 10*time.Millisecond {
		return &ConfigError{Field: "live.tick_interval", Message: "tick interval must be at least 10ms"}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
