package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	envFiles []string
	filePath string
}

// NewLoader creates a new configuration loader. It reads ".env" from the
// working directory and the TOML file named by JT_CONFIG, when present.
func NewLoader() *Loader {
	return &Loader{
		config:   NewConfig(),
		envFiles: []string{".env"},
	}
}

// WithFile sets the TOML file to read, replacing JT_CONFIG.
func (l *Loader) WithFile(path string) *Loader {
	l.filePath = path
	return l
}

// WithEnvFiles sets the dotenv files to read. No files disables dotenv loading.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML file
// 3. Override with environment variables, including dotenv files
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	path := l.filePath
	if path == "" {
		path = os.Getenv("JT_CONFIG")
	}
	if err := l.config.LoadFromFile(path); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// loadEnvFiles never overrides variables already set in the process.
func (l *Loader) loadEnvFiles() error {
	for _, file := range l.envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("read %s: %w", file, err)
		}
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// fileConfig mirrors Config in the TOML file. Durations are written as
// Go duration strings such as "15s".
type fileConfig struct {
	Database struct {
		Dir          string `toml:"dir"`
		Filename     string `toml:"filename"`
		QueryTimeout string `toml:"query_timeout"`
		WriteTimeout string `toml:"write_timeout"`
	} `toml:"database"`
	Backend struct {
		BaseURL            string `toml:"base_url"`
		RequestTimeout     string `toml:"request_timeout"`
		CatalogConcurrency int    `toml:"catalog_concurrency"`
		ExportPageLimit    int    `toml:"export_page_limit"`
	} `toml:"backend"`
	Time struct {
		DisplayFormat           string `toml:"display_format"`
		DefaultEstimatedMinutes int    `toml:"default_estimated_minutes"`
		MaxFutureDays           *int   `toml:"max_future_days"`
	} `toml:"time"`
	Live struct {
		TickInterval string `toml:"tick_interval"`
	} `toml:"live"`
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
	Application struct {
		Timeout  string `toml:"timeout"`
		Verbose  *bool  `toml:"verbose"`
		LogLevel string `toml:"log_level"`
	} `toml:"application"`
}

// LoadFromFile applies the values set in a TOML file. A blank path or a
// missing file leaves the configuration unchanged.
func (c *Config) LoadFromFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(content, &fc); err != nil {
		return fmt.Errorf("decode toml: %w", err)
	}

	setString(&c.Database.Dir, fc.Database.Dir)
	setString(&c.Database.Filename, fc.Database.Filename)
	setDuration(&c.Database.QueryTimeout, fc.Database.QueryTimeout)
	setDuration(&c.Database.WriteTimeout, fc.Database.WriteTimeout)

	setString(&c.Backend.BaseURL, fc.Backend.BaseURL)
	setDuration(&c.Backend.RequestTimeout, fc.Backend.RequestTimeout)
	setInt(&c.Backend.CatalogConcurrency, fc.Backend.CatalogConcurrency)
	setInt(&c.Backend.ExportPageLimit, fc.Backend.ExportPageLimit)

	setString(&c.Time.DisplayFormat, fc.Time.DisplayFormat)
	setInt(&c.Time.DefaultEstimatedMinutes, fc.Time.DefaultEstimatedMinutes)
	if fc.Time.MaxFutureDays != nil {
		c.Time.MaxFutureDays = *fc.Time.MaxFutureDays
	}

	setDuration(&c.Live.TickInterval, fc.Live.TickInterval)
	setString(&c.Server.Addr, fc.Server.Addr)

	setDuration(&c.Application.Timeout, fc.Application.Timeout)
	if fc.Application.Verbose != nil {
		c.Application.Verbose = *fc.Application.Verbose
	}
	setString(&c.Application.LogLevel, fc.Application.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v != "" {
		*dst = ParseDurationWithFallback(v, *dst)
	}
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir      *string
	DBFilename *string

	// Backend overrides
	BackendURL     *string
	BackendTimeout *time.Duration

	// Live overrides
	TickInterval *time.Duration

	// Server overrides
	ServerAddr *string

	// Application overrides
	Timeout  *time.Duration
	Verbose  *bool
	LogLevel *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}

	if overrides.BackendURL != nil {
		config.Backend.BaseURL = *overrides.BackendURL
	}
	if overrides.BackendTimeout != nil {
		config.Backend.RequestTimeout = *overrides.BackendTimeout
	}

	if overrides.TickInterval != nil {
		config.Live.TickInterval = *overrides.TickInterval
	}

	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogLevel != nil {
		config.Application.LogLevel = *overrides.LogLevel
	}
}
