// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "TICKETFLOW_CONFIG"

// Environment identifies the deployment type.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Backend selects the key-value store implementation.
type Backend string

const (
	// BackendFile stores each key as a JSON file in Storage.Directory.
	BackendFile Backend = "file"
	// BackendSQLite stores keys in a table in Storage.Database.
	BackendSQLite Backend = "sqlite"
	// BackendMemory keeps everything in process memory. Nothing
	// survives a restart.
	BackendMemory Backend = "memory"
)

// Config is the complete TicketFlow configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	Storage       StorageConfig       `yaml:"storage"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Watch         WatchConfig         `yaml:"watch"`
	Log           LogConfig           `yaml:"log"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace.
type Overrides struct {
	Storage       *StorageConfig       `yaml:"storage,omitempty"`
	Notifications *NotificationsConfig `yaml:"notifications,omitempty"`
	Log           *LogConfig           `yaml:"log,omitempty"`
}

// StorageConfig configures where sessions and tickets are persisted.
type StorageConfig struct {
	Backend Backend `yaml:"backend"`

	// Directory holds one JSON file per key for the file backend.
	Directory string `yaml:"directory"`

	// Database is the SQLite database path for the sqlite backend.
	Database string `yaml:"database"`

	// PoolSize is the number of SQLite connections. Zero means the
	// pool default.
	PoolSize int `yaml:"pool_size"`
}

// NotificationsConfig configures the transient notification emitter.
type NotificationsConfig struct {
	// TTL is how long a notification stays visible.
	TTL time.Duration `yaml:"ttl"`
}

// WatchConfig configures reloading when another process rewrites the
// store directory.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := defaults()
	cfg.expandVariables()
	return cfg
}

// defaults leaves Storage.Database as a template so a file that only
// moves Storage.Directory moves the database with it.
func defaults() *Config {
	return &Config{
		Environment: Development,
		Storage: StorageConfig{
			Backend:   BackendFile,
			Directory: defaultDataDirectory(),
			Database:  "${TICKETFLOW_DATA}/ticketflow.db",
		},
		Notifications: NotificationsConfig{TTL: 3 * time.Second},
		Watch:         WatchConfig{Enabled: true},
		Log:           LogConfig{Level: "info"},
	}
}

func defaultDataDirectory() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ticketflow")
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "ticketflow")
	}
	return filepath.Join(homeDirectory, ".local", "share", "ticketflow")
}

// Load reads the file named by TICKETFLOW_CONFIG, or returns [Default]
// when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path on top of [Default], applies
// the matching environment section, and expands path variables.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the stripped document decodes
		// through the same yaml tags.
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if storage := overrides.Storage; storage != nil {
		if storage.Backend != "" {
			c.Storage.Backend = storage.Backend
		}
		if storage.Directory != "" {
			c.Storage.Directory = storage.Directory
		}
		if storage.Database != "" {
			c.Storage.Database = storage.Database
		}
		if storage.PoolSize != 0 {
			c.Storage.PoolSize = storage.PoolSize
		}
	}
	if notifications := overrides.Notifications; notifications != nil && notifications.TTL != 0 {
		c.Notifications.TTL = notifications.TTL
	}
	if log := overrides.Log; log != nil && log.Level != "" {
		c.Log.Level = log.Level
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Storage.Directory = expandVars(c.Storage.Directory, vars)
	vars["TICKETFLOW_DATA"] = c.Storage.Directory
	c.Storage.Database = expandVars(c.Storage.Database, vars)
}

// expandVars replaces ${VAR} and ${VAR:-default}. Names in vars take
// precedence over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case Development, Staging, Production:
	default:
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Directory == "" {
			errs = append(errs, errors.New("storage.directory is required for the file backend"))
		}
	case BackendSQLite:
		if c.Storage.Database == "" {
			errs = append(errs, errors.New("storage.database is required for the sqlite backend"))
		}
	case BackendMemory:
		if c.Environment == Production {
			errs = append(errs, errors.New("storage.backend memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be one of file, sqlite, memory; got %q", c.Storage.Backend))
	}

	if c.Storage.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("storage.pool_size must not be negative, got %d", c.Storage.PoolSize))
	}
	if c.Notifications.TTL <= 0 {
		errs = append(errs, fmt.Errorf("notifications.ttl must be positive, got %v", c.Notifications.TTL))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// EnsureStorage creates the directory the configured backend writes
// into.
func (c *Config) EnsureStorage() error {
	var directory string
	switch c.Storage.Backend {
	case BackendFile:
		directory = c.Storage.Directory
	case BackendSQLite:
		directory = filepath.Dir(c.Storage.Database)
	default:
		return nil
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", directory, err)
	}
	return nil
}
