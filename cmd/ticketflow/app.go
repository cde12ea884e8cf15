// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
	"github.com/ticketflow/ticketflow/lib/config"
	"github.com/ticketflow/ticketflow/lib/kvstore"
	"github.com/ticketflow/ticketflow/lib/notify"
	"github.com/ticketflow/ticketflow/lib/session"
	"github.com/ticketflow/ticketflow/lib/ticketstore"
)

// environment is what commands read and write besides the stores.
type environment struct {
	stdout io.Writer
	stderr io.Writer
}

// storeFlags are the flags every command that opens the stores takes.
type storeFlags struct {
	configPath string
	backend    string
	dataDir    string
	ephemeral  bool
	logLevel   string
}

func (f *storeFlags) add(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.configPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+" or built-in defaults)")
	flagSet.StringVar(&f.backend, "backend", "", "storage backend: file, sqlite, or memory")
	flagSet.StringVar(&f.dataDir, "data-dir", "", "directory holding the persisted sessions and tickets")
	flagSet.BoolVar(&f.ephemeral, "ephemeral", false, "keep everything in memory; nothing is saved")
	flagSet.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// load reads the configuration and applies the flag overrides.
func (f *storeFlags) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	if f.dataDir != "" {
		cfg.Storage.Directory = f.dataDir
		cfg.Storage.Database = filepath.Join(f.dataDir, "ticketflow.db")
	}
	if f.backend != "" {
		cfg.Storage.Backend = config.Backend(f.backend)
	}
	if f.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// stores is the opened persistence layer.
type stores struct {
	kv       kvstore.Store
	files    *kvstore.FileStore
	sessions *session.Store
	tickets  *ticketstore.Store
	close    func() error
}

// openStores opens the backend selected by cfg and loads both stores
// from it.
func openStores(ctx context.Context, cfg *config.Config, notifier notify.Notifier, logger *slog.Logger) (*stores, error) {
	opened := &stores{close: func() error { return nil }}

	switch cfg.Storage.Backend {
	case config.BackendFile:
		files, err := kvstore.NewFileStore(cfg.Storage.Directory)
		if err != nil {
			return nil, cli.Internal("opening %s: %w", cfg.Storage.Directory, err)
		}
		opened.kv, opened.files = files, files
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Database), 0o755); err != nil {
			return nil, cli.Internal("creating database directory: %w", err)
		}
		database, err := kvstore.OpenSQLite(kvstore.SQLiteConfig{
			Path:     cfg.Storage.Database,
			PoolSize: cfg.Storage.PoolSize,
			Logger:   logger,
		})
		if err != nil {
			return nil, cli.Internal("opening %s: %w", cfg.Storage.Database, err)
		}
		opened.kv = database
		opened.close = database.Close
	case config.BackendMemory:
		opened.kv = kvstore.NewMemoryStore()
	default:
		return nil, cli.Validation("unknown storage backend %q", cfg.Storage.Backend)
	}

	var err error
	opened.sessions, err = session.Open(ctx, session.Config{KV: opened.kv, Notifier: notifier, Logger: logger})
	if err != nil {
		opened.close()
		return nil, opened.loadError(session.Key, err)
	}
	opened.tickets, err = ticketstore.Open(ctx, ticketstore.Config{KV: opened.kv, Notifier: notifier, Logger: logger})
	if err != nil {
		opened.close()
		return nil, opened.loadError(ticketstore.Key, err)
	}
	logger.Debug("stores opened", "backend", cfg.Storage.Backend)
	return opened, nil
}

func (s *stores) loadError(key string, err error) error {
	if !errors.Is(err, kvstore.ErrCorrupt) {
		return cli.Internal("loading %s: %w", key, err)
	}
	location := fmt.Sprintf("the %q entry", key)
	if s.files != nil {
		location = s.files.Path(key)
	}
	return cli.Internal("loading %s: %w", key, err).
		WithHint(fmt.Sprintf("Repair or delete %s; nothing was changed.", location))
}

// consoleNotifier prints notifications for one-shot commands. Results
// go to stdout, so notifications go to stderr.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(message string, severity notify.Severity) notify.Notification {
	fmt.Fprintln(n.w, message)
	return notify.Notification{Message: message, Severity: severity}
}

// withStores loads the configuration, opens the stores with a console
// notifier, and runs fn.
func withStores(ctx context.Context, env environment, flags *storeFlags, fn func(*stores, *slog.Logger) error) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	// Store activity is already reported through the notifier, so
	// one-shot commands log warnings only unless asked otherwise.
	level := slog.LevelWarn
	if flags.logLevel != "" {
		level, _ = cfg.LogLevel()
	}
	logger := cli.NewCommandLogger(level)
	opened, err := openStores(ctx, cfg, consoleNotifier{w: env.stderr}, logger)
	if err != nil {
		return err
	}
	defer opened.close()
	return fn(opened, logger)
}
