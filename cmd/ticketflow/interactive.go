// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
	"github.com/ticketflow/ticketflow/lib/clock"
	"github.com/ticketflow/ticketflow/lib/notify"
	"github.com/ticketflow/ticketflow/lib/session"
	"github.com/ticketflow/ticketflow/lib/ticketstore"
	"github.com/ticketflow/ticketflow/lib/ticketui"
	"github.com/ticketflow/ticketflow/lib/watch"
)

// interactiveOptions are the root command's own flags.
type interactiveOptions struct {
	store     storeFlags
	route     string
	logOutput string
	version   bool
}

// runInteractive opens the stores and runs the terminal interface
// until the user quits or ctx is cancelled.
//
// The interface owns the terminal, so nothing may write to stderr
// while it runs. Log records at warn and above become notifications
// instead, and --log-output captures everything to a JSON file.
func runInteractive(ctx context.Context, options *interactiveOptions) error {
	cfg, err := options.store.load()
	if err != nil {
		return err
	}

	emitter := notify.NewEmitter(clock.Real(), cfg.Notifications.TTL)
	bridge := &ticketui.Bridge{}
	emitter.OnChange(bridge.NotificationsChanged)

	handlers := cli.FanoutHandler{notify.NewHandler(emitter, slog.LevelWarn)}
	if options.logOutput != "" {
		fileHandler, closeFile, err := cli.OpenFileLogHandler(options.logOutput)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", options.logOutput, err)
		}
		defer closeFile()
		handlers = append(handlers, fileHandler)
	}
	logger := slog.New(handlers)

	opened, err := openStores(ctx, cfg, emitter, logger)
	if err != nil {
		return err
	}
	defer opened.close()

	if cfg.Watch.Enabled && opened.files != nil {
		watcher, err := watch.Start(watch.Config{
			Directory: opened.files.Directory(),
			Targets: []watch.Target{
				{Key: session.Key, Reloader: opened.sessions},
				{Key: ticketstore.Key, Reloader: opened.tickets},
			},
			OnChange: bridge.StoreChanged,
			OnError: func(key string, err error) {
				logger.Warn("ignored an unreadable change made elsewhere", "key", key, "error", err)
			},
			Logger: logger,
		})
		if err != nil {
			logger.Warn("not watching for changes made elsewhere", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	model := ticketui.NewModel(ticketui.Config{
		Sessions:      opened.sessions,
		Tickets:       opened.tickets,
		Notifications: emitter,
		Context:       ctx,
		Start:         options.route,
		Logger:        logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.SetProgram(program)

	logger.Info("interface started", "backend", cfg.Storage.Backend, "route", options.route)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return cli.Internal("running interface: %w", err)
	}
	return nil
}
