// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// ticketflow is a terminal ticket tracker. Without a subcommand it
// opens the interactive interface; the subcommands sign in and out and
// change tickets from scripts. Both share the same persisted sessions
// and tickets, and an open interface picks up changes the subcommands
// make.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], environment{stdout: os.Stdout, stderr: os.Stderr})
	stop()
	os.Exit(cli.Exit(os.Stderr, err))
}

func run(ctx context.Context, args []string, env environment) error {
	return rootCommand(env).Execute(ctx, args)
}
