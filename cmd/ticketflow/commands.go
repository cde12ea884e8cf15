// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
	"github.com/ticketflow/ticketflow/lib/version"
)

func rootCommand(env environment) *cli.Command {
	var options interactiveOptions

	return &cli.Command{
		Name:    "ticketflow",
		Summary: "Terminal ticket tracker",
		Description: `TicketFlow: the modern ticket management system designed for teams
who value simplicity and efficiency.

Without a command, opens the interactive interface at --route
(/, /login, /signup, /dashboard, or /tickets). Screens that need a
session send you to /login first.`,
		Usage: "ticketflow [command] [flags]",
		Examples: []cli.Example{
			{Description: "Open the ticket list", Command: "ticketflow --route /tickets"},
			{Description: "Try it without saving anything", Command: "ticketflow --ephemeral"},
		},
		Output: env.stderr,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("ticketflow", pflag.ContinueOnError)
			options.store.add(flagSet)
			flagSet.StringVar(&options.route, "route", "/", "screen to open first")
			flagSet.StringVar(&options.logOutput, "log-output", "", "write JSON log records to this file")
			flagSet.BoolVar(&options.version, "version", false, "print the version and exit")
			return flagSet
		},
		Subcommands: []*cli.Command{
			loginCommand(env),
			signupCommand(env),
			logoutCommand(env),
			whoamiCommand(env),
			ticketCommand(env),
			versionCommand(env),
		},
		Run: func(ctx context.Context, args []string) error {
			if options.version {
				_, err := fmt.Fprintln(env.stdout, "ticketflow "+version.Info())
				return err
			}
			if len(args) > 0 {
				return cli.Validation("unknown command %q", args[0]).
					WithHint("Run 'ticketflow --help' for usage.")
			}
			return runInteractive(ctx, &options)
		},
	}
}

func versionCommand(env environment) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(context.Context, []string) error {
			_, err := fmt.Fprintln(env.stdout, "ticketflow "+version.Full())
			return err
		},
	}
}
