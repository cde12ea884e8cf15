// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
	"github.com/ticketflow/ticketflow/lib/session"
)

func loginCommand(env environment) *cli.Command {
	var flags storeFlags
	var passwordFile string
	var output cli.JSONOutput

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and save the session",
		Description: `Sign in as <email> and save the session, as the login form does.

The password is prompted for with echo disabled unless --password-file
names a file holding it. Any password of at least 6 characters is accepted.`,
		Usage: "ticketflow login <email> [flags]",
		Examples: []cli.Example{
			{Description: "Sign in interactively", Command: "ticketflow login ada@example.com"},
			{Description: "Sign in from a script", Command: "ticketflow login ada@example.com --password-file ./password"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flags.add(flagSet)
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			email, err := singleArgument(args, "email", "ticketflow login <email>")
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}
			if problems := session.ValidateLoginForm(email, password); len(problems) > 0 {
				return cli.Validation("%s", formProblems(problems, session.FieldEmail, session.FieldPassword))
			}
			return withStores(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				started, err := opened.sessions.Login(ctx, email, password)
				if err != nil {
					return sessionError(err)
				}
				return printSession(env, &output, started)
			})
		},
	}
}

func signupCommand(env environment) *cli.Command {
	var flags storeFlags
	var passwordFile string
	var output cli.JSONOutput

	return &cli.Command{
		Name:    "signup",
		Summary: "Create an account and sign in",
		Description: `Create an account for <email> and sign in, as the signup form does.

The password is prompted for twice with echo disabled. With
--password-file the file's content serves as both password and
confirmation.`,
		Usage: "ticketflow signup <email> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("signup", pflag.ContinueOnError)
			flags.add(flagSet)
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			email, err := singleArgument(args, "email", "ticketflow signup <email>")
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}
			confirm := password
			if passwordFile == "" || passwordFile == "-" {
				if confirm, err = cli.ReadPassword(passwordFile, "Confirm password: "); err != nil {
					return err
				}
			}
			if problems := session.ValidateSignupForm(email, password, confirm); len(problems) > 0 {
				return cli.Validation("%s", formProblems(problems, session.FieldEmail, session.FieldPassword, session.FieldConfirm))
			}
			return withStores(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				started, err := opened.sessions.Signup(ctx, email, password, confirm)
				if err != nil {
					return sessionError(err)
				}
				return printSession(env, &output, started)
			})
		},
	}
}

func logoutCommand(env environment) *cli.Command {
	var flags storeFlags
	return &cli.Command{
		Name:    "logout",
		Summary: "Remove the saved session",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			flags.add(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withStores(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				if err := opened.sessions.Logout(ctx); err != nil {
					return cli.Internal("logging out: %w", err)
				}
				return nil
			})
		},
	}
}

func whoamiCommand(env environment) *cli.Command {
	var flags storeFlags
	var output cli.JSONOutput
	return &cli.Command{
		Name:        "whoami",
		Summary:     "Print the signed-in email",
		Description: "Print the email of the saved session. Exits 1 without output when nobody is signed in.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withStores(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				current, ok := opened.sessions.Current()
				if !ok {
					return &cli.ExitError{Code: 1}
				}
				return printSession(env, &output, current)
			})
		},
	}
}

func printSession(env environment, output *cli.JSONOutput, current session.Session) error {
	if done, err := output.Emit(env.stdout, current); done {
		return err
	}
	_, err := fmt.Fprintln(env.stdout, current.Identifier)
	return err
}

// sessionError categorizes a failed Login or Signup. The store has
// already printed the user-facing message.
func sessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrSecretMismatch),
		errors.Is(err, session.ErrSecretTooShort),
		errors.Is(err, session.ErrIdentifierRequired):
		return cli.Validation("%w", err)
	}
	return cli.Internal("%w", err)
}

// requireSession returns the signed-in session, or a validation error
// pointing at login. Ticket commands require one, as the ticket
// screens do.
func requireSession(opened *stores) (session.Session, error) {
	current, ok := opened.sessions.Current()
	if !ok {
		return session.Session{}, cli.Validation("not signed in").
			WithHint("Run 'ticketflow login <email>' first.")
	}
	return current, nil
}

func singleArgument(args []string, name, usage string) (string, error) {
	switch {
	case len(args) == 0:
		return "", cli.Validation("%s is required", name).WithHint("Usage: " + usage)
	case len(args) > 1:
		return "", cli.Validation("unexpected argument: %s", args[1])
	}
	return args[0], nil
}

// formProblems joins inline form messages in field order.
func formProblems(problems map[string]string, order ...string) string {
	var messages []string
	for _, field := range order {
		if message := problems[field]; message != "" {
			messages = append(messages, message)
		}
	}
	return strings.Join(messages, "; ")
}
