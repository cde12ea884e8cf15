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
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
	"github.com/ticketflow/ticketflow/lib/ticket"
	"github.com/ticketflow/ticketflow/lib/tui"
)

func ticketCommand(env environment) *cli.Command {
	return &cli.Command{
		Name:    "ticket",
		Summary: "List and change tickets",
		Description: `List, create, update, and delete tickets without opening the
interactive interface. Every subcommand requires a signed-in session.`,
		Subcommands: []*cli.Command{
			ticketListCommand(env),
			ticketShowCommand(env),
			ticketStatsCommand(env),
			ticketCreateCommand(env),
			ticketUpdateCommand(env),
			ticketDeleteCommand(env),
		},
	}
}

// withSession is withStores for commands that need a signed-in user.
func withSession(ctx context.Context, env environment, flags *storeFlags, fn func(*stores, *slog.Logger) error) error {
	return withStores(ctx, env, flags, func(opened *stores, logger *slog.Logger) error {
		if _, err := requireSession(opened); err != nil {
			return err
		}
		return fn(opened, logger)
	})
}

func ticketListCommand(env environment) *cli.Command {
	var flags storeFlags
	var output cli.JSONOutput
	var status, priority, query string

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets",
		Examples: []cli.Example{
			{Description: "Open tickets as JSON", Command: "ticketflow ticket list --status open --json"},
			{Description: "Fuzzy search titles and ids", Command: "ticketflow ticket list --search prntr"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			flagSet.StringVar(&status, "status", "", "only tickets with this status (open, in_progress, closed)")
			flagSet.StringVar(&priority, "priority", "", "only tickets with this priority (low, medium, high)")
			flagSet.StringVar(&query, "search", "", "fuzzy match against titles and ids, best first")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			var filter ticket.Filter
			var err error
			if status != "" {
				if filter.Status, err = ticket.ParseStatus(status); err != nil {
					return cli.Validation("--status: %w", err)
				}
			}
			if priority != "" {
				if filter.Priority, err = ticket.ParsePriority(priority); err != nil {
					return cli.Validation("--priority: %w", err)
				}
			}
			return withSession(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				var selected []ticket.Ticket
				for _, match := range ticket.Search(opened.tickets.Filter(filter), query) {
					selected = append(selected, match.Ticket)
				}
				if done, err := output.Emit(env.stdout, selected); done {
					return err
				}
				if len(selected) == 0 {
					fmt.Fprintln(env.stderr, "No tickets found.")
					return nil
				}
				writer := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintln(writer, "ID\tSTATUS\tPRIORITY\tTITLE")
				for _, entry := range selected {
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", entry.ID, entry.Status, priorityOf(entry), entry.Title)
				}
				return writer.Flush()
			})
		},
	}
}

func ticketShowCommand(env environment) *cli.Command {
	var flags storeFlags
	var output cli.JSONOutput
	var width int

	return &cli.Command{
		Name:    "show",
		Summary: "Show one ticket with its description rendered",
		Usage:   "ticketflow ticket show <id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			flagSet.IntVar(&width, "width", 80, "wrap the description at this many columns")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			id, err := singleArgument(args, "ticket id", "ticketflow ticket show <id>")
			if err != nil {
				return err
			}
			return withSession(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				found, ok := opened.tickets.Get(id)
				if !ok {
					return ticketNotFound(id)
				}
				if done, err := output.Emit(env.stdout, found); done {
					return err
				}
				fmt.Fprintf(env.stdout, "%s  %s\n%s · %s priority\n", found.ID, found.Title, found.Status.Label(), ticket.Priority(priorityOf(found)).Label())
				if strings.TrimSpace(found.Description) != "" {
					fmt.Fprintf(env.stdout, "\n%s\n", tui.RenderMarkdown(found.Description, tui.DefaultTheme, width))
				}
				return nil
			})
		},
	}
}

func ticketStatsCommand(env environment) *cli.Command {
	var flags storeFlags
	var output cli.JSONOutput

	return &cli.Command{
		Name:    "stats",
		Summary: "Print the dashboard counts",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stats", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withSession(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				stats := opened.tickets.Stats()
				if done, err := output.Emit(env.stdout, map[string]int{
					"total":       stats.Total,
					"open":        stats.Open,
					"in_progress": stats.InProgress,
					"closed":      stats.Closed,
				}); done {
					return err
				}
				_, err := fmt.Fprintf(env.stdout, "Total: %d\nOpen: %d\nIn Progress: %d\nResolved: %d\n",
					stats.Total, stats.Open, stats.InProgress, stats.Closed)
				return err
			})
		},
	}
}

// ticketFieldFlags binds the editable fields of a ticket.
type ticketFieldFlags struct {
	title           string
	status          string
	priority        string
	description     string
	descriptionFile string
}

func (f *ticketFieldFlags) add(flagSet *pflag.FlagSet, statusDefault string) {
	flagSet.StringVar(&f.title, "title", "", "ticket title")
	flagSet.StringVar(&f.status, "status", statusDefault, "open, in_progress, or closed")
	flagSet.StringVar(&f.priority, "priority", "", "low, medium, or high (default medium)")
	flagSet.StringVar(&f.description, "description", "", "description, Markdown allowed")
	flagSet.StringVar(&f.descriptionFile, "description-file", "", "read the description from this file, or - for stdin")
}

func (f *ticketFieldFlags) readDescription() (string, error) {
	switch f.descriptionFile {
	case "":
		return f.description, nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", cli.Internal("reading description from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(f.descriptionFile)
	if err != nil {
		return "", cli.Validation("reading %s: %w", f.descriptionFile, err)
	}
	return string(data), nil
}

func ticketCreateCommand(env environment) *cli.Command {
	var flags storeFlags
	var output cli.JSONOutput
	var fields ticketFieldFlags

	return &cli.Command{
		Name:    "create",
		Summary: "Create a ticket",
		Usage:   "ticketflow ticket create --title <title> [flags]",
		Examples: []cli.Example{
			{Command: `ticketflow ticket create --title "Printer jam" --priority high`},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			fields.add(flagSet, string(ticket.StatusOpen))
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			description, err := fields.readDescription()
			if err != nil {
				return err
			}
			candidate := ticket.Fields{
				Title:       fields.title,
				Status:      ticket.Status(fields.status),
				Description: description,
				Priority:    ticket.Priority(fields.priority),
			}
			if err := candidate.Validate(); err != nil {
				return validationError(err)
			}
			return withSession(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				created, err := opened.tickets.Create(ctx, candidate)
				if err != nil {
					return cli.Internal("creating ticket: %w", err)
				}
				if done, err := output.Emit(env.stdout, created); done {
					return err
				}
				_, err = fmt.Fprintln(env.stdout, created.ID)
				return err
			})
		},
	}
}

func ticketUpdateCommand(env environment) *cli.Command {
	var flags storeFlags
	var output cli.JSONOutput
	var fields ticketFieldFlags
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "update",
		Summary: "Change fields of a ticket",
		Description: `Change the fields named by flags. Fields without a flag keep their
values; the result must still pass the same checks as the edit form.`,
		Usage: "ticketflow ticket update <id> [flags]",
		Examples: []cli.Example{
			{Command: "ticketflow ticket update tkt-1a2b3c4d --status closed"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("update", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			fields.add(flagSet, "")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			id, err := singleArgument(args, "ticket id", "ticketflow ticket update <id> [flags]")
			if err != nil {
				return err
			}
			var patch ticket.Patch
			if flagSet.Changed("title") {
				patch.Title = &fields.title
			}
			if flagSet.Changed("status") {
				status := ticket.Status(fields.status)
				patch.Status = &status
			}
			if flagSet.Changed("priority") {
				priority, err := ticket.ParsePriority(fields.priority)
				if err != nil {
					return cli.Validation("--priority: %w", err)
				}
				patch.Priority = &priority
			}
			if flagSet.Changed("description") || flagSet.Changed("description-file") {
				description, err := fields.readDescription()
				if err != nil {
					return err
				}
				patch.Description = &description
			}
			if patch.IsEmpty() {
				return cli.Validation("nothing to update").
					WithHint("Pass at least one of --title, --status, --priority, --description.")
			}

			return withSession(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				existing, ok := opened.tickets.Get(id)
				if !ok {
					return ticketNotFound(id)
				}
				if err := patch.Apply(existing).Fields().Validate(); err != nil {
					return validationError(err)
				}
				updated, found, err := opened.tickets.Update(ctx, id, patch)
				if err != nil {
					return cli.Internal("updating %s: %w", id, err)
				}
				if !found {
					return ticketNotFound(id)
				}
				if done, err := output.Emit(env.stdout, updated); done {
					return err
				}
				return nil
			})
		},
	}
}

func ticketDeleteCommand(env environment) *cli.Command {
	var flags storeFlags
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a ticket",
		Usage:   "ticketflow ticket delete <id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("delete", pflag.ContinueOnError)
			flags.add(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			id, err := singleArgument(args, "ticket id", "ticketflow ticket delete <id>")
			if err != nil {
				return err
			}
			return withSession(ctx, env, &flags, func(opened *stores, _ *slog.Logger) error {
				removed, err := opened.tickets.Delete(ctx, id)
				if err != nil {
					return cli.Internal("deleting %s: %w", id, err)
				}
				if !removed {
					return ticketNotFound(id)
				}
				return nil
			})
		},
	}
}

func ticketNotFound(id string) error {
	return cli.NotFound("ticket %q not found", id).
		WithHint("Run 'ticketflow ticket list' to see ticket ids.")
}

// validationError turns a ticket.ValidationError into one line per
// field.
func validationError(err error) error {
	var problems ticket.ValidationError
	if !errors.As(err, &problems) {
		return cli.Validation("%w", err)
	}
	messages := make([]string, 0, len(problems))
	for _, problem := range problems {
		messages = append(messages, fmt.Sprintf("%s: %s", problem.Field, problem.Message))
	}
	return cli.Validation("%s", strings.Join(messages, "; "))
}

func priorityOf(entry ticket.Ticket) string {
	if entry.Priority == "" {
		return string(ticket.DefaultPriority)
	}
	return string(entry.Priority)
}
