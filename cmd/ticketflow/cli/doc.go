// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework of the ticketflow binary: a
// tree of [Command] values with pflag parsing and typo suggestions,
// categorized [ToolError] values that map to exit codes, the command
// logger, --json output, and password input.
package cli
