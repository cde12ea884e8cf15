// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the presentation pieces of TicketFlow's terminal
// interface that do not depend on application state: the color theme,
// overlay splicing for toasts, option pickers, a scrollbar, and a
// Markdown renderer for ticket descriptions.
//
// The bubbletea model that wires these to the stores lives in
// lib/ticketui.
package tui
