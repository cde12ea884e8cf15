// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings. Letter bindings apply only on
// screens without a focused text input.
type KeyMap struct {
	Quit key.Binding

	// DismissToast removes the newest notification on any screen.
	DismissToast key.Binding

	// Navigation between screens.
	Login     key.Binding
	Signup    key.Binding
	Dashboard key.Binding
	Tickets   key.Binding
	Logout    key.Binding
	Back      key.Binding

	// Ticket list.
	Up            key.Binding
	Down          key.Binding
	Home          key.Binding
	End           key.Binding
	TabAll        key.Binding
	TabOpen       key.Binding
	TabInProgress key.Binding
	TabClosed     key.Binding

	FilterActivate key.Binding
	FilterClear    key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Delete confirmation.
	Confirm key.Binding
	Cancel  key.Binding

	// Forms.
	NextField     key.Binding
	PreviousField key.Binding
	Submit        key.Binding
	OptionLeft    key.Binding
	OptionRight   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	DismissToast: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "dismiss"),
	),
	Login: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "log in"),
	),
	Signup: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sign up"),
	),
	Dashboard: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dashboard"),
	),
	Tickets: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tickets"),
	),
	Logout: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "log out"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	TabAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	TabOpen: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "open"),
	),
	TabInProgress: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "in progress"),
	),
	TabClosed: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "closed"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	PreviousField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s", "enter"),
		key.WithHelp("C-s", "submit"),
	),
	OptionLeft: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous option"),
	),
	OptionRight: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next option"),
	),
}
