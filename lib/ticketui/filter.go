// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketflow/ticketflow/lib/ticket"
)

// FilterModel is the fuzzy filter over the ticket list. It composes
// with the status tabs: the tab picks the base set and the filter
// narrows and reorders it by match quality.
type FilterModel struct {
	// Input is the current query.
	Input string

	// Active is true while the filter bar has keyboard focus.
	Active bool
}

// Apply matches tickets against the query. An empty query keeps every
// ticket in its original order.
func (filter *FilterModel) Apply(tickets []ticket.Ticket) []ticket.Match {
	return ticket.Search(tickets, filter.Input)
}

// HandleRunes appends typed characters to the query.
func (filter *FilterModel) HandleRunes(characters []rune) {
	filter.Input += string(characters)
}

// HandleBackspace removes the last character. It reports whether the
// query changed.
func (filter *FilterModel) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties the query and releases focus.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar: an input with a cursor while active, a
// dim reminder when inactive with a query, and nothing otherwise.
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	if filter.Active {
		cursor := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).Width(width).
			Render(" / " + filter.Input + cursor)
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).Width(width).
		Render(" filter: " + filter.Input + "  (/ to edit, Esc to clear)")
}
