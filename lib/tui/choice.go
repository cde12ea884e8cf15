// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Option is one value a Choice can take.
type Option struct {
	Label string
	Value string
	Color lipgloss.Color
}

// Choice is a single-line picker cycled with left and right. Forms use
// it for enumerated fields where a free-text input would only invite
// invalid values.
type Choice struct {
	Options []Option
	Cursor  int
}

// NewChoice returns a Choice positioned on value, or on the first
// option when value is not among them.
func NewChoice(options []Option, value string) Choice {
	choice := Choice{Options: options}
	choice.Select(value)
	return choice
}

// Select moves the cursor to value. It reports whether value was
// found.
func (choice *Choice) Select(value string) bool {
	for index, option := range choice.Options {
		if option.Value == value {
			choice.Cursor = index
			return true
		}
	}
	return false
}

// Next advances, wrapping to the first option.
func (choice *Choice) Next() {
	if len(choice.Options) == 0 {
		return
	}
	choice.Cursor = (choice.Cursor + 1) % len(choice.Options)
}

// Previous moves back, wrapping to the last option.
func (choice *Choice) Previous() {
	if len(choice.Options) == 0 {
		return
	}
	choice.Cursor = (choice.Cursor - 1 + len(choice.Options)) % len(choice.Options)
}

// Selected returns the highlighted option.
func (choice Choice) Selected() Option {
	if len(choice.Options) == 0 {
		return Option{}
	}
	return choice.Options[choice.Cursor]
}

// View renders every option on one line with the selected one
// highlighted. Arrows appear only when focused.
func (choice Choice) View(theme Theme, focused bool) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	parts := make([]string, 0, len(choice.Options))
	for index, option := range choice.Options {
		if index != choice.Cursor {
			parts = append(parts, faint.Render(option.Label))
			continue
		}
		color := option.Color
		if color == "" {
			color = theme.NormalText
		}
		selected := lipgloss.NewStyle().Foreground(color).Bold(true)
		if focused {
			selected = selected.Background(theme.SelectedBackground)
		}
		parts = append(parts, selected.Render(" "+option.Label+" "))
	}
	line := strings.Join(parts, "  ")
	if focused {
		arrow := lipgloss.NewStyle().Foreground(theme.Accent).Render
		line = arrow("◂ ") + line + arrow(" ▸")
	}
	return line
}
