// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketflow/ticketflow/lib/notify"
	"github.com/ticketflow/ticketflow/lib/ticket"
)

// Theme is the color palette. Colors are ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Accent marks focus: the active tab, a focused input, the
	// scrollbar thumb.
	Accent lipgloss.Color

	StatusOpen       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusClosed     lipgloss.Color

	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color

	// Toast borders by severity.
	Success lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	SearchHighlightBackground lipgloss.Color
	ToastBackground           lipgloss.Color
}

// StatusColor returns the color for s, or FaintText for unknown
// values.
func (theme Theme) StatusColor(s ticket.Status) lipgloss.Color {
	switch s {
	case ticket.StatusOpen:
		return theme.StatusOpen
	case ticket.StatusInProgress:
		return theme.StatusInProgress
	case ticket.StatusClosed:
		return theme.StatusClosed
	default:
		return theme.FaintText
	}
}

// PriorityColor returns the color for p. An empty priority displays as
// the default one.
func (theme Theme) PriorityColor(p ticket.Priority) lipgloss.Color {
	if p == "" {
		p = ticket.DefaultPriority
	}
	switch p {
	case ticket.PriorityLow:
		return theme.PriorityLow
	case ticket.PriorityMedium:
		return theme.PriorityMedium
	case ticket.PriorityHigh:
		return theme.PriorityHigh
	default:
		return theme.NormalText
	}
}

// SeverityColor returns the toast accent for s.
func (theme Theme) SeverityColor(s notify.Severity) lipgloss.Color {
	switch s {
	case notify.SeveritySuccess:
		return theme.Success
	case notify.SeverityError:
		return theme.Error
	default:
		return theme.Info
	}
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Accent: lipgloss.Color("75"),

	StatusOpen:       lipgloss.Color("114"), // green
	StatusInProgress: lipgloss.Color("220"), // amber
	StatusClosed:     lipgloss.Color("245"), // gray

	PriorityLow:    lipgloss.Color("245"),
	PriorityMedium: lipgloss.Color("75"),
	PriorityHigh:   lipgloss.Color("208"),

	Success: lipgloss.Color("114"),
	Error:   lipgloss.Color("196"),
	Info:    lipgloss.Color("75"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	SearchHighlightBackground: lipgloss.Color("58"),
	ToastBackground:           lipgloss.Color("237"),
}
