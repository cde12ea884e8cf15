// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar draws a one-column scrollbar height rows tall for a
// list of total rows of which visible are shown from offset. When
// everything fits the thumb fills the track.
func RenderScrollbar(theme Theme, height, total, visible, offset int) string {
	if height <= 0 {
		return ""
	}
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(theme.Accent).Render("┃")

	thumbSize, thumbOffset := height, 0
	if total > visible && total > 0 {
		thumbSize = max(1, height*visible/total)
		if scrollable, trackRange := total-visible, height-thumbSize; trackRange > 0 {
			thumbOffset = min(offset*trackRange/scrollable, trackRange)
		}
	}

	lines := make([]string, height)
	for row := range lines {
		if row >= thumbOffset && row < thumbOffset+thumbSize {
			lines[row] = thumb
		} else {
			lines[row] = track
		}
	}
	return strings.Join(lines, "\n")
}
