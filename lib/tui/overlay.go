// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ticketflow/ticketflow/lib/notify"
)

// ToastWidth is the outer width of a rendered toast, borders included.
const ToastWidth = 40

// SpliceOverlay replaces a rectangle of view with overlayLines, whose
// top-left corner lands at (anchorX, anchorY). Truncation is
// ANSI-aware, so styling in view survives on both sides of the
// overlay. Lines falling outside view are dropped.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		line := viewLines[row]
		lineWidth := ansi.StringWidth(line)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(line, anchorX, "")
			result.WriteString(prefix)
			if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
				result.WriteString(strings.Repeat(" ", gap))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		if suffixStart := anchorX + ansi.StringWidth(overlayLine); suffixStart < lineWidth {
			result.WriteString(ansi.TruncateLeft(line, suffixStart, ""))
		}
		viewLines[row] = result.String()
	}
	return strings.Join(viewLines, "\n")
}

// OverlayTopRight splices overlayLines against the right edge of a
// view that is width columns wide, starting at row top.
func OverlayTopRight(view string, overlayLines []string, width, top int) string {
	if len(overlayLines) == 0 {
		return view
	}
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}
	return SpliceOverlay(view, overlayLines, max(0, width-overlayWidth-1), top)
}

// RenderToasts draws one bordered box per notification, newest last,
// stacked vertically. Long messages wrap inside the box.
func RenderToasts(notifications []notify.Notification, theme Theme) []string {
	var lines []string
	for _, notification := range notifications {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.SeverityColor(notification.Severity)).
			Background(theme.ToastBackground).
			Foreground(theme.NormalText).
			Padding(0, 1).
			Width(ToastWidth - 2)
		rendered := box.Render(ansi.Wrap(notification.Message, ToastWidth-4, " "))
		lines = append(lines, strings.Split(rendered, "\n")...)
	}
	return lines
}

// Excerpt returns the first non-blank line of body, truncated to
// maxWidth with an ellipsis.
func Excerpt(body string, maxWidth int) string {
	for line := range strings.SplitSeq(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, maxWidth, "…")
		}
		return trimmed
	}
	return ""
}
