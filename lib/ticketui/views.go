// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ticketflow/ticketflow/lib/route"
	"github.com/ticketflow/ticketflow/lib/ticket"
	"github.com/ticketflow/ticketflow/lib/tui"
)

// Rows outside the screen body: navbar, separator, help bar.
const chromeRows = 3

// View renders the current screen with the toast stack on top.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	bodyHeight := max(1, model.height-chromeRows)
	var body string
	switch model.view {
	case route.Login, route.Signup:
		body = model.renderAuth(bodyHeight)
	case route.Dashboard:
		body = model.renderDashboard(bodyHeight)
	case route.Tickets:
		body = model.renderTickets(bodyHeight)
	default:
		body = model.renderLanding(bodyHeight)
	}

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	output := strings.Join([]string{
		model.renderNavbar(),
		fitBlock(body, model.width, bodyHeight),
		separator,
		ansi.Truncate(model.renderHelp(), model.width, ""),
	}, "\n")

	if len(model.toasts) > 0 {
		output = tui.OverlayTopRight(output, tui.RenderToasts(model.toasts, model.theme), model.width, 1)
	}
	return output
}

// fitBlock pads or clips content to exactly height lines, each at
// most width cells.
func fitBlock(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for index, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[index] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderNavbar() string {
	brand := lipgloss.NewStyle().Foreground(model.theme.Accent).Bold(true).Render(" TicketFlow")
	title := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Render(" · " + model.view.Title())

	right := "not signed in "
	if current, ok := model.signedIn(); ok {
		right = current.Identifier + " "
	}
	right = lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(right)

	gap := max(1, model.width-lipgloss.Width(brand)-lipgloss.Width(title)-lipgloss.Width(right))
	return brand + title + strings.Repeat(" ", gap) + right
}

func (model Model) renderLanding(height int) string {
	theme := model.theme
	width := min(model.width-4, 72)
	heading := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("TicketFlow")
	blurb := lipgloss.NewStyle().Foreground(theme.NormalText).Width(width).Align(lipgloss.Center).
		Render("The modern ticket management system designed for teams who value simplicity and efficiency")

	features := []struct{ title, text string }{
		{"Fast & Efficient", "Create and resolve tickets without leaving the terminal."},
		{"Clear Priorities", "Every ticket carries a status and a priority at a glance."},
		{"Stays in Sync", "Changes made in another window show up here immediately."},
	}
	var featureLines []string
	for _, feature := range features {
		featureLines = append(featureLines,
			lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("• "+feature.title),
			lipgloss.NewStyle().Foreground(theme.FaintText).Render("  "+feature.text))
	}

	var actions string
	if _, ok := model.signedIn(); ok {
		actions = model.helpItems(model.keys.Dashboard, model.keys.Tickets, model.keys.Logout)
	} else {
		actions = model.helpItems(model.keys.Login, model.keys.Signup)
		actions = strings.Replace(actions, "sign up", "get started", 1)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		heading,
		"",
		blurb,
		"",
		actions,
		"",
		lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("Why Choose TicketFlow?"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, featureLines...),
	)
	return lipgloss.Place(model.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (model Model) renderAuth(height int) string {
	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(1, 2).
		Render(model.auth.view(model.theme, model.width))
	return lipgloss.Place(model.width, height, lipgloss.Center, lipgloss.Center, form)
}

func (model Model) renderDashboard(height int) string {
	theme := model.theme
	cards := []struct {
		label string
		value int
		color lipgloss.Color
	}{
		{"Total Tickets", model.stats.Total, theme.Accent},
		{"Open", model.stats.Open, theme.StatusColor(ticket.StatusOpen)},
		{"In Progress", model.stats.InProgress, theme.StatusColor(ticket.StatusInProgress)},
		{"Resolved", model.stats.Closed, theme.StatusColor(ticket.StatusClosed)},
	}
	cardWidth := max(14, min(20, (model.width-8)/len(cards)-2))
	var rendered []string
	for _, card := range cards {
		value := lipgloss.NewStyle().Foreground(card.color).Bold(true).Render(strconv.Itoa(card.value))
		label := lipgloss.NewStyle().Foreground(theme.FaintText).Render(card.label)
		rendered = append(rendered, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(card.color).
			Width(cardWidth).
			Padding(0, 1).
			Render(value+"\n"+label))
	}

	greeting := "Dashboard"
	if current, ok := model.signedIn(); ok {
		greeting = "Welcome back, " + current.Identifier
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(greeting),
		lipgloss.NewStyle().Foreground(theme.FaintText).Render("Here's an overview of your tickets."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		"",
		model.helpItems(model.keys.Tickets)+lipgloss.NewStyle().Foreground(theme.FaintText).Render("  (Manage Tickets)"),
	)
	return lipgloss.Place(model.width, height, lipgloss.Center, lipgloss.Center, content)
}

// listHeight is the number of ticket rows that fit: the body minus the
// tab bar.
func (model Model) listHeight() int {
	return model.height - chromeRows - 1
}

func (model Model) listWidth() int {
	return max(24, model.width*2/5)
}

func (model Model) renderTickets(height int) string {
	top := model.filter.View(model.theme, model.width)
	if top == "" {
		top = model.renderTabs()
	}
	contentHeight := max(1, height-1)

	if model.form != nil {
		formWidth := min(model.width-2, 80)
		form := lipgloss.NewStyle().PaddingLeft(1).Render(model.form.view(model.theme, formWidth))
		return top + "\n" + form
	}

	if len(model.matches) == 0 {
		text := "No tickets yet. Create your first ticket!"
		if model.stats.Total > 0 {
			text = "No tickets match."
		}
		empty := lipgloss.Place(model.width, contentHeight, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(text+"\n\n"+model.helpItems(model.keys.New)))
		return top + "\n" + empty
	}

	listWidth := model.listWidth()
	detailWidth := max(10, model.width-listWidth-2)
	list := fitBlock(model.renderList(listWidth, contentHeight), listWidth, contentHeight)
	scrollbar := tui.RenderScrollbar(model.theme, contentHeight, len(model.matches), contentHeight, model.scrollOffset)
	detail := fitBlock(model.renderDetail(detailWidth), detailWidth, contentHeight)
	return top + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, list, scrollbar, " ", detail)
}

func (model Model) renderTabs() string {
	var parts []string
	for _, definition := range tabDefs {
		count := model.stats.Total
		switch definition.status {
		case ticket.StatusOpen:
			count = model.stats.Open
		case ticket.StatusInProgress:
			count = model.stats.InProgress
		case ticket.StatusClosed:
			count = model.stats.Closed
		}
		label := fmt.Sprintf(" %s (%d) ", definition.label, count)
		style := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		if definition.tab == model.activeTab {
			style = lipgloss.NewStyle().
				Foreground(model.theme.SelectedForeground).
				Background(model.theme.SelectedBackground).
				Bold(true)
		}
		parts = append(parts, style.Render(label))
	}
	heading := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render(" Ticket Management ")
	return heading + strings.Join(parts, " ")
}

func statusIcon(status ticket.Status) string {
	switch status {
	case ticket.StatusOpen:
		return "○"
	case ticket.StatusInProgress:
		return "◐"
	case ticket.StatusClosed:
		return "●"
	}
	return "?"
}

func (model Model) renderList(width, height int) string {
	theme := model.theme
	end := min(len(model.matches), model.scrollOffset+height)
	var rows []string
	for index := model.scrollOffset; index < end; index++ {
		match := model.matches[index]
		selected := index == model.cursor

		icon := lipgloss.NewStyle().Foreground(theme.StatusColor(match.Ticket.Status)).Render(statusIcon(match.Ticket.Status))
		priority := match.Ticket.Priority
		if priority == "" {
			priority = ticket.DefaultPriority
		}
		badge := lipgloss.NewStyle().Foreground(theme.PriorityColor(priority)).Render(strings.ToUpper(string(priority)[:1]))

		titleWidth := max(1, width-6)
		title := highlightTitle(match, theme, selected)
		if ansi.StringWidth(title) > titleWidth {
			title = ansi.Truncate(title, titleWidth, "…")
		}
		row := " " + icon + " " + badge + " " + title
		if selected {
			padding := max(0, width-ansi.StringWidth(row))
			row = lipgloss.NewStyle().Background(theme.SelectedBackground).Render(row + strings.Repeat(" ", padding))
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// highlightTitle renders the title with the fuzzy-matched characters
// emphasized.
func highlightTitle(match ticket.Match, theme Theme, selected bool) string {
	base := lipgloss.NewStyle().Foreground(theme.NormalText)
	if selected {
		base = base.Foreground(theme.SelectedForeground).Background(theme.SelectedBackground)
	}
	if len(match.TitleIndexes) == 0 {
		return base.Render(match.Ticket.Title)
	}
	highlight := base.Background(theme.SearchHighlightBackground).Bold(true)
	matched := make(map[int]bool, len(match.TitleIndexes))
	for _, offset := range match.TitleIndexes {
		matched[offset] = true
	}
	var builder strings.Builder
	for offset, character := range match.Ticket.Title {
		if matched[offset] {
			builder.WriteString(highlight.Render(string(character)))
		} else {
			builder.WriteString(base.Render(string(character)))
		}
	}
	return builder.String()
}

func (model Model) renderDetail(width int) string {
	selected, ok := model.selected()
	if !ok {
		return ""
	}
	theme := model.theme
	priority := selected.Priority
	if priority == "" {
		priority = ticket.DefaultPriority
	}

	title := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Width(width).Render(selected.Title)
	meta := lipgloss.NewStyle().Foreground(theme.FaintText).Render(selected.ID+" · ") +
		lipgloss.NewStyle().Foreground(theme.StatusColor(selected.Status)).Render(selected.Status.Label()) +
		lipgloss.NewStyle().Foreground(theme.FaintText).Render(" · ") +
		lipgloss.NewStyle().Foreground(theme.PriorityColor(priority)).Render(priority.Label()+" priority")

	description := tui.RenderMarkdown(selected.Description, theme, width)
	if strings.TrimSpace(description) == "" {
		description = lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true).Render("No description.")
	}
	return strings.Join([]string{title, meta, "", description}, "\n")
}

// helpItems renders bindings as "key description" pairs.
func (model Model) helpItems(bindings ...key.Binding) string {
	keyStyle := lipgloss.NewStyle().Foreground(model.theme.Accent).Bold(true)
	descriptionStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	var parts []string
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, keyStyle.Render(help.Key)+" "+descriptionStyle.Render(help.Desc))
	}
	return strings.Join(parts, "  ")
}

func (model Model) renderHelp() string {
	keys := model.keys
	_, signedIn := model.signedIn()

	var help string
	switch model.view {
	case route.Login, route.Signup:
		help = model.helpItems(keys.NextField, keys.Submit, keys.Back)
	case route.Dashboard:
		help = model.helpItems(keys.Tickets, keys.Logout, keys.Back, keys.Quit)
	case route.Tickets:
		help = model.ticketHelp()
	default:
		if signedIn {
			help = model.helpItems(keys.Dashboard, keys.Tickets, keys.Logout, keys.Quit)
		} else {
			help = model.helpItems(keys.Login, keys.Signup, keys.Quit)
		}
	}
	if len(model.toasts) > 0 && model.pendingDelete == "" {
		help += "  " + model.helpItems(keys.DismissToast)
	}
	return " " + help
}

func (model Model) ticketHelp() string {
	keys := model.keys
	switch {
	case model.pendingDelete != "":
		prompt := "Are you sure you want to delete this ticket?"
		for _, match := range model.matches {
			if match.Ticket.ID == model.pendingDelete {
				prompt = fmt.Sprintf("Are you sure you want to delete %q?", match.Ticket.Title)
			}
		}
		return lipgloss.NewStyle().Foreground(model.theme.Error).Bold(true).Render(prompt) + "  " +
			model.helpItems(keys.Confirm, keys.Cancel)
	case model.form != nil:
		return model.helpItems(keys.NextField, keys.PreviousField, keys.Submit, keys.Back)
	case model.filter.Active:
		return model.helpItems(keys.FilterClear) + "  " +
			lipgloss.NewStyle().Foreground(model.theme.HelpText).Render("Enter done")
	}
	help := model.helpItems(keys.Up, keys.Down, keys.New, keys.Edit, keys.Delete, keys.FilterActivate, keys.Dashboard, keys.Quit)
	if total := len(model.matches); total > 0 {
		help += lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(fmt.Sprintf("  %d/%d", model.cursor+1, total))
	}
	return help
}
