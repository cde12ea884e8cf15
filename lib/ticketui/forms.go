// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketflow/ticketflow/lib/session"
	"github.com/ticketflow/ticketflow/lib/ticket"
	"github.com/ticketflow/ticketflow/lib/tui"
)

// authForm is the login form, or the signup form when signup is set.
// Field messages appear only after a submit attempt.
type authForm struct {
	signup bool
	inputs []textinput.Model
	names  []string
	focus  int
	errors map[string]string
}

func newAuthForm(signup bool) authForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "at least 6 characters"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword

	form := authForm{
		signup: signup,
		inputs: []textinput.Model{email, password},
		names:  []string{session.FieldEmail, session.FieldPassword},
	}
	if signup {
		confirm := textinput.New()
		confirm.Placeholder = "repeat password"
		confirm.Prompt = ""
		confirm.EchoMode = textinput.EchoPassword
		form.inputs = append(form.inputs, confirm)
		form.names = append(form.names, session.FieldConfirm)
	}
	return form
}

var authLabels = map[string]string{
	session.FieldEmail:    "Email",
	session.FieldPassword: "Password",
	session.FieldConfirm:  "Confirm password",
}

func (form *authForm) setFocus(index int) tea.Cmd {
	count := len(form.inputs)
	form.focus = ((index % count) + count) % count
	var command tea.Cmd
	for position := range form.inputs {
		if position == form.focus {
			command = form.inputs[position].Focus()
		} else {
			form.inputs[position].Blur()
		}
	}
	return command
}

func (form authForm) value(name string) string {
	for index, candidate := range form.names {
		if candidate == name {
			return form.inputs[index].Value()
		}
	}
	return ""
}

// validate records the inline messages and reports whether the form
// may be submitted.
func (form *authForm) validate() bool {
	email := form.value(session.FieldEmail)
	password := form.value(session.FieldPassword)
	if form.signup {
		form.errors = session.ValidateSignupForm(email, password, form.value(session.FieldConfirm))
	} else {
		form.errors = session.ValidateLoginForm(email, password)
	}
	return len(form.errors) == 0
}

func (form *authForm) update(message tea.Msg) tea.Cmd {
	var command tea.Cmd
	form.inputs[form.focus], command = form.inputs[form.focus].Update(message)
	return command
}

func (form authForm) view(theme Theme, width int) string {
	title := "Log in to TicketFlow"
	footer := "Don't have an account? Esc, then s to sign up."
	if form.signup {
		title = "Create your account"
		footer = "Already have an account? Esc, then l to log in."
	}
	inputWidth := min(48, max(20, width-8))

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(title), "")
	for index, name := range form.names {
		lines = append(lines, fieldLabel(theme, authLabels[name], index == form.focus))
		input := form.inputs[index]
		input.Width = inputWidth
		lines = append(lines, fieldBox(theme, input.View(), inputWidth, index == form.focus))
		if message := form.errors[name]; message != "" {
			lines = append(lines, errorLine(theme, message))
		}
		lines = append(lines, "")
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.FaintText).Render(footer))
	return strings.Join(lines, "\n")
}

// ticketField identifies the focused control of the ticket form.
type ticketField int

const (
	fieldTitle ticketField = iota
	fieldStatus
	fieldPriority
	fieldDescription
	ticketFieldCount
)

// ticketForm creates a ticket, or edits the ticket editingID when that
// is set.
type ticketForm struct {
	editingID   string
	title       textinput.Model
	status      tui.Choice
	priority    tui.Choice
	description textarea.Model
	focus       ticketField
	errors      map[string]string
}

func statusOptions(theme Theme) []tui.Option {
	options := make([]tui.Option, 0, len(ticket.Statuses))
	for _, status := range ticket.Statuses {
		options = append(options, tui.Option{Label: status.Label(), Value: string(status), Color: theme.StatusColor(status)})
	}
	return options
}

func priorityOptions(theme Theme) []tui.Option {
	options := make([]tui.Option, 0, len(ticket.Priorities))
	for _, priority := range ticket.Priorities {
		options = append(options, tui.Option{Label: priority.Label(), Value: string(priority), Color: theme.PriorityColor(priority)})
	}
	return options
}

// newTicketForm returns a form prefilled from existing, or with the
// create defaults when existing is nil.
func newTicketForm(theme Theme, existing *ticket.Ticket) ticketForm {
	fields := ticket.NewFields()
	form := ticketForm{}
	if existing != nil {
		fields = existing.Fields()
		if fields.Priority == "" {
			fields.Priority = ticket.DefaultPriority
		}
		form.editingID = existing.ID
	}

	form.title = textinput.New()
	form.title.Placeholder = "Enter ticket title"
	form.title.Prompt = ""
	form.title.SetValue(fields.Title)

	form.status = tui.NewChoice(statusOptions(theme), string(fields.Status))
	form.priority = tui.NewChoice(priorityOptions(theme), string(fields.Priority))

	form.description = textarea.New()
	form.description.Placeholder = fmt.Sprintf("Enter ticket description (max %d characters)", ticket.MaxDescriptionLength)
	form.description.ShowLineNumbers = false
	form.description.Prompt = ""
	form.description.CharLimit = ticket.MaxDescriptionLength
	form.description.SetHeight(5)
	form.description.SetValue(fields.Description)
	return form
}

func (form ticketForm) fields() ticket.Fields {
	return ticket.Fields{
		Title:       form.title.Value(),
		Status:      ticket.Status(form.status.Selected().Value),
		Description: form.description.Value(),
		Priority:    ticket.Priority(form.priority.Selected().Value),
	}
}

func (form *ticketForm) setFocus(field ticketField) tea.Cmd {
	form.focus = (field + ticketFieldCount) % ticketFieldCount
	form.title.Blur()
	form.description.Blur()
	switch form.focus {
	case fieldTitle:
		return form.title.Focus()
	case fieldDescription:
		return form.description.Focus()
	}
	return nil
}

func (form *ticketForm) update(message tea.Msg) tea.Cmd {
	var command tea.Cmd
	switch form.focus {
	case fieldTitle:
		form.title, command = form.title.Update(message)
	case fieldDescription:
		form.description, command = form.description.Update(message)
	}
	return command
}

func (form ticketForm) view(theme Theme, width int) string {
	heading := "Create New Ticket"
	submit := "Create Ticket"
	if form.editingID != "" {
		heading = "Edit Ticket " + form.editingID
		submit = "Update Ticket"
	}
	inputWidth := max(20, width-4)

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(heading), "")

	lines = append(lines, fieldLabel(theme, "Title *", form.focus == fieldTitle))
	title := form.title
	title.Width = inputWidth
	lines = append(lines, fieldBox(theme, title.View(), inputWidth, form.focus == fieldTitle))
	if message := form.errors["title"]; message != "" {
		lines = append(lines, errorLine(theme, message))
	}
	lines = append(lines, "")

	lines = append(lines, fieldLabel(theme, "Status *", form.focus == fieldStatus))
	lines = append(lines, "  "+form.status.View(theme, form.focus == fieldStatus))
	if message := form.errors["status"]; message != "" {
		lines = append(lines, errorLine(theme, message))
	}
	lines = append(lines, "")

	lines = append(lines, fieldLabel(theme, "Priority", form.focus == fieldPriority))
	lines = append(lines, "  "+form.priority.View(theme, form.focus == fieldPriority))
	lines = append(lines, "")

	lines = append(lines, fieldLabel(theme, "Description", form.focus == fieldDescription))
	description := form.description
	description.SetWidth(inputWidth)
	lines = append(lines, fieldBox(theme, description.View(), inputWidth, form.focus == fieldDescription))
	count := utf8.RuneCountInString(form.description.Value())
	counterStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	if count > ticket.MaxDescriptionLength {
		counterStyle = counterStyle.Foreground(theme.Error)
	}
	lines = append(lines, counterStyle.Render(fmt.Sprintf("%d/%d characters", count, ticket.MaxDescriptionLength)))
	if message := form.errors["description"]; message != "" {
		lines = append(lines, errorLine(theme, message))
	}
	lines = append(lines, "")

	lines = append(lines, lipgloss.NewStyle().Foreground(theme.FaintText).
		Render("C-s "+strings.ToLower(submit)+"  Tab next field  ←→ change option  Esc cancel"))
	return strings.Join(lines, "\n")
}

func fieldLabel(theme Theme, label string, focused bool) string {
	style := lipgloss.NewStyle().Foreground(theme.NormalText).Bold(true)
	if focused {
		style = style.Foreground(theme.Accent)
	}
	return style.Render(label)
}

func fieldBox(theme Theme, content string, width int, focused bool) string {
	border := theme.BorderColor
	if focused {
		border = theme.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Render(content)
}

func errorLine(theme Theme, message string) string {
	return lipgloss.NewStyle().Foreground(theme.Error).Render(message)
}
