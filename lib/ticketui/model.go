// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketflow/ticketflow/lib/notify"
	"github.com/ticketflow/ticketflow/lib/route"
	"github.com/ticketflow/ticketflow/lib/session"
	"github.com/ticketflow/ticketflow/lib/ticket"
	"github.com/ticketflow/ticketflow/lib/ticketstore"
)

// Sessions is the part of session.Store the interface uses.
type Sessions interface {
	Current() (session.Session, bool)
	Login(ctx context.Context, identifier, secret string) (session.Session, error)
	Signup(ctx context.Context, identifier, secret, confirm string) (session.Session, error)
	Logout(ctx context.Context) error
}

// Tickets is the part of ticketstore.Store the interface uses.
type Tickets interface {
	List() []ticket.Ticket
	Create(ctx context.Context, fields ticket.Fields) (ticket.Ticket, error)
	Update(ctx context.Context, id string, patch ticket.Patch) (ticket.Ticket, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Notifications is the part of notify.Emitter the model uses.
type Notifications interface {
	Active() []notify.Notification
	Dismiss(id uint64)
}

// Tab identifies the status tab of the ticket list.
type Tab int

const (
	// TabAll shows every ticket.
	TabAll Tab = iota
	TabOpen
	TabInProgress
	TabClosed
)

var tabDefs = []struct {
	label  string
	tab    Tab
	status ticket.Status
}{
	{"1:All", TabAll, ""},
	{"2:Open", TabOpen, ticket.StatusOpen},
	{"3:In Progress", TabInProgress, ticket.StatusInProgress},
	{"4:Closed", TabClosed, ticket.StatusClosed},
}

// Config holds the collaborators of a Model.
type Config struct {
	Sessions      Sessions
	Tickets       Tickets
	Notifications Notifications

	// Context bounds store writes. Defaults to context.Background.
	Context context.Context

	// Start is the path shown first, such as "/tickets". It goes
	// through the same guard as any other navigation.
	Start string

	Theme  *Theme
	Keys   *KeyMap
	Logger *slog.Logger
}

// Model is the bubbletea model for the whole application.
type Model struct {
	ctx           context.Context
	sessions      Sessions
	tickets       Tickets
	notifications Notifications
	logger        *slog.Logger
	theme         Theme
	keys          KeyMap

	width  int
	height int
	ready  bool

	view route.View
	auth authForm

	// Ticket screen.
	activeTab     Tab
	filter        FilterModel
	matches       []ticket.Match
	stats         ticket.Stats
	cursor        int
	scrollOffset  int
	selectedID    string
	form          *ticketForm
	pendingDelete string

	toasts []notify.Notification
}

// NewModel returns a model showing cfg.Start, or the landing screen.
func NewModel(cfg Config) Model {
	model := Model{
		ctx:           cfg.Context,
		sessions:      cfg.Sessions,
		tickets:       cfg.Tickets,
		notifications: cfg.Notifications,
		logger:        cfg.Logger,
		theme:         DefaultTheme,
		keys:          DefaultKeyMap,
	}
	if model.ctx == nil {
		model.ctx = context.Background()
	}
	if model.logger == nil {
		model.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Theme != nil {
		model.theme = *cfg.Theme
	}
	if cfg.Keys != nil {
		model.keys = *cfg.Keys
	}
	model.navigate(route.Parse(cfg.Start))
	model.syncToasts()
	return model
}

// Current returns the screen being shown.
func (model Model) Current() route.View {
	return model.view
}

// Init starts the cursor blink of the input NewModel focused.
func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

func (model Model) signedIn() (session.Session, bool) {
	return model.sessions.Current()
}

// navigate shows requested after applying the route guard and resets
// the per-screen state of the screen being entered.
func (model *Model) navigate(requested route.View) tea.Cmd {
	_, signedIn := model.signedIn()
	resolved := route.Resolve(requested, signedIn)
	if resolved != model.view {
		model.logger.Debug("navigate", "requested", requested.Path(), "shown", resolved.Path())
	}
	model.view = resolved
	model.form = nil
	model.pendingDelete = ""

	switch resolved {
	case route.Login:
		model.auth = newAuthForm(false)
	case route.Signup:
		model.auth = newAuthForm(true)
	case route.Dashboard, route.Tickets:
		model.refreshTickets()
	}
	return model.focusCommand()
}

func (model *Model) focusCommand() tea.Cmd {
	switch model.view {
	case route.Login, route.Signup:
		return model.auth.setFocus(model.auth.focus)
	case route.Tickets:
		if model.form != nil {
			return model.form.setFocus(model.form.focus)
		}
	}
	return nil
}

// syncToasts copies the active notifications. It runs after every
// message so that a notification raised during Update shows in the
// same frame.
func (model *Model) syncToasts() {
	if model.notifications == nil {
		model.toasts = nil
		return
	}
	model.toasts = model.notifications.Active()
}

// Update handles a message.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var command tea.Cmd
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.ensureCursorVisible()

	case NotificationsChangedMsg:

	case StoreChangedMsg:
		command = model.handleStoreChanged(message)

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		if key.Matches(message, model.keys.DismissToast) && len(model.toasts) > 0 {
			model.notifications.Dismiss(model.toasts[len(model.toasts)-1].ID)
			break
		}
		switch model.view {
		case route.Login, route.Signup:
			command = model.handleAuthKeys(message)
		case route.Dashboard:
			command = model.handleDashboardKeys(message)
		case route.Tickets:
			command = model.handleTicketKeys(message)
		default:
			command = model.handleLandingKeys(message)
		}

	default:
		// Cursor blink and similar input-internal messages.
		switch {
		case model.view == route.Login || model.view == route.Signup:
			command = model.auth.update(message)
		case model.view == route.Tickets && model.form != nil:
			command = model.form.update(message)
		}
	}
	model.syncToasts()
	return model, command
}

// handleStoreChanged reacts to another process rewriting a store. A
// removed session re-runs the guard, which leaves protected screens.
func (model *Model) handleStoreChanged(message StoreChangedMsg) tea.Cmd {
	switch message.Key {
	case session.Key:
		_, signedIn := model.signedIn()
		if route.Resolve(model.view, signedIn) != model.view {
			return model.navigate(model.view)
		}
	case ticketstore.Key:
		model.refreshTickets()
		if model.pendingDelete != "" && !model.hasMatch(model.pendingDelete) {
			model.pendingDelete = ""
		}
		if model.form != nil && model.form.editingID != "" && !model.exists(model.form.editingID) {
			model.form = nil
		}
	}
	return nil
}

func (model *Model) quitOrNavigate(message tea.KeyMsg) (tea.Cmd, bool) {
	_, signedIn := model.signedIn()
	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit, true
	case key.Matches(message, model.keys.Login) && !signedIn:
		return model.navigate(route.Login), true
	case key.Matches(message, model.keys.Signup) && !signedIn:
		return model.navigate(route.Signup), true
	case key.Matches(message, model.keys.Dashboard):
		return model.navigate(route.Dashboard), true
	case key.Matches(message, model.keys.Tickets):
		return model.navigate(route.Tickets), true
	case key.Matches(message, model.keys.Logout) && signedIn:
		return model.logout(), true
	}
	return nil, false
}

func (model *Model) handleLandingKeys(message tea.KeyMsg) tea.Cmd {
	command, _ := model.quitOrNavigate(message)
	return command
}

func (model *Model) handleDashboardKeys(message tea.KeyMsg) tea.Cmd {
	if key.Matches(message, model.keys.Back) {
		return model.navigate(route.Landing)
	}
	command, _ := model.quitOrNavigate(message)
	return command
}

func (model *Model) logout() tea.Cmd {
	if err := model.sessions.Logout(model.ctx); err != nil {
		model.logger.Error("logout failed", "error", err)
	}
	return model.navigate(route.Landing)
}

func (model *Model) handleAuthKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Back):
		return model.navigate(route.Landing)
	case key.Matches(message, model.keys.NextField), message.Type == tea.KeyDown:
		return model.auth.setFocus(model.auth.focus + 1)
	case key.Matches(message, model.keys.PreviousField), message.Type == tea.KeyUp:
		return model.auth.setFocus(model.auth.focus - 1)
	case key.Matches(message, model.keys.Submit):
		return model.submitAuth()
	}
	return model.auth.update(message)
}

// submitAuth checks the form, then asks the session store. Either
// failing leaves the user on the form; the store reports its own
// failures as notifications.
func (model *Model) submitAuth() tea.Cmd {
	if !model.auth.validate() {
		return nil
	}
	email := model.auth.value(session.FieldEmail)
	password := model.auth.value(session.FieldPassword)
	var err error
	if model.auth.signup {
		_, err = model.sessions.Signup(model.ctx, email, password, model.auth.value(session.FieldConfirm))
	} else {
		_, err = model.sessions.Login(model.ctx, email, password)
	}
	if err != nil {
		model.logger.Debug("authentication rejected", "signup", model.auth.signup, "error", err)
		return nil
	}
	return model.navigate(route.Dashboard)
}

func (model *Model) handleTicketKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case model.pendingDelete != "":
		return model.handleConfirmKeys(message)
	case model.form != nil:
		return model.handleFormKeys(message)
	case model.filter.Active:
		model.handleFilterKeys(message)
		return nil
	}

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.matches)-1 {
			model.cursor++
		}
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
	case key.Matches(message, model.keys.End):
		model.cursor = max(0, len(model.matches)-1)
	case key.Matches(message, model.keys.TabAll):
		model.switchTab(TabAll)
	case key.Matches(message, model.keys.TabOpen):
		model.switchTab(TabOpen)
	case key.Matches(message, model.keys.TabInProgress):
		model.switchTab(TabInProgress)
	case key.Matches(message, model.keys.TabClosed):
		model.switchTab(TabClosed)
	case key.Matches(message, model.keys.FilterActivate):
		model.filter.Active = true
	case key.Matches(message, model.keys.FilterClear) && model.filter.Input != "":
		model.filter.Clear()
		model.refreshTickets()
	case key.Matches(message, model.keys.Back):
		return model.navigate(route.Dashboard)
	case key.Matches(message, model.keys.New):
		form := newTicketForm(model.theme, nil)
		model.form = &form
		return model.form.setFocus(fieldTitle)
	case key.Matches(message, model.keys.Edit):
		if selected, ok := model.selected(); ok {
			form := newTicketForm(model.theme, &selected)
			model.form = &form
			return model.form.setFocus(fieldTitle)
		}
	case key.Matches(message, model.keys.Delete):
		if selected, ok := model.selected(); ok {
			model.pendingDelete = selected.ID
		}
	default:
		command, _ := model.quitOrNavigate(message)
		return command
	}
	model.syncSelection()
	return nil
}

func (model *Model) handleFilterKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
		} else {
			model.filter.Active = false
		}
	case message.Type == tea.KeyEnter:
		model.filter.Active = false
		return
	case message.Type == tea.KeyBackspace:
		if !model.filter.HandleBackspace() {
			return
		}
	case message.Type == tea.KeyRunes:
		model.filter.HandleRunes(message.Runes)
	case message.Type == tea.KeySpace:
		model.filter.HandleRunes([]rune{' '})
	default:
		return
	}
	model.refreshTickets()
}

func (model *Model) handleConfirmKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Confirm):
		id := model.pendingDelete
		model.pendingDelete = ""
		if _, err := model.tickets.Delete(model.ctx, id); err != nil {
			model.logger.Error("delete failed", "id", id, "error", err)
		}
		model.refreshTickets()
	case key.Matches(message, model.keys.Cancel):
		model.pendingDelete = ""
	}
	return nil
}

func (model *Model) handleFormKeys(message tea.KeyMsg) tea.Cmd {
	form := model.form
	switch {
	case key.Matches(message, model.keys.Back):
		model.form = nil
		return nil
	case key.Matches(message, model.keys.NextField):
		return form.setFocus(form.focus + 1)
	case key.Matches(message, model.keys.PreviousField):
		return form.setFocus(form.focus - 1)
	case message.Type == tea.KeyCtrlS:
		return model.submitForm()
	case message.Type == tea.KeyEnter && form.focus != fieldDescription:
		return model.submitForm()
	}

	switch form.focus {
	case fieldStatus, fieldPriority:
		choice := &form.status
		if form.focus == fieldPriority {
			choice = &form.priority
		}
		switch {
		case key.Matches(message, model.keys.OptionLeft):
			choice.Previous()
		case key.Matches(message, model.keys.OptionRight), message.Type == tea.KeySpace:
			choice.Next()
		}
		return nil
	}
	return form.update(message)
}

// submitForm validates the form and writes it. The form stays open on
// a validation or save failure.
func (model *Model) submitForm() tea.Cmd {
	fields := model.form.fields()
	if err := fields.Validate(); err != nil {
		model.form.errors = ticket.FieldMessages(err)
		return nil
	}
	model.form.errors = nil

	var saved ticket.Ticket
	var err error
	if id := model.form.editingID; id != "" {
		saved, _, err = model.tickets.Update(model.ctx, id, ticket.PatchFrom(fields))
	} else {
		saved, err = model.tickets.Create(model.ctx, fields)
	}
	if err != nil {
		model.logger.Error("saving ticket failed", "id", model.form.editingID, "error", err)
		return nil
	}
	model.form = nil
	if saved.ID != "" {
		model.selectedID = saved.ID
	}
	model.refreshTickets()
	return nil
}

func (model *Model) switchTab(tab Tab) {
	if model.activeTab == tab {
		return
	}
	model.activeTab = tab
	model.cursor = 0
	model.scrollOffset = 0
	model.selectedID = ""
	model.refreshTickets()
}

// refreshTickets rebuilds the visible list from the store, keeping the
// selected ticket under the cursor when it is still visible.
func (model *Model) refreshTickets() {
	all := model.tickets.List()
	model.stats = ticket.Count(all)
	base := ticket.Select(all, ticket.Filter{Status: tabDefs[model.activeTab].status})
	model.matches = model.filter.Apply(base)

	for index, match := range model.matches {
		if match.Ticket.ID == model.selectedID {
			model.cursor = index
			model.ensureCursorVisible()
			return
		}
	}
	model.cursor = min(model.cursor, max(0, len(model.matches)-1))
	model.syncSelection()
}

func (model *Model) syncSelection() {
	if selected, ok := model.selected(); ok {
		model.selectedID = selected.ID
	} else {
		model.selectedID = ""
	}
	model.ensureCursorVisible()
}

func (model Model) selected() (ticket.Ticket, bool) {
	if model.cursor < 0 || model.cursor >= len(model.matches) {
		return ticket.Ticket{}, false
	}
	return model.matches[model.cursor].Ticket, true
}

func (model Model) hasMatch(id string) bool {
	for _, match := range model.matches {
		if match.Ticket.ID == id {
			return true
		}
	}
	return false
}

func (model Model) exists(id string) bool {
	for _, existing := range model.tickets.List() {
		if existing.ID == id {
			return true
		}
	}
	return false
}

// ensureCursorVisible adjusts scrollOffset so the cursor is within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.listHeight()
	if visible <= 0 {
		return
	}
	maxOffset := max(0, len(model.matches)-visible)
	model.scrollOffset = min(model.scrollOffset, maxOffset)
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}
