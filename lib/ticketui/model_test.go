// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ticketflow/ticketflow/lib/clock"
	"github.com/ticketflow/ticketflow/lib/kvstore"
	"github.com/ticketflow/ticketflow/lib/notify"
	"github.com/ticketflow/ticketflow/lib/route"
	"github.com/ticketflow/ticketflow/lib/session"
	"github.com/ticketflow/ticketflow/lib/ticket"
	"github.com/ticketflow/ticketflow/lib/ticketstore"
)

type harness struct {
	kv       *kvstore.MemoryStore
	clock    *clock.FakeClock
	emitter  *notify.Emitter
	sessions *session.Store
	tickets  *ticketstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{
		kv:    kvstore.NewMemoryStore(),
		clock: clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	h.emitter = notify.NewEmitter(h.clock, notify.DefaultTTL)
	var err error
	h.sessions, err = session.Open(ctx, session.Config{KV: h.kv, Notifier: h.emitter})
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	h.tickets, err = ticketstore.Open(ctx, ticketstore.Config{KV: h.kv, Notifier: h.emitter})
	if err != nil {
		t.Fatalf("ticketstore.Open: %v", err)
	}
	return h
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if _, err := h.sessions.Login(context.Background(), "ada@example.com", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func (h *harness) create(t *testing.T, title string, status ticket.Status) ticket.Ticket {
	t.Helper()
	created, err := h.tickets.Create(context.Background(), ticket.Fields{Title: title, Status: status})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func (h *harness) model(start string) Model {
	model := NewModel(Config{
		Sessions:      h.sessions,
		Tickets:       h.tickets,
		Notifications: h.emitter,
		Start:         start,
	})
	return send(model, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(model Model, message tea.Msg) Model {
	next, _ := model.Update(message)
	return next.(Model)
}

func press(model Model, keys ...string) Model {
	for _, name := range keys {
		var message tea.KeyMsg
		switch name {
		case "enter":
			message = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			message = tea.KeyMsg{Type: tea.KeyEscape}
		case "tab":
			message = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			message = tea.KeyMsg{Type: tea.KeyRight}
		case "ctrl+s":
			message = tea.KeyMsg{Type: tea.KeyCtrlS}
		case "backspace":
			message = tea.KeyMsg{Type: tea.KeyBackspace}
		case "ctrl+x":
			message = tea.KeyMsg{Type: tea.KeyCtrlX}
		default:
			message = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
		}
		model = send(model, message)
	}
	return model
}

func typeText(model Model, text string) Model {
	for _, character := range text {
		model = send(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
	}
	return model
}

func toastMessages(model Model) []string {
	var messages []string
	for _, toast := range model.toasts {
		messages = append(messages, toast.Message)
	}
	return messages
}

func TestStartRouteGuard(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		start string
		want  route.View
	}{
		{"", route.Landing},
		{"/nowhere", route.Landing},
		{"/tickets", route.Login},
		{"/dashboard", route.Login},
		{"/signup", route.Signup},
	}
	for _, test := range tests {
		if got := h.model(test.start).Current(); got != test.want {
			t.Errorf("start %q: expected %v, got %v", test.start, test.want, got)
		}
	}

	h.signIn(t)
	if got := h.model("/login").Current(); got != route.Dashboard {
		t.Errorf("signed in /login: expected dashboard, got %v", got)
	}
}

func TestLandingNavigation(t *testing.T) {
	h := newHarness(t)
	model := press(h.model("/"), "l")
	if model.Current() != route.Login {
		t.Fatalf("expected login, got %v", model.Current())
	}
	model = press(model, "esc", "s")
	if model.Current() != route.Signup {
		t.Fatalf("expected signup, got %v", model.Current())
	}
	model = press(model, "esc", "t")
	if model.Current() != route.Login {
		t.Errorf("signed-out tickets: expected login, got %v", model.Current())
	}
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t)
	model := h.model("/login")
	model = typeText(model, "ada@example.com")
	model = press(model, "tab")
	model = typeText(model, "secret1")
	model = press(model, "enter")

	if model.Current() != route.Dashboard {
		t.Fatalf("expected dashboard, got %v", model.Current())
	}
	current, ok := h.sessions.Current()
	if !ok || current.Identifier != "ada@example.com" {
		t.Errorf("expected session for ada@example.com, got %+v (%v)", current, ok)
	}
	if messages := toastMessages(model); len(messages) != 1 || messages[0] != session.MessageWelcome {
		t.Errorf("expected welcome toast, got %v", messages)
	}
}

func TestLoginFormRejectsShortPassword(t *testing.T) {
	h := newHarness(t)
	model := h.model("/login")
	model = typeText(model, "ada@example.com")
	model = press(model, "tab")
	model = typeText(model, "abc")
	model = press(model, "enter")

	if model.Current() != route.Login {
		t.Fatalf("expected to stay on login, got %v", model.Current())
	}
	if _, ok := h.sessions.Current(); ok {
		t.Error("expected no session after rejected login")
	}
	if model.auth.errors[session.FieldPassword] == "" {
		t.Errorf("expected a password message, got %v", model.auth.errors)
	}
}

func TestSignupMismatchCreatesNoSession(t *testing.T) {
	h := newHarness(t)
	model := h.model("/signup")
	model = typeText(model, "ada@example.com")
	model = press(model, "tab")
	model = typeText(model, "secret1")
	model = press(model, "tab")
	model = typeText(model, "secret2")
	model = press(model, "enter")

	if model.Current() != route.Signup {
		t.Fatalf("expected to stay on signup, got %v", model.Current())
	}
	if _, ok := h.sessions.Current(); ok {
		t.Error("expected no session after mismatched signup")
	}
	if model.auth.errors[session.FieldConfirm] == "" {
		t.Errorf("expected a confirm message, got %v", model.auth.errors)
	}

	model = press(model, "backspace")
	model = typeText(model, "1")
	model = press(model, "enter")
	if model.Current() != route.Dashboard {
		t.Errorf("expected dashboard after fixing confirmation, got %v", model.Current())
	}
}

func TestCreateTicketFromForm(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	model := press(h.model("/tickets"), "n")
	if model.form == nil {
		t.Fatal("expected the ticket form to open")
	}
	model = typeText(model, "Printer jam")
	model = press(model, "enter")

	if model.form != nil {
		t.Fatalf("expected the form to close, errors %v", model.form.errors)
	}
	tickets := h.tickets.List()
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	created := tickets[0]
	if created.Title != "Printer jam" || created.Status != ticket.StatusOpen || created.Priority != ticket.PriorityMedium {
		t.Errorf("unexpected ticket %+v", created)
	}
	if model.selectedID != created.ID {
		t.Errorf("expected %s selected, got %q", created.ID, model.selectedID)
	}
	messages := toastMessages(model)
	if len(messages) == 0 || messages[len(messages)-1] != ticketstore.MessageCreated {
		t.Errorf("expected created toast, got %v", messages)
	}
}

func TestCreateFormRequiresTitle(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	model := press(h.model("/tickets"), "n", "enter")

	if model.form == nil {
		t.Fatal("expected the form to stay open")
	}
	if model.form.errors["title"] == "" {
		t.Errorf("expected a title message, got %v", model.form.errors)
	}
	if count := len(h.tickets.List()); count != 0 {
		t.Errorf("expected no tickets, got %d", count)
	}

	model = press(model, "esc")
	if model.form != nil {
		t.Error("expected esc to close the form")
	}
}

func TestEditTicket(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	created := h.create(t, "Printer jam", ticket.StatusOpen)

	model := press(h.model("/tickets"), "e")
	if model.form == nil || model.form.editingID != created.ID {
		t.Fatalf("expected edit form for %s", created.ID)
	}
	// Title, then status: open -> in_progress.
	model = press(model, "tab", "right", "ctrl+s")

	updated, ok := h.tickets.Get(created.ID)
	if !ok {
		t.Fatal("ticket disappeared")
	}
	if updated.Status != ticket.StatusInProgress {
		t.Errorf("expected in_progress, got %s", updated.Status)
	}
	if updated.Title != "Printer jam" {
		t.Errorf("expected title kept, got %q", updated.Title)
	}
	if model.form != nil {
		t.Error("expected the form to close")
	}
}

func TestDeleteAsksFirst(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	created := h.create(t, "Printer jam", ticket.StatusOpen)

	model := press(h.model("/tickets"), "x")
	if model.pendingDelete != created.ID {
		t.Fatalf("expected pending delete of %s, got %q", created.ID, model.pendingDelete)
	}
	model = press(model, "n")
	if _, ok := h.tickets.Get(created.ID); !ok {
		t.Fatal("expected cancel to keep the ticket")
	}

	model = press(model, "x", "y")
	if _, ok := h.tickets.Get(created.ID); ok {
		t.Error("expected confirm to delete the ticket")
	}
	if len(model.matches) != 0 {
		t.Errorf("expected empty list, got %d rows", len(model.matches))
	}
}

func TestTabsAndFilter(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.create(t, "Printer jam", ticket.StatusOpen)
	h.create(t, "VPN down", ticket.StatusInProgress)
	h.create(t, "Coffee machine", ticket.StatusClosed)

	model := h.model("/tickets")
	if len(model.matches) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(model.matches))
	}

	model = press(model, "3")
	if len(model.matches) != 1 || model.matches[0].Ticket.Title != "VPN down" {
		t.Errorf("expected only VPN down on the in-progress tab, got %d rows", len(model.matches))
	}

	model = press(model, "1", "/")
	model = typeText(model, "print")
	if len(model.matches) != 1 || model.matches[0].Ticket.Title != "Printer jam" {
		t.Errorf("expected filter to keep Printer jam, got %d rows", len(model.matches))
	}
	// Letter keys type into the filter rather than quitting.
	if !model.filter.Active {
		t.Error("expected the filter to stay active")
	}

	model = press(model, "esc")
	if model.filter.Input != "" || len(model.matches) != 3 {
		t.Errorf("expected esc to clear the filter, got %q with %d rows", model.filter.Input, len(model.matches))
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	model := press(h.model("/dashboard"), "o")
	if model.Current() != route.Landing {
		t.Errorf("expected landing, got %v", model.Current())
	}
	if _, ok := h.sessions.Current(); ok {
		t.Error("expected the session to be gone")
	}
}

func TestToastsExpire(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	model := h.model("/dashboard")
	if len(model.toasts) != 1 {
		t.Fatalf("expected the welcome toast, got %v", toastMessages(model))
	}
	h.clock.Advance(notify.DefaultTTL)
	model = send(model, NotificationsChangedMsg{})
	if len(model.toasts) != 0 {
		t.Errorf("expected toasts to expire, got %v", toastMessages(model))
	}
}

func TestDismissNewestToast(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.create(t, "Printer jam", ticket.StatusOpen)
	model := h.model("/tickets")
	if len(model.toasts) != 2 {
		t.Fatalf("expected two toasts, got %v", toastMessages(model))
	}
	model = press(model, "ctrl+x")
	if got := toastMessages(model); len(got) != 1 || got[0] != session.MessageWelcome {
		t.Errorf("expected only the welcome toast left, got %v", got)
	}
}

func TestExternalSessionRemovalLeavesProtectedScreen(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	model := h.model("/tickets")
	if err := h.sessions.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	model = send(model, StoreChangedMsg{Key: session.Key})
	if model.Current() != route.Login {
		t.Errorf("expected login, got %v", model.Current())
	}
}

func TestExternalTicketChangeRefreshesList(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	model := h.model("/tickets")
	h.create(t, "Printer jam", ticket.StatusOpen)
	model = send(model, StoreChangedMsg{Key: ticketstore.Key})
	if len(model.matches) != 1 {
		t.Errorf("expected 1 row, got %d", len(model.matches))
	}
}

func TestViewRenders(t *testing.T) {
	h := newHarness(t)
	plain := func(model Model) string { return ansi.Strip(model.View()) }

	landing := plain(h.model("/"))
	if !strings.Contains(landing, "Why Choose TicketFlow?") {
		t.Errorf("expected landing copy, got:\n%s", landing)
	}

	h.signIn(t)
	empty := plain(h.model("/tickets"))
	if !strings.Contains(empty, "No tickets yet. Create your first ticket!") {
		t.Errorf("expected empty state, got:\n%s", empty)
	}

	h.create(t, "Printer jam", ticket.StatusOpen)
	view := h.model("/tickets").View()
	if !strings.Contains(ansi.Strip(view), "Printer jam") {
		t.Errorf("expected ticket row, got:\n%s", ansi.Strip(view))
	}
	lines := strings.Split(view, "\n")
	if len(lines) != 40 {
		t.Errorf("expected 40 lines, got %d", len(lines))
	}
	for index, line := range lines {
		if width := ansi.StringWidth(line); width > 120 {
			t.Errorf("line %d is %d cells wide", index, width)
		}
	}

	dashboard := plain(h.model("/dashboard"))
	for _, label := range []string{"Total Tickets", "In Progress", "Resolved"} {
		if !strings.Contains(dashboard, label) {
			t.Errorf("expected %q on the dashboard", label)
		}
	}
}
