// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ticketflow/ticketflow/cmd/ticketflow/cli"
	"github.com/ticketflow/ticketflow/lib/config"
	"github.com/ticketflow/ticketflow/lib/kvstore"
	"github.com/ticketflow/ticketflow/lib/ticket"
	"github.com/ticketflow/ticketflow/lib/ticketstore"
)

// workspace runs commands against a fresh data directory.
type workspace struct {
	t            *testing.T
	dataDir      string
	passwordFile string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	directory := t.TempDir()
	passwordFile := filepath.Join(directory, "password")
	if err := os.WriteFile(passwordFile, []byte("hunter22\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return &workspace{t: t, dataDir: filepath.Join(directory, "data"), passwordFile: passwordFile}
}

// run executes one command line with --data-dir appended and returns
// stdout, stderr, and the error.
func (w *workspace) run(args ...string) (string, string, error) {
	w.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append(args, "--data-dir", w.dataDir)
	err := run(context.Background(), args, environment{stdout: &stdout, stderr: &stderr})
	return stdout.String(), stderr.String(), err
}

func (w *workspace) mustRun(args ...string) string {
	w.t.Helper()
	stdout, stderr, err := w.run(args...)
	if err != nil {
		w.t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}

func (w *workspace) login() {
	w.t.Helper()
	w.mustRun("login", "ada@example.com", "--password-file", w.passwordFile)
}

func TestLoginAndWhoami(t *testing.T) {
	w := newWorkspace(t)

	if _, _, err := w.run("whoami"); err == nil {
		t.Fatal("expected whoami to fail before login")
	} else {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != 1 {
			t.Errorf("expected exit code 1, got %v", err)
		}
	}

	_, stderr, err := w.run("login", "ada@example.com", "--password-file", w.passwordFile)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(stderr, "Welcome back") {
		t.Errorf("expected welcome notification on stderr, got %q", stderr)
	}

	if got := strings.TrimSpace(w.mustRun("whoami")); got != "ada@example.com" {
		t.Errorf("expected ada@example.com, got %q", got)
	}

	w.mustRun("logout")
	if _, _, err := w.run("whoami"); err == nil {
		t.Error("expected whoami to fail after logout")
	}
}

func TestLoginRejectsShortPassword(t *testing.T) {
	w := newWorkspace(t)
	if err := os.WriteFile(w.passwordFile, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := w.run("login", "ada@example.com", "--password-file", w.passwordFile)
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(w.dataDir, kvstore.Filename("ticketapp_session"))); !os.IsNotExist(err) {
		t.Errorf("expected no session file, got %v", err)
	}
}

func TestTicketCommandsRequireSession(t *testing.T) {
	w := newWorkspace(t)
	_, _, err := w.run("ticket", "list")
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ticketflow login") {
		t.Errorf("expected login hint, got %q", err.Error())
	}
}

func TestTicketLifecycle(t *testing.T) {
	w := newWorkspace(t)
	w.login()

	id := strings.TrimSpace(w.mustRun("ticket", "create", "--title", "Printer jam", "--priority", "high",
		"--description", "Tray **2** is stuck"))
	if !strings.HasPrefix(id, "tkt-") {
		t.Fatalf("expected a tkt- id, got %q", id)
	}

	var listed []ticket.Ticket
	if err := json.Unmarshal([]byte(w.mustRun("ticket", "list", "--json")), &listed); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != id || listed[0].Status != ticket.StatusOpen || listed[0].Priority != ticket.PriorityHigh {
		t.Fatalf("expected one open high-priority ticket %s, got %+v", id, listed)
	}

	var updated ticket.Ticket
	if err := json.Unmarshal([]byte(w.mustRun("ticket", "update", id, "--status", "closed", "--json")), &updated); err != nil {
		t.Fatalf("decoding update: %v", err)
	}
	if updated.Status != ticket.StatusClosed || updated.Title != "Printer jam" {
		t.Errorf("expected closed Printer jam, got %+v", updated)
	}

	stats := w.mustRun("ticket", "stats")
	if !strings.Contains(stats, "Total: 1") || !strings.Contains(stats, "Resolved: 1") {
		t.Errorf("expected one resolved ticket, got %q", stats)
	}

	show := w.mustRun("ticket", "show", id)
	if !strings.Contains(show, "Printer jam") || !strings.Contains(show, "Closed") {
		t.Errorf("expected show output with title and status, got %q", show)
	}

	_, stderr, err := w.run("ticket", "delete", id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(stderr, ticketstore.MessageDeleted) {
		t.Errorf("expected %q on stderr, got %q", ticketstore.MessageDeleted, stderr)
	}

	if got := strings.TrimSpace(w.mustRun("ticket", "list", "--json")); got != "[]" {
		t.Errorf("expected empty list, got %q", got)
	}
}

func TestTicketValidationAndNotFound(t *testing.T) {
	w := newWorkspace(t)
	w.login()

	_, _, err := w.run("ticket", "create", "--title", "", "--status", "open")
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Errorf("expected validation error for empty title, got %v", err)
	}

	_, _, err = w.run("ticket", "create", "--title", "x", "--status", "done")
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Errorf("expected validation error for bad status, got %v", err)
	}

	_, _, err = w.run("ticket", "create", "--title", "x", "--description", strings.Repeat("a", ticket.MaxDescriptionLength+1))
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Errorf("expected validation error for long description, got %v", err)
	}

	_, _, err = w.run("ticket", "delete", "tkt-missing")
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	if code := cli.Exit(&bytes.Buffer{}, err); code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}

	_, _, err = w.run("ticket", "update", "tkt-missing", "--title", "y")
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Errorf("expected not found, got %v", err)
	}

	_, _, err = w.run("ticket", "update", "tkt-missing")
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Errorf("expected validation error without flags, got %v", err)
	}

	id := strings.TrimSpace(w.mustRun("ticket", "create", "--title", "Printer jam", "--priority", "high"))
	for _, priority := range []string{"", "urgent"} {
		_, _, err = w.run("ticket", "update", id, "--priority", priority)
		if cli.CategoryOf(err) != cli.CategoryValidation {
			t.Errorf("--priority %q: expected validation error, got %v", priority, err)
		}
	}
	var listed []ticket.Ticket
	if err := json.Unmarshal([]byte(w.mustRun("ticket", "list", "--json")), &listed); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(listed) != 1 || listed[0].Priority != ticket.PriorityHigh {
		t.Errorf("expected priority to stay high, got %+v", listed)
	}
}

func TestCorruptTicketsFile(t *testing.T) {
	w := newWorkspace(t)
	w.login()

	path := filepath.Join(w.dataDir, kvstore.Filename(ticketstore.Key))
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := w.run("ticket", "list")
	if !errors.Is(err, kvstore.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected hint naming %s, got %q", path, err.Error())
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil || string(data) != "{not json" {
		t.Errorf("expected corrupt file left untouched, got %q (%v)", data, readErr)
	}
}

func TestEphemeralBackendSavesNothing(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun("login", "ada@example.com", "--password-file", w.passwordFile, "--ephemeral")
	if _, err := os.Stat(w.dataDir); !os.IsNotExist(err) {
		t.Errorf("expected no data directory, got %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	w := newWorkspace(t)
	_, _, err := w.run("tickets")
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, _, err = w.run("ticket", "lst")
	if err == nil || !strings.Contains(err.Error(), `did you mean "list"`) {
		t.Errorf("expected suggestion, got %v", err)
	}
}

func TestVersionFlag(t *testing.T) {
	w := newWorkspace(t)
	if out := w.mustRun("--version"); !strings.HasPrefix(out, "ticketflow ") {
		t.Errorf("expected version line, got %q", out)
	}
}
