// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestToolErrorHint(t *testing.T) {
	err := NotFound("ticket %q not found", "tkt-1").WithHint("Run 'ticketflow ticket list'.")
	want := "ticket \"tkt-1\" not found\n\nRun 'ticketflow ticket list'."
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if Internal("bug").Error() != "bug" {
		t.Error("expected no hint suffix without a hint")
	}
}

func TestToolErrorUnwraps(t *testing.T) {
	sentinel := errors.New("corrupt")
	wrapped := fmt.Errorf("opening: %w", Internal("loading tickets: %w", sentinel))
	if !errors.Is(wrapped, sentinel) {
		t.Error("expected errors.Is to reach the sentinel")
	}
	if CategoryOf(wrapped) != CategoryInternal {
		t.Errorf("expected internal, got %s", CategoryOf(wrapped))
	}
	if CategoryOf(errors.New("plain")) != CategoryInternal {
		t.Error("expected plain errors to count as internal")
	}
}

func TestExit(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		output string
	}{
		{"nil", nil, 0, ""},
		{"exit error", &ExitError{Code: 4}, 4, ""},
		{"validation", Validation("bad"), 2, "error: bad\n"},
		{"not found", NotFound("gone"), 3, "error: gone\n"},
		{"internal", Internal("broken"), 1, "error: broken\n"},
		{"plain", errors.New("plain"), 1, "error: plain\n"},
	}
	for _, test := range tests {
		var stderr bytes.Buffer
		if code := Exit(&stderr, test.err); code != test.code {
			t.Errorf("%s: expected code %d, got %d", test.name, test.code, code)
		}
		if stderr.String() != test.output {
			t.Errorf("%s: expected output %q, got %q", test.name, test.output, stderr.String())
		}
	}
}

func TestEmitJSON(t *testing.T) {
	var output JSONOutput
	var buffer bytes.Buffer
	if done, _ := output.Emit(&buffer, []string{"a"}); done {
		t.Error("expected no output without --json")
	}
	output.Enabled = true
	var empty []string
	if done, err := output.Emit(&buffer, empty); !done || err != nil {
		t.Fatalf("expected JSON output, got %v %v", done, err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("expected [], got %q", buffer.String())
	}
}

func TestReadSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte(" secret1 \n\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	password, err := ReadSecretFile(path)
	if err != nil {
		t.Fatalf("ReadSecretFile: %v", err)
	}
	if password != " secret1 " {
		t.Errorf("expected %q, got %q", " secret1 ", password)
	}

	if _, err := ReadPassword(filepath.Join(t.TempDir(), "missing"), ""); CategoryOf(err) != CategoryValidation {
		t.Errorf("expected validation error for a missing file, got %v", err)
	}
}
