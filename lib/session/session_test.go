// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/ticketflow/ticketflow/lib/kvstore"
	"github.com/ticketflow/ticketflow/lib/notify"
)

type recorder struct {
	received []notify.Notification
}

func (r *recorder) Notify(message string, severity notify.Severity) notify.Notification {
	n := notify.Notification{Message: message, Severity: severity}
	r.received = append(r.received, n)
	return n
}

func (r *recorder) last() notify.Notification {
	if len(r.received) == 0 {
		return notify.Notification{}
	}
	return r.received[len(r.received)-1]
}

func openTestStore(t *testing.T, kv kvstore.Store) (*Store, *recorder) {
	t.Helper()
	sink := &recorder{}
	counter := 0
	store, err := Open(context.Background(), Config{
		KV:       kv,
		Notifier: sink,
		NewToken: func() string {
			counter++
			return "token-" + strconv.Itoa(counter)
		},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, sink
}

func TestOpenWithoutPersistedSession(t *testing.T) {
	store, _ := openTestStore(t, kvstore.NewMemoryStore())
	if _, ok := store.Current(); ok {
		t.Error("expected no session")
	}
}

func TestLogin(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	store, sink := openTestStore(t, kv)

	created, err := store.Login(context.Background(), "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if created.Identifier != "ada@example.com" || created.Token == "" {
		t.Errorf("unexpected session %+v", created)
	}
	current, ok := store.Current()
	if !ok || current != created {
		t.Errorf("expected current session %+v, got %+v (ok=%v)", created, current, ok)
	}
	if sink.last().Message != MessageWelcome || sink.last().Severity != notify.SeveritySuccess {
		t.Errorf("expected welcome notification, got %+v", sink.last())
	}

	data, found, _ := kv.Get(context.Background(), Key)
	if !found {
		t.Fatal("expected session persisted")
	}
	if string(data) != `{"email":"ada@example.com","token":"token-1"}` {
		t.Errorf("unexpected persisted form %s", data)
	}
}

func TestLoginRejects(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		secret     string
	}{
		{"empty identifier", "", "secret1"},
		{"blank identifier", "   ", "secret1"},
		{"short secret", "ada@example.com", "12345"},
		{"short multibyte secret", "ada@example.com", "ééééé"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			kv := kvstore.NewMemoryStore()
			store, sink := openTestStore(t, kv)

			_, err := store.Login(context.Background(), test.identifier, test.secret)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if _, ok := store.Current(); ok {
				t.Error("failed login created a session")
			}
			if _, found, _ := kv.Get(context.Background(), Key); found {
				t.Error("failed login persisted a session")
			}
			if sink.last().Message != MessageInvalid || sink.last().Severity != notify.SeverityError {
				t.Errorf("expected invalid notification, got %+v", sink.last())
			}
		})
	}
}

func TestLoginAcceptsExactlyMinimumLength(t *testing.T) {
	store, _ := openTestStore(t, kvstore.NewMemoryStore())
	if _, err := store.Login(context.Background(), "a", "123456"); err != nil {
		t.Errorf("expected six characters to be accepted, got %v", err)
	}
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		confirm  string
		wantErr  error
		wantNote string
	}{
		{"mismatch", "secret1", "secret2", ErrSecretMismatch, MessageMismatch},
		{"mismatch and short", "abc", "abd", ErrSecretMismatch, MessageMismatch},
		{"short", "abc", "abc", ErrSecretTooShort, MessageTooShort},
		{"ok", "secret1", "secret1", nil, MessageSignedUp},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			kv := kvstore.NewMemoryStore()
			store, sink := openTestStore(t, kv)

			_, err := store.Signup(context.Background(), "ada@example.com", test.secret, test.confirm)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
			_, signedIn := store.Current()
			if signedIn != (test.wantErr == nil) {
				t.Errorf("expected signed in=%v, got %v", test.wantErr == nil, signedIn)
			}
			_, persisted, _ := kv.Get(context.Background(), Key)
			if persisted != (test.wantErr == nil) {
				t.Errorf("expected persisted=%v, got %v", test.wantErr == nil, persisted)
			}
			if sink.last().Message != test.wantNote {
				t.Errorf("expected notification %q, got %q", test.wantNote, sink.last().Message)
			}
		})
	}
}

func TestSignupRequiresIdentifier(t *testing.T) {
	store, _ := openTestStore(t, kvstore.NewMemoryStore())
	if _, err := store.Signup(context.Background(), "", "secret1", "secret1"); !errors.Is(err, ErrIdentifierRequired) {
		t.Errorf("expected ErrIdentifierRequired, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	store, sink := openTestStore(t, kv)
	store.Login(context.Background(), "ada@example.com", "secret1")

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := store.Current(); ok {
		t.Error("expected no session after logout")
	}
	if _, found, _ := kv.Get(context.Background(), Key); found {
		t.Error("expected persisted session removed")
	}
	if sink.last().Message != MessageLoggedOut || sink.last().Severity != notify.SeverityInfo {
		t.Errorf("expected logout notification, got %+v", sink.last())
	}

	if err := store.Logout(context.Background()); err != nil {
		t.Errorf("logout while signed out should succeed, got %v", err)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	first, _ := openTestStore(t, kv)
	created, err := first.Login(context.Background(), "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, _ := openTestStore(t, kv)
	current, ok := second.Current()
	if !ok || current != created {
		t.Errorf("expected %+v after reopen, got %+v (ok=%v)", created, current, ok)
	}
}

func TestOpenCorrupt(t *testing.T) {
	for name, content := range map[string]string{
		"truncated": `{"email":"ada@`,
		"no email":  `{"token":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := kvstore.NewMemoryStore()
			kv.Set(context.Background(), Key, []byte(content))
			_, err := Open(context.Background(), Config{KV: kv})
			if !errors.Is(err, kvstore.ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestReload(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	store, _ := openTestStore(t, kv)
	ctx := context.Background()

	changed, err := store.Reload(ctx)
	if err != nil || changed {
		t.Fatalf("expected no change, got changed=%v err=%v", changed, err)
	}

	store.Login(ctx, "ada@example.com", "secret1")
	if changed, _ := store.Reload(ctx); changed {
		t.Error("reloading our own write reported a change")
	}

	kv.Set(ctx, Key, []byte(`{"email":"grace@example.com","token":"t"}`))
	changed, err = store.Reload(ctx)
	if err != nil || !changed {
		t.Fatalf("expected external change, got changed=%v err=%v", changed, err)
	}
	if current, _ := store.Current(); current.Identifier != "grace@example.com" {
		t.Errorf("expected grace after reload, got %+v", current)
	}

	kv.Remove(ctx, Key)
	changed, _ = store.Reload(ctx)
	if !changed {
		t.Error("expected external logout to be a change")
	}
	if _, ok := store.Current(); ok {
		t.Error("expected signed out after external removal")
	}
}

func TestValidateLoginForm(t *testing.T) {
	tests := []struct {
		email, password string
		want            map[string]string
	}{
		{"ada@example.com", "secret1", map[string]string{}},
		{"", "", map[string]string{FieldEmail: "Email is required", FieldPassword: "Password is required"}},
		{"ada", "123", map[string]string{FieldEmail: "Invalid email format", FieldPassword: "Password must be at least 6 characters"}},
	}
	for _, test := range tests {
		got := ValidateLoginForm(test.email, test.password)
		if len(got) != len(test.want) {
			t.Errorf("ValidateLoginForm(%q, %q) = %v, want %v", test.email, test.password, got, test.want)
			continue
		}
		for field, message := range test.want {
			if got[field] != message {
				t.Errorf("field %s: expected %q, got %q", field, message, got[field])
			}
		}
	}
}

func TestValidateSignupForm(t *testing.T) {
	got := ValidateSignupForm("ada@example.com", "secret1", "secret2")
	if got[FieldConfirm] != "Passwords do not match" || len(got) != 1 {
		t.Errorf("expected only a confirm message, got %v", got)
	}
}
