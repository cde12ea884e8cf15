// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the single signed-in identity.
//
// Authentication is a local demo: any non-empty identifier with a
// secret of at least MinSecretLength characters is accepted, and no
// credential is ever checked against anything. The resulting Session
// is persisted under [Key] so it survives restarts until Logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ticketflow/ticketflow/lib/kvstore"
	"github.com/ticketflow/ticketflow/lib/notify"
)

// Key is the key-value key holding the persisted session.
const Key = "ticketapp_session"

// MinSecretLength is the shortest accepted secret, in characters.
const MinSecretLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSecretMismatch     = errors.New("passwords do not match")
	ErrSecretTooShort     = fmt.Errorf("password must be at least %d characters", MinSecretLength)
	ErrIdentifierRequired = errors.New("email is required")
)

// Notification texts reported to the Notifier.
const (
	MessageWelcome          = "Welcome back!"
	MessageInvalid          = "Invalid email or password."
	MessageMismatch         = "Passwords do not match."
	MessageTooShort         = "Password must be at least 6 characters."
	MessageIdentifierNeeded = "Email is required."
	MessageSignedUp         = "Account created successfully!"
	MessageLoggedOut        = "Logged out successfully."
)

// Session is the signed-in identity. The JSON encoding is the
// persisted format.
type Session struct {
	Identifier string `json:"email"`
	Token      string `json:"token"`
}

// Config holds the collaborators of a Store.
type Config struct {
	KV       kvstore.Store
	Notifier notify.Notifier
	Logger   *slog.Logger

	// NewToken mints session tokens. Defaults to random UUIDs.
	NewToken func() string
}

// Store holds at most one Session and mirrors it to the key-value
// store. It is safe for concurrent use.
type Store struct {
	kv       kvstore.Store
	notifier notify.Notifier
	logger   *slog.Logger
	newToken func() string

	mu      sync.Mutex
	current *Session
	digest  kvstore.Digest
}

// Open constructs a Store and loads any persisted session. A missing
// session is not an error; a corrupt one is, wrapping
// kvstore.ErrCorrupt.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.KV == nil {
		return nil, errors.New("session: KV store is required")
	}
	store := &Store{
		kv:       cfg.KV,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		newToken: cfg.NewToken,
	}
	if store.notifier == nil {
		store.notifier = notify.Discard
	}
	if store.logger == nil {
		store.logger = slog.New(slog.DiscardHandler)
	}
	if store.newToken == nil {
		store.newToken = uuid.NewString
	}
	if _, err := store.Reload(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Reload re-reads the persisted session. It reports whether the
// in-memory state changed; content identical to what this store last
// read or wrote is ignored.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	data, found, err := s.kv.Get(ctx, Key)
	if err != nil {
		return false, fmt.Errorf("session: loading: %w", err)
	}

	var digest kvstore.Digest
	var loaded *Session
	if found {
		digest = kvstore.DigestOf(data)
		var decoded Session
		if err := json.Unmarshal(data, &decoded); err != nil {
			return false, fmt.Errorf("session: %w: key %s: %v", kvstore.ErrCorrupt, Key, err)
		}
		if decoded.Identifier == "" {
			return false, fmt.Errorf("session: %w: key %s has no email", kvstore.ErrCorrupt, Key)
		}
		loaded = &decoded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if digest == s.digest && (loaded == nil) == (s.current == nil) {
		return false, nil
	}
	s.current = loaded
	s.digest = digest
	s.logger.Debug("session reloaded", "signed_in", loaded != nil)
	return true, nil
}

// Current returns the signed-in session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Login accepts any non-empty identifier with a long enough secret.
// On failure nothing is created or persisted.
func (s *Store) Login(ctx context.Context, identifier, secret string) (Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || utf8.RuneCountInString(secret) < MinSecretLength {
		s.notifier.Notify(MessageInvalid, notify.SeverityError)
		return Session{}, ErrInvalidCredentials
	}
	return s.start(ctx, identifier, MessageWelcome)
}

// Signup checks the confirmation and secret length, then behaves like
// a successful Login.
func (s *Store) Signup(ctx context.Context, identifier, secret, confirm string) (Session, error) {
	if secret != confirm {
		s.notifier.Notify(MessageMismatch, notify.SeverityError)
		return Session{}, ErrSecretMismatch
	}
	if utf8.RuneCountInString(secret) < MinSecretLength {
		s.notifier.Notify(MessageTooShort, notify.SeverityError)
		return Session{}, ErrSecretTooShort
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		s.notifier.Notify(MessageIdentifierNeeded, notify.SeverityError)
		return Session{}, ErrIdentifierRequired
	}
	return s.start(ctx, identifier, MessageSignedUp)
}

func (s *Store) start(ctx context.Context, identifier, message string) (Session, error) {
	created := Session{Identifier: identifier, Token: s.newToken()}
	data, err := json.Marshal(created)
	if err != nil {
		return Session{}, fmt.Errorf("session: encoding: %w", err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		s.notifier.Notify("Could not save session.", notify.SeverityError)
		return Session{}, fmt.Errorf("session: saving: %w", err)
	}

	s.mu.Lock()
	s.current = &created
	s.digest = kvstore.DigestOf(data)
	s.mu.Unlock()

	s.logger.Info("session started", "identifier", identifier)
	s.notifier.Notify(message, notify.SeveritySuccess)
	return created, nil
}

// Logout clears the session in memory and removes the persisted
// record, whether or not anyone was signed in. The in-memory session
// is cleared even when the removal fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.digest = kvstore.Digest{}
	s.mu.Unlock()

	if err := s.kv.Remove(ctx, Key); err != nil {
		s.notifier.Notify("Could not remove saved session.", notify.SeverityError)
		return fmt.Errorf("session: removing: %w", err)
	}
	s.logger.Info("session ended")
	s.notifier.Notify(MessageLoggedOut, notify.SeverityInfo)
	return nil
}
