// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketstore owns the ticket collection and mirrors it to the
// key-value store under [Key].
//
// Every mutation rewrites the whole collection as one JSON array, so
// the persisted value is always a complete snapshot. A mutation is
// written before it is applied in memory: if the write fails, neither
// copy changes.
//
// The store does not validate ticket fields. Forms call
// ticket.Fields.Validate before submitting.
package ticketstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ticketflow/ticketflow/lib/kvstore"
	"github.com/ticketflow/ticketflow/lib/notify"
	"github.com/ticketflow/ticketflow/lib/ticket"
)

// Key is the key-value key holding the ticket collection.
const Key = "tickets"

// Notification texts reported to the Notifier.
const (
	MessageCreated    = "Ticket created successfully!"
	MessageUpdated    = "Ticket updated successfully!"
	MessageDeleted    = "Ticket deleted successfully!"
	MessageSaveFailed = "Could not save tickets."
)

// idAttempts bounds the retries when a generated id collides.
const idAttempts = 16

// Config holds the collaborators of a Store.
type Config struct {
	KV       kvstore.Store
	Notifier notify.Notifier
	Logger   *slog.Logger

	// NewID generates candidate ticket ids. Defaults to NewID.
	NewID func() string
}

// NewID returns "tkt-" followed by eight random hex digits.
func NewID() string {
	return "tkt-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Store is the ordered ticket collection. It is safe for concurrent
// use.
type Store struct {
	kv       kvstore.Store
	notifier notify.Notifier
	logger   *slog.Logger
	newID    func() string

	mu      sync.Mutex
	tickets []ticket.Ticket
	digest  kvstore.Digest
	loaded  bool
}

// Open constructs a Store and loads the persisted collection. A
// missing collection loads as empty; a corrupt one is an error
// wrapping kvstore.ErrCorrupt.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.KV == nil {
		return nil, errors.New("ticketstore: KV store is required")
	}
	store := &Store{
		kv:       cfg.KV,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		newID:    cfg.NewID,
	}
	if store.notifier == nil {
		store.notifier = notify.Discard
	}
	if store.logger == nil {
		store.logger = slog.New(slog.DiscardHandler)
	}
	if store.newID == nil {
		store.newID = NewID
	}
	if _, err := store.Reload(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Reload re-reads the persisted collection and reports whether the
// in-memory collection changed. Content identical to the last value
// this store read or wrote is ignored.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	data, found, err := s.kv.Get(ctx, Key)
	if err != nil {
		return false, fmt.Errorf("ticketstore: loading: %w", err)
	}

	var digest kvstore.Digest
	var loaded []ticket.Ticket
	if found {
		digest = kvstore.DigestOf(data)
		loaded, err = decode(data)
		if err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && digest == s.digest {
		return false, nil
	}
	s.tickets = loaded
	s.digest = digest
	s.loaded = true
	s.logger.Debug("tickets loaded", "count", len(loaded))
	return true, nil
}

func decode(data []byte) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("ticketstore: %w: key %s: %v", kvstore.ErrCorrupt, Key, err)
	}
	for i := range tickets {
		if tickets[i].ID == "" {
			return nil, fmt.Errorf("ticketstore: %w: key %s: ticket %d has no id", kvstore.ErrCorrupt, Key, i)
		}
		if tickets[i].Priority == "" {
			tickets[i].Priority = ticket.DefaultPriority
		}
	}
	return tickets, nil
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tickets)
}

// Filter returns the tickets matching filter in insertion order.
func (s *Store) Filter(filter ticket.Filter) []ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ticket.Select(s.tickets, filter)
}

// Get returns the ticket with id.
func (s *Store) Get(id string) (ticket.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.indexLocked(id)
	if index < 0 {
		return ticket.Ticket{}, false
	}
	return s.tickets[index], true
}

// Stats counts tickets by status for the dashboard.
func (s *Store) Stats() ticket.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ticket.Count(s.tickets)
}

// Create appends a ticket with a fresh id and persists the collection.
// An empty priority becomes ticket.DefaultPriority.
func (s *Store) Create(ctx context.Context, fields ticket.Fields) (ticket.Ticket, error) {
	s.mu.Lock()
	id, err := s.freshIDLocked()
	if err != nil {
		s.mu.Unlock()
		return ticket.Ticket{}, err
	}
	created := ticket.Ticket{
		ID:          id,
		Title:       fields.Title,
		Status:      fields.Status,
		Description: fields.Description,
		Priority:    fields.Priority,
	}
	if created.Priority == "" {
		created.Priority = ticket.DefaultPriority
	}
	next := append(slices.Clone(s.tickets), created)
	err = s.commitLocked(ctx, next)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(MessageSaveFailed, notify.SeverityError)
		return ticket.Ticket{}, err
	}
	s.logger.Info("ticket created", "id", created.ID, "title", created.Title)
	s.notifier.Notify(MessageCreated, notify.SeveritySuccess)
	return created, nil
}

// Update merges patch into the ticket with id and persists the
// collection. An unknown id changes nothing and is not an error; the
// boolean reports whether the ticket was found.
func (s *Store) Update(ctx context.Context, id string, patch ticket.Patch) (ticket.Ticket, bool, error) {
	s.mu.Lock()
	next := slices.Clone(s.tickets)
	index := s.indexLocked(id)
	var updated ticket.Ticket
	if index >= 0 {
		updated = patch.Apply(next[index])
		next[index] = updated
	}
	err := s.commitLocked(ctx, next)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(MessageSaveFailed, notify.SeverityError)
		return ticket.Ticket{}, false, err
	}
	if index < 0 {
		s.logger.Debug("update of unknown ticket ignored", "id", id)
		return ticket.Ticket{}, false, nil
	}
	s.logger.Info("ticket updated", "id", id)
	s.notifier.Notify(MessageUpdated, notify.SeveritySuccess)
	return updated, true, nil
}

// Delete removes the ticket with id, if present, and persists the
// collection. The boolean reports whether a ticket was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	index := s.indexLocked(id)
	next := slices.Clone(s.tickets)
	if index >= 0 {
		next = slices.Delete(next, index, index+1)
	}
	err := s.commitLocked(ctx, next)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(MessageSaveFailed, notify.SeverityError)
		return false, err
	}
	if index < 0 {
		s.logger.Debug("delete of unknown ticket ignored", "id", id)
		return false, nil
	}
	s.logger.Info("ticket deleted", "id", id)
	s.notifier.Notify(MessageDeleted, notify.SeveritySuccess)
	return true, nil
}

// commitLocked persists next and, on success, makes it the in-memory
// collection. Must be called with s.mu held.
func (s *Store) commitLocked(ctx context.Context, next []ticket.Ticket) error {
	if next == nil {
		next = []ticket.Ticket{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("ticketstore: encoding: %w", err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("ticketstore: saving: %w", err)
	}
	s.tickets = next
	s.digest = kvstore.DigestOf(data)
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tickets, func(t ticket.Ticket) bool { return t.ID == id })
}

func (s *Store) freshIDLocked() (string, error) {
	for range idAttempts {
		candidate := s.newID()
		if s.indexLocked(candidate) < 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("ticketstore: no unused id after %d attempts", idAttempts)
}
