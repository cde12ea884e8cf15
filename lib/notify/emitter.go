// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify holds transient user-facing notifications ("toasts").
//
// An [Emitter] keeps the set of currently visible notifications. Every
// notification is removed a fixed TTL after it is emitted, whether or
// not it was dismissed earlier: the expiry timer is never cancelled,
// and firing for an already dismissed entry is a no-op. Nothing is
// persisted.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/ticketflow/ticketflow/lib/clock"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Severity classifies a notification for styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is one visible message.
type Notification struct {
	ID        uint64
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Notifier is what stores report outcomes to.
type Notifier interface {
	Notify(message string, severity Severity) Notification
}

// Discard is a Notifier that drops everything, for headless use.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(message string, severity Severity) Notification {
	return Notification{Message: message, Severity: severity}
}

// Emitter is the in-memory notification set. It is safe for concurrent
// use; expiry callbacks run on the clock's goroutine.
type Emitter struct {
	clock clock.Clock
	ttl   time.Duration

	mu       sync.Mutex
	nextID   uint64
	active   []Notification
	onChange func()
}

// NewEmitter returns an Emitter whose notifications last ttl. A
// non-positive ttl means DefaultTTL.
func NewEmitter(c clock.Clock, ttl time.Duration) *Emitter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Emitter{clock: c, ttl: ttl}
}

// TTL returns how long notifications stay visible.
func (e *Emitter) TTL() time.Duration { return e.ttl }

// OnChange registers f to be called after the active set changes,
// outside the emitter's lock. Only one callback is kept.
func (e *Emitter) OnChange(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = f
}

// Notify appends a notification and schedules its removal.
// Duplicates are kept; order is insertion order.
func (e *Emitter) Notify(message string, severity Severity) Notification {
	e.mu.Lock()
	e.nextID++
	notification := Notification{
		ID:        e.nextID,
		Message:   message,
		Severity:  severity,
		CreatedAt: e.clock.Now(),
	}
	e.active = append(e.active, notification)
	e.mu.Unlock()

	e.changed()
	e.clock.AfterFunc(e.ttl, func() { e.remove(notification.ID) })
	return notification
}

// Success emits a success notification.
func (e *Emitter) Success(message string) Notification {
	return e.Notify(message, SeveritySuccess)
}

// Error emits an error notification.
func (e *Emitter) Error(message string) Notification {
	return e.Notify(message, SeverityError)
}

// Info emits an informational notification.
func (e *Emitter) Info(message string) Notification {
	return e.Notify(message, SeverityInfo)
}

// Active returns a snapshot of the visible notifications, oldest
// first.
func (e *Emitter) Active() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.active)
}

// Dismiss removes a notification before it expires. The pending
// expiry still fires later and finds nothing to remove.
func (e *Emitter) Dismiss(id uint64) {
	e.remove(id)
}

func (e *Emitter) remove(id uint64) {
	e.mu.Lock()
	before := len(e.active)
	e.active = slices.DeleteFunc(e.active, func(n Notification) bool { return n.ID == id })
	removed := len(e.active) != before
	e.mu.Unlock()

	if removed {
		e.changed()
	}
}

func (e *Emitter) changed() {
	e.mu.Lock()
	callback := e.onChange
	e.mu.Unlock()
	if callback != nil {
		callback()
	}
}
