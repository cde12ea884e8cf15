// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock reading initial. Time only moves when
// Advance is called.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for tests. Callbacks registered
// with AfterFunc run synchronously inside Advance, in deadline order,
// so a test observes their effects as soon as Advance returns.
//
// Callbacks may call back into the clock (Now, AfterFunc) but must not
// call Advance.
type FakeClock struct {
	mu       sync.Mutex
	current  time.Time
	sequence uint64
	pending  []*fakeCallback
}

type fakeCallback struct {
	deadline time.Time
	// sequence breaks ties between equal deadlines so callbacks fire
	// in registration order.
	sequence uint64
	callback func()
	stopped  bool
	fired    bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run once the clock has been advanced by at
// least d. If d <= 0, f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stop: func() bool { return false }}
	}

	c.mu.Lock()
	c.sequence++
	entry := &fakeCallback{
		deadline: c.current.Add(d),
		sequence: c.sequence,
		callback: f,
	}
	c.pending = append(c.pending, entry)
	c.mu.Unlock()

	return &Timer{stop: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if entry.stopped || entry.fired {
			return false
		}
		entry.stopped = true
		return true
	}}
}

// Advance moves the clock forward by d and runs every callback whose
// deadline is at or before the new time. Callbacks registered by a
// firing callback also run if their deadline has been reached.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	for {
		due := c.collectDue(target)
		if len(due) == 0 {
			return
		}
		for _, entry := range due {
			entry.callback()
		}
	}
}

// collectDue removes callbacks due at or before target from the
// pending list and returns them sorted by deadline.
func (c *FakeClock) collectDue(target time.Time) []*fakeCallback {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due, remaining []*fakeCallback
	for _, entry := range c.pending {
		switch {
		case entry.stopped:
		case entry.deadline.After(target):
			remaining = append(remaining, entry)
		default:
			entry.fired = true
			due = append(due, entry)
		}
	}
	c.pending = remaining

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].sequence < due[j].sequence
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due
}

// PendingCount returns the number of callbacks registered but neither
// fired nor stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, entry := range c.pending {
		if !entry.stopped {
			count++
		}
	}
	return count
}
