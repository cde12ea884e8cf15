// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the two time operations TicketFlow depends
// on: reading the current time and scheduling a deferred callback.
//
// Notification expiry is the main consumer. Production code passes
// Real(); tests pass Fake() and call Advance to expire notifications
// without sleeping.
package clock

import "time"

// Clock is the time source injected into stores and the notification
// emitter.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once duration d has elapsed. The returned
	// Timer can stop the pending call. If d <= 0, f runs immediately:
	// in a new goroutine for Real, synchronously for Fake.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a handle on a callback scheduled with AfterFunc.
type Timer struct {
	stop func() bool
}

// Stop prevents the callback from running. It reports false if the
// callback already ran or the timer was already stopped.
func (t *Timer) Stop() bool { return t.stop() }
