// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// NotificationsChangedMsg tells the model to re-read the active
// notifications.
type NotificationsChangedMsg struct{}

// StoreChangedMsg tells the model that another process changed the
// persisted value under Key and the owning store has reloaded it.
type StoreChangedMsg struct {
	Key string
}

// Bridge forwards callbacks from other goroutines into a running
// tea.Program. Create it before the program, pass its methods as
// callbacks (notify.Emitter.OnChange, watch.Config.OnChange), then
// call SetProgram once the program exists. Callbacks arriving before
// that are dropped; the model reads current state on start anyway.
type Bridge struct {
	program atomic.Pointer[tea.Program]
}

// SetProgram sets the program that receives messages. Safe to call
// from any goroutine.
func (bridge *Bridge) SetProgram(program *tea.Program) {
	bridge.program.Store(program)
}

// NotificationsChanged is a notify.Emitter OnChange callback.
func (bridge *Bridge) NotificationsChanged() {
	bridge.send(NotificationsChangedMsg{})
}

// StoreChanged is a watch.Config OnChange callback.
func (bridge *Bridge) StoreChanged(key string) {
	bridge.send(StoreChangedMsg{Key: key})
}

// send delivers asynchronously. Emitter callbacks fire inside
// Model.Update when a mutation notifies, and tea.Program.Send blocks
// until the event loop, which is running that Update, receives.
func (bridge *Bridge) send(message tea.Msg) {
	program := bridge.program.Load()
	if program == nil {
		return
	}
	go program.Send(message)
}
