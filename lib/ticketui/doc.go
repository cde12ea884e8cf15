// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketui is TicketFlow's terminal interface: a bubbletea
// model with one screen per route (landing, login, signup, dashboard,
// tickets) and a toast overlay for notifications.
//
// The model talks to the session and ticket stores through the
// [Sessions] and [Tickets] interfaces and runs every mutation
// synchronously inside Update. Work that happens off the UI goroutine,
// such as notification expiry or another process rewriting the store,
// reaches the model as messages delivered by a [Bridge].
//
// Data flow:
//
//	[session.Store] [ticketstore.Store] [notify.Emitter]
//	        |               |                  | OnChange
//	        +------> [Model] <----- [Bridge] <-+-- [watch.Watcher]
//	                    |
//	            [terminal output]
package ticketui
