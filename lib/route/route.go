// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package route maps navigation paths to views and applies the
// authentication guards between them.
//
// There are five views. Paths are accepted with or without a leading
// "#" and slash, so "#/tickets", "/tickets", and "tickets" all name the
// same view. Anything unrecognized resolves to [Landing].
package route

import "strings"

// View is one screen of the application.
type View int

const (
	Landing View = iota
	Login
	Signup
	Dashboard
	Tickets
)

// Views lists every view in navigation order.
var Views = []View{Landing, Login, Signup, Dashboard, Tickets}

var paths = map[View]string{
	Landing:   "/",
	Login:     "/login",
	Signup:    "/signup",
	Dashboard: "/dashboard",
	Tickets:   "/tickets",
}

var titles = map[View]string{
	Landing:   "Welcome",
	Login:     "Log in",
	Signup:    "Sign up",
	Dashboard: "Dashboard",
	Tickets:   "Tickets",
}

// Path returns the canonical path, such as "/tickets".
func (v View) Path() string {
	if path, ok := paths[v]; ok {
		return path
	}
	return paths[Landing]
}

// Title is the heading shown for the view.
func (v View) Title() string {
	if title, ok := titles[v]; ok {
		return title
	}
	return titles[Landing]
}

func (v View) String() string { return v.Path() }

// Protected reports whether the view requires a session.
func (v View) Protected() bool {
	return v == Dashboard || v == Tickets
}

// Parse resolves a path to its view.
func Parse(path string) View {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "#")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for view, candidate := range paths {
		if candidate == path {
			return view
		}
	}
	return Landing
}

// Resolve returns the view actually shown when requested is asked for.
// Protected views send a signed-out user to Login; the Login and
// Signup forms send a signed-in user to Dashboard.
func Resolve(requested View, signedIn bool) View {
	switch {
	case requested.Protected() && !signedIn:
		return Login
	case (requested == Login || requested == Signup) && signedIn:
		return Dashboard
	default:
		return requested
	}
}

// Navigate is Parse followed by Resolve.
func Navigate(path string, signedIn bool) View {
	return Resolve(Parse(path), signedIn)
}
