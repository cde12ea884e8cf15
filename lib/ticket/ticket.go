// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket defines the ticket record, its enumerations, and the
// form-level validation applied before a ticket is created or edited.
//
// The types here are plain values with no I/O. Persistence and id
// assignment live in package ticketstore.
package ticket

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest description accepted, in Unicode
// code points.
const MaxDescriptionLength = 500

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Label returns the human-readable form shown in lists.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

// Priority is the urgency of a ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// DefaultPriority is assigned when a ticket is created without one.
	DefaultPriority = PriorityMedium
)

// Priorities lists every valid priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the human-readable form shown in lists.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

// ParseStatus converts user input to a Status. It accepts the wire
// value, the label, and "in-progress".
func ParseStatus(input string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	status := Status(normalized)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q (want open, in_progress, or closed)", input)
	}
	return status, nil
}

// ParsePriority converts user input to a Priority.
func ParsePriority(input string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(input)))
	if !priority.Valid() {
		return "", fmt.Errorf("unknown priority %q (want low, medium, or high)", input)
	}
	return priority, nil
}

// Ticket is one persisted record. The JSON encoding is the on-disk
// format of the tickets collection.
type Ticket struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Status      Status   `json:"status"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Fields returns the editable part of t, for prefilling an edit form.
func (t Ticket) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Status:      t.Status,
		Description: t.Description,
		Priority:    t.Priority,
	}
}

// Fields is the user-supplied content of a ticket, without an id. An
// empty Priority means DefaultPriority.
type Fields struct {
	Title       string
	Status      Status
	Description string
	Priority    Priority
}

// NewFields returns the values an empty create form starts with.
func NewFields() Fields {
	return Fields{Status: StatusOpen, Priority: DefaultPriority}
}

// Validate checks f the way the ticket form does and returns a
// ValidationError naming every failing field, or nil.
func (f Fields) Validate() error {
	var problems ValidationError
	if strings.TrimSpace(f.Title) == "" {
		problems = append(problems, FieldError{Field: "title", Message: "Title is required"})
	}
	if !f.Status.Valid() {
		problems = append(problems, FieldError{Field: "status", Message: "Invalid status"})
	}
	if utf8.RuneCountInString(f.Description) > MaxDescriptionLength {
		problems = append(problems, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLength),
		})
	}
	if f.Priority != "" && !f.Priority.Valid() {
		problems = append(problems, FieldError{Field: "priority", Message: "Invalid priority"})
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Status      *Status
	Description *string
	Priority    *Priority
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Status == nil && p.Description == nil && p.Priority == nil
}

// Apply returns t with the patch's set fields copied over. The id is
// never changed, and an empty priority leaves the stored one in place.
func (p Patch) Apply(t Ticket) Ticket {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil && *p.Priority != "" {
		t.Priority = *p.Priority
	}
	return t
}

// PatchFrom builds a patch that replaces every editable field with the
// values in f, as submitting the edit form does.
func PatchFrom(f Fields) Patch {
	patch := Patch{
		Title:       &f.Title,
		Status:      &f.Status,
		Description: &f.Description,
	}
	if f.Priority != "" {
		patch.Priority = &f.Priority
	}
	return patch
}
