// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"errors"
	"strings"
)

// FieldError is a problem with one form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects the field problems found by Validate.
type ValidationError []FieldError

func (v ValidationError) Error() string {
	messages := make([]string, len(v))
	for i, problem := range v {
		messages[i] = problem.Field + ": " + problem.Message
	}
	return "invalid ticket: " + strings.Join(messages, "; ")
}

// Message returns the message for field, or "" if the field passed.
func (v ValidationError) Message(field string) string {
	for _, problem := range v {
		if problem.Field == field {
			return problem.Message
		}
	}
	return ""
}

// FieldMessages extracts per-field messages from err for display next
// to form inputs. It returns nil if err is not a ValidationError.
func FieldMessages(err error) map[string]string {
	var validation ValidationError
	if !errors.As(err, &validation) {
		return nil
	}
	messages := make(map[string]string, len(validation))
	for _, problem := range validation {
		messages[problem.Field] = problem.Message
	}
	return messages
}
