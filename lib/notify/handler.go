// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Handler is a slog.Handler that turns log records into notifications.
// The TUI owns the terminal, so warnings from background work (the
// file watcher, store reloads) are shown as toasts instead of being
// written to stderr.
//
// Records at slog.LevelError and above become error notifications;
// the rest become info.
type Handler struct {
	level    slog.Leveler
	notifier Notifier
	attrs    []slog.Attr
	groups   []string
}

// NewHandler returns a Handler delivering records at or above level
// to notifier.
func NewHandler(notifier Notifier, level slog.Leveler) *Handler {
	return &Handler{level: level, notifier: notifier}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as "message (key=value, ...)".
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}

	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})

	message := record.Message
	if len(parts) > 0 {
		message += " (" + strings.Join(parts, ", ") + ")"
	}

	severity := SeverityInfo
	if record.Level >= slog.LevelError {
		severity = SeverityError
	}
	h.notifier.Notify(message, severity)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := strings.Join(h.groups, ".")
	qualified := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		if prefix != "" {
			attr.Key = prefix + "." + attr.Key
		}
		qualified[i] = attr
	}
	return &Handler{
		level:    h.level,
		notifier: h.notifier,
		attrs:    append(slices.Clone(h.attrs), qualified...),
		groups:   slices.Clone(h.groups),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		level:    h.level,
		notifier: h.notifier,
		attrs:    slices.Clone(h.attrs),
		groups:   append(slices.Clone(h.groups), name),
	}
}
