// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

var testOptions = []Option{
	{Label: "Low", Value: "low"},
	{Label: "Medium", Value: "medium"},
	{Label: "High", Value: "high"},
}

func TestNewChoice(t *testing.T) {
	if choice := NewChoice(testOptions, "high"); choice.Selected().Value != "high" {
		t.Errorf("expected high, got %q", choice.Selected().Value)
	}
	if choice := NewChoice(testOptions, "urgent"); choice.Selected().Value != "low" {
		t.Errorf("expected first option for unknown value, got %q", choice.Selected().Value)
	}
}

func TestChoiceWraps(t *testing.T) {
	choice := NewChoice(testOptions, "high")
	choice.Next()
	if choice.Selected().Value != "low" {
		t.Errorf("expected Next to wrap to low, got %q", choice.Selected().Value)
	}
	choice.Previous()
	if choice.Selected().Value != "high" {
		t.Errorf("expected Previous to wrap to high, got %q", choice.Selected().Value)
	}
}

func TestEmptyChoice(t *testing.T) {
	var choice Choice
	choice.Next()
	choice.Previous()
	if choice.Selected() != (Option{}) {
		t.Errorf("expected zero option, got %+v", choice.Selected())
	}
}

func TestChoiceView(t *testing.T) {
	choice := NewChoice(testOptions, "medium")
	focused := ansi.Strip(choice.View(DefaultTheme, true))
	if !strings.HasPrefix(focused, "◂") || !strings.HasSuffix(focused, "▸") {
		t.Errorf("expected arrows when focused, got %q", focused)
	}
	for _, option := range testOptions {
		if !strings.Contains(focused, option.Label) {
			t.Errorf("expected %s in %q", option.Label, focused)
		}
	}
	if blurred := ansi.Strip(choice.View(DefaultTheme, false)); strings.Contains(blurred, "◂") {
		t.Errorf("expected no arrows when blurred, got %q", blurred)
	}
}
