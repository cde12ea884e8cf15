// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import "testing"

var fixtures = []Ticket{
	{ID: "tkt-1", Title: "Printer jam", Status: StatusOpen, Priority: PriorityHigh},
	{ID: "tkt-2", Title: "Login page broken", Status: StatusInProgress, Priority: PriorityMedium},
	{ID: "tkt-3", Title: "VPN down", Status: StatusClosed, Priority: PriorityHigh},
	{ID: "tkt-4", Title: "Replace toner", Status: StatusOpen, Priority: PriorityLow},
}

func ids(tickets []Ticket) []string {
	result := make([]string, len(tickets))
	for i, t := range tickets {
		result[i] = t.ID
	}
	return result
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"tkt-1", "tkt-2", "tkt-3", "tkt-4"}},
		{"open", Filter{Status: StatusOpen}, []string{"tkt-1", "tkt-4"}},
		{"high", Filter{Priority: PriorityHigh}, []string{"tkt-1", "tkt-3"}},
		{"open and high", Filter{Status: StatusOpen, Priority: PriorityHigh}, []string{"tkt-1"}},
		{"none", Filter{Status: StatusInProgress, Priority: PriorityLow}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ids(Select(fixtures, test.filter))
			if len(got) != len(test.want) {
				t.Fatalf("expected %v, got %v", test.want, got)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("expected %v, got %v", test.want, got)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	stats := Count(fixtures)
	want := Stats{Total: 4, Open: 2, InProgress: 1, Closed: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
	if Count(nil) != (Stats{}) {
		t.Error("expected zero stats for no tickets")
	}
}

func TestSearch(t *testing.T) {
	matches := Search(fixtures, "printer")
	if len(matches) != 1 || matches[0].Ticket.ID != "tkt-1" {
		t.Fatalf("expected only tkt-1, got %+v", matches)
	}
	if len(matches[0].TitleIndexes) != len("printer") {
		t.Errorf("expected %d highlighted offsets, got %v", len("printer"), matches[0].TitleIndexes)
	}
}

func TestSearchByID(t *testing.T) {
	matches := Search(fixtures, "tkt-3")
	found := false
	for _, match := range matches {
		if match.Ticket.ID == "tkt-3" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected tkt-3 among matches, got %+v", matches)
	}
}

func TestSearchBlankReturnsAll(t *testing.T) {
	matches := Search(fixtures, "  ")
	if len(matches) != len(fixtures) {
		t.Fatalf("expected %d matches, got %d", len(fixtures), len(matches))
	}
	for i, match := range matches {
		if match.Ticket.ID != fixtures[i].ID {
			t.Errorf("expected original order, got %s at %d", match.Ticket.ID, i)
		}
	}
}
