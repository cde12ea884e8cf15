// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Filter selects tickets. Zero-valued fields match everything; set
// fields must all match.
type Filter struct {
	Status   Status
	Priority Priority
}

// Matches reports whether t satisfies every set field of f.
func (f Filter) Matches(t Ticket) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}

// Select returns the tickets matching f, preserving order.
func Select(tickets []Ticket, f Filter) []Ticket {
	var result []Ticket
	for _, t := range tickets {
		if f.Matches(t) {
			result = append(result, t)
		}
	}
	return result
}

// Stats holds the dashboard counts.
type Stats struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
}

// Count tallies tickets by status.
func Count(tickets []Ticket) Stats {
	stats := Stats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case StatusOpen:
			stats.Open++
		case StatusInProgress:
			stats.InProgress++
		case StatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// Match is one fuzzy search hit.
type Match struct {
	Ticket Ticket

	// TitleIndexes are the byte offsets in Ticket.Title that matched
	// the pattern, for highlighting.
	TitleIndexes []int
}

// searchSource adapts a ticket slice to fuzzy.Source. Each entry is
// the title followed by the id, so an id prefix also finds a ticket.
type searchSource []Ticket

func (s searchSource) String(i int) string { return s[i].Title + " " + s[i].ID }
func (s searchSource) Len() int            { return len(s) }

// Search fuzzy-matches pattern against titles and ids and returns hits
// best first. An empty or blank pattern returns every ticket in order
// with no highlights.
func Search(tickets []Ticket, pattern string) []Match {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		matches := make([]Match, len(tickets))
		for i, t := range tickets {
			matches[i] = Match{Ticket: t}
		}
		return matches
	}

	found := fuzzy.FindFrom(pattern, searchSource(tickets))
	matches := make([]Match, 0, len(found))
	for _, hit := range found {
		t := tickets[hit.Index]
		var titleIndexes []int
		for _, offset := range hit.MatchedIndexes {
			if offset < len(t.Title) {
				titleIndexes = append(titleIndexes, offset)
			}
		}
		matches = append(matches, Match{Ticket: t, TitleIndexes: titleIndexes})
	}
	return matches
}
