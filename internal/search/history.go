package search

import (
	"strings"
	"time"
)

// MaxHistory bounds the recency list of past lookups.
const MaxHistory = 20

// HistoryEntry is one past successful lookup.
type HistoryEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// HistoryTracker is a bounded, deduplicated recency list. The newest entry
// for an identifier supersedes any earlier one and moves to the front.
// Not safe for concurrent use; the orchestrator serializes access.
type HistoryTracker struct {
	entries []HistoryEntry
}

// NewHistoryTracker returns a tracker seeded with previously persisted
// entries, truncated to the capacity bound.
func NewHistoryTracker(entries []HistoryEntry) *HistoryTracker {
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	return &HistoryTracker{entries: entries}
}

// Add records a successful lookup. A repeated identifier replaces its old
// entry rather than duplicating it; the oldest entries beyond the bound drop.
func (h *HistoryTracker) Add(id, title string) {
	filtered := make([]HistoryEntry, 0, len(h.entries)+1)
	filtered = append(filtered, HistoryEntry{
		ID:        id,
		Title:     title,
		Timestamp: time.Now().UnixMilli(),
	})
	for _, e := range h.entries {
		if e.ID == id {
			continue
		}
		filtered = append(filtered, e)
	}
	if len(filtered) > MaxHistory {
		filtered = filtered[:MaxHistory]
	}
	h.entries = filtered
}

// Entries returns a copy of the history, newest first.
func (h *HistoryTracker) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Filter returns entries whose id contains match or whose title contains it
// case-insensitively.
func (h *HistoryTracker) Filter(match string) []HistoryEntry {
	if match == "" {
		return h.Entries()
	}
	lower := strings.ToLower(match)
	var out []HistoryEntry
	for _, e := range h.entries {
		if strings.Contains(e.ID, match) || strings.Contains(strings.ToLower(e.Title), lower) {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops all entries.
func (h *HistoryTracker) Clear() {
	h.entries = nil
}

// Len returns the number of retained entries.
func (h *HistoryTracker) Len() int {
	return len(h.entries)
}
