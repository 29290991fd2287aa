package search

import (
	"encoding/json"

	"github.com/okorban/vidmeta/internal/storage"
)

// Persisted client-state keys, each independently defaulted.
const (
	stateKeyHistory   = "search-history"
	stateKeyTheme     = "theme"
	stateKeyAnalytics = "analytics"
)

// Themes accepted by LoadTheme; anything else falls back to dark.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// StateStore persists client state (history, theme, analytics) as namespaced
// JSON values. Each key is read once at startup with a type-checked fallback
// to a safe default, and fully rewritten after every mutation. Write failures
// are swallowed: losing persistence must not break a lookup in progress.
// A nil underlying store degrades to in-memory-only behavior.
type StateStore struct {
	db *storage.Store
}

// NewStateStore returns a StateStore over db. db may be nil.
func NewStateStore(db *storage.Store) *StateStore {
	return &StateStore{db: db}
}

func (s *StateStore) load(key string, v any) bool {
	if s.db == nil {
		return false
	}
	raw, err := s.db.GetState(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (s *StateStore) save(key string, v any) {
	if s.db == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.db.SetState(key, raw)
}

// LoadHistory returns the persisted search history, or an empty list on
// absence or corruption.
func (s *StateStore) LoadHistory() []HistoryEntry {
	var entries []HistoryEntry
	if !s.load(stateKeyHistory, &entries) {
		return nil
	}
	return entries
}

// SaveHistory rewrites the persisted search history.
func (s *StateStore) SaveHistory(entries []HistoryEntry) {
	if entries == nil {
		entries = []HistoryEntry{}
	}
	s.save(stateKeyHistory, entries)
}

// LoadTheme returns the persisted theme preference; anything but "light"
// resolves to dark.
func (s *StateStore) LoadTheme() string {
	var theme string
	if !s.load(stateKeyTheme, &theme) {
		return ThemeDark
	}
	if theme == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// SaveTheme rewrites the persisted theme preference.
func (s *StateStore) SaveTheme(theme string) {
	s.save(stateKeyTheme, theme)
}

// ToggleTheme flips the persisted theme and returns the new value.
func (s *StateStore) ToggleTheme() string {
	next := ThemeLight
	if s.LoadTheme() == ThemeLight {
		next = ThemeDark
	}
	s.SaveTheme(next)
	return next
}

// LoadAnalytics returns the persisted analytics window, or a zero snapshot on
// absence or corruption.
func (s *StateStore) LoadAnalytics() AnalyticsData {
	var data AnalyticsData
	if !s.load(stateKeyAnalytics, &data) {
		return AnalyticsData{}
	}
	return data
}

// SaveAnalytics rewrites the persisted analytics window.
func (s *StateStore) SaveAnalytics(data AnalyticsData) {
	s.save(stateKeyAnalytics, data)
}
