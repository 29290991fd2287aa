package search

import "math"

const (
	analyticsWindow = 50
	recentDisplay   = 10
)

// RecentSearch is one (identifier, latency) pair kept for display.
type RecentSearch struct {
	ID     string `json:"id"`
	Millis int64  `json:"time"`
}

// AnalyticsData is the persisted analytics snapshot.
type AnalyticsData struct {
	TotalSearches   int            `json:"totalSearches"`
	AvgResponseTime int64          `json:"avgResponseTime"` // rolling mean, ms
	SearchTimes     []int64        `json:"searchTimes"`
	RecentSearches  []RecentSearch `json:"recentSearches"`
}

// AnalyticsTracker maintains a rolling window of the most recent round-trip
// latencies and the derived mean. Success-path only: failed lookups are never
// recorded. Not safe for concurrent use; the orchestrator serializes access.
type AnalyticsTracker struct {
	data AnalyticsData
}

// NewAnalyticsTracker returns a tracker seeded with previously persisted data,
// clamped to the window bounds.
func NewAnalyticsTracker(data AnalyticsData) *AnalyticsTracker {
	if len(data.SearchTimes) > analyticsWindow {
		data.SearchTimes = data.SearchTimes[len(data.SearchTimes)-analyticsWindow:]
	}
	if len(data.RecentSearches) > recentDisplay {
		data.RecentSearches = data.RecentSearches[:recentDisplay]
	}
	return &AnalyticsTracker{data: data}
}

// Track records one completed lookup. The window keeps the most recent 50
// latencies; the mean is recomputed over exactly the retained window and
// rounded to the nearest millisecond.
func (a *AnalyticsTracker) Track(id string, millis int64) {
	times := append(a.data.SearchTimes, millis)
	if len(times) > analyticsWindow {
		times = times[len(times)-analyticsWindow:]
	}

	var sum int64
	for _, t := range times {
		sum += t
	}
	avg := int64(math.Round(float64(sum) / float64(len(times))))

	recent := make([]RecentSearch, 0, recentDisplay)
	recent = append(recent, RecentSearch{ID: id, Millis: millis})
	recent = append(recent, a.data.RecentSearches...)
	if len(recent) > recentDisplay {
		recent = recent[:recentDisplay]
	}

	a.data = AnalyticsData{
		TotalSearches:   a.data.TotalSearches + 1,
		AvgResponseTime: avg,
		SearchTimes:     times,
		RecentSearches:  recent,
	}
}

// Snapshot returns a copy of the current analytics data.
func (a *AnalyticsTracker) Snapshot() AnalyticsData {
	out := a.data
	out.SearchTimes = append([]int64(nil), a.data.SearchTimes...)
	out.RecentSearches = append([]RecentSearch(nil), a.data.RecentSearches...)
	return out
}
