package search

import "strconv"

// Default budget shown before the gateway has advertised one.
const (
	defaultBudgetRemaining = 100
	defaultBudgetLimit     = 100
)

// RateBudget mirrors the remaining/limit request quota advertised by the
// gateway. Not safe for concurrent use; the orchestrator serializes access.
type RateBudget struct {
	remaining int
	limit     int
}

// NewRateBudget returns a budget at the (100,100) default.
func NewRateBudget() *RateBudget {
	return &RateBudget{remaining: defaultBudgetRemaining, limit: defaultBudgetLimit}
}

// Update overwrites the budget verbatim when both header values parse as
// integers. A missing or malformed pair leaves the previous (possibly stale)
// budget untouched; it is never reset.
func (b *RateBudget) Update(remaining, limit string) {
	if remaining == "" || limit == "" {
		return
	}
	r, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}
	l, err := strconv.Atoi(limit)
	if err != nil {
		return
	}
	b.remaining = r
	b.limit = l
}

// Snapshot returns the current (remaining, limit) pair.
func (b *RateBudget) Snapshot() (remaining, limit int) {
	return b.remaining, b.limit
}
