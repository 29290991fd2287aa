package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MaxBatch caps how many identifiers one batch lookup dispatches. Batches run
// sequentially, so this also bounds total outstanding upstream calls to one
// at any instant.
const MaxBatch = 4

// Phase is the lookup-cycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

// ErrSuperseded is returned when a lookup's response arrived after a newer
// lookup had already been initiated; its result is discarded unapplied.
var ErrSuperseded = errors.New("lookup superseded by a newer request")

// ErrNoContent is returned when a lookup resolves no entity.
var ErrNoContent = errors.New("no content found for this video ID")

// ErrBatchEmpty is the single aggregate error for a batch in which every
// identifier yielded no entity.
var ErrBatchEmpty = errors.New("no content found for any of the provided IDs")

// Orchestrator sequences single and batched lookups against the gateway and
// owns the client-side trackers. At most one lookup cycle is current at a
// time: starting a new one optimistically clears the previous result, and a
// per-lookup generation number guarantees a stale response is never applied
// over a newer one.
type Orchestrator struct {
	client GatewayClient
	state  *StateStore

	shareBase string

	mu         sync.Mutex
	generation uint64
	phase      Phase
	current    *Entity
	comparison []Entity
	currentID  string
	shareURL   string
	lastErr    string

	history   *HistoryTracker
	analytics *AnalyticsTracker
	budget    *RateBudget
}

// New returns an Orchestrator whose trackers are seeded from the persisted
// client state. shareBase is the base URL that share links project onto.
func New(client GatewayClient, state *StateStore, shareBase string) *Orchestrator {
	return &Orchestrator{
		client:    client,
		state:     state,
		shareBase: shareBase,
		history:   NewHistoryTracker(state.LoadHistory()),
		analytics: NewAnalyticsTracker(state.LoadAnalytics()),
		budget:    NewRateBudget(),
	}
}

// begin starts a new lookup cycle: bumps the generation, clears the previous
// result and error, and enters the loading phase.
func (o *Orchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.phase = PhaseLoading
	o.current = nil
	o.comparison = nil
	o.lastErr = ""
	return o.generation
}

// Lookup performs one single-item lookup. On success it records history and
// analytics, refreshes the rate budget from the response headers when both
// are present, mirrors the share URL, and persists client state. On failure
// the trackers are left untouched and the error message is published.
func (o *Orchestrator) Lookup(ctx context.Context, videoID string) (*Entity, error) {
	gen := o.begin()
	start := time.Now()

	res, err := o.client.Lookup(ctx, videoID)
	elapsed := time.Since(start)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		return nil, ErrSuperseded
	}

	if err != nil {
		o.phase = PhaseError
		o.lastErr = err.Error()
		return nil, err
	}

	ent := res.Envelope.First()
	if ent == nil {
		o.phase = PhaseError
		o.lastErr = ErrNoContent.Error()
		return nil, ErrNoContent
	}

	o.history.Add(videoID, ent.Title)
	o.analytics.Track(videoID, elapsed.Milliseconds())
	o.budget.Update(res.RateRemaining, res.RateLimit)

	o.phase = PhaseSuccess
	o.current = ent
	o.currentID = videoID
	if u, err := BuildShareURL(o.shareBase, videoID); err == nil {
		o.shareURL = u
	}
	o.persistLocked()
	return ent, nil
}

// LookupBatch performs a sequential batch lookup over at most MaxBatch
// identifiers. Identifiers that fail or resolve no entity are skipped; the
// batch fails with one aggregate error only when nothing resolved. One
// analytics sample is recorded for the whole pass, keyed by the comma-joined
// dispatched identifier list.
func (o *Orchestrator) LookupBatch(ctx context.Context, videoIDs []string) ([]Entity, error) {
	if len(videoIDs) > MaxBatch {
		videoIDs = videoIDs[:MaxBatch]
	}

	gen := o.begin()
	start := time.Now()

	var entities []Entity
	var lastRemaining, lastLimit string
	for _, id := range videoIDs {
		res, err := o.client.Lookup(ctx, id)
		if err != nil {
			continue
		}
		if ent := res.Envelope.First(); ent != nil {
			entities = append(entities, *ent)
			if res.RateRemaining != "" && res.RateLimit != "" {
				lastRemaining, lastLimit = res.RateRemaining, res.RateLimit
			}
		}
	}
	elapsed := time.Since(start)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		return nil, ErrSuperseded
	}

	if len(entities) == 0 {
		o.phase = PhaseError
		o.lastErr = ErrBatchEmpty.Error()
		return nil, ErrBatchEmpty
	}

	o.analytics.Track(strings.Join(videoIDs, ","), elapsed.Milliseconds())
	o.budget.Update(lastRemaining, lastLimit)

	o.phase = PhaseSuccess
	o.comparison = entities
	o.persistLocked()
	return entities, nil
}

// LookupFromShareURL parses a share URL and, when it carries an identifier,
// triggers the lookup for it. This is the only automatic lookup trigger.
func (o *Orchestrator) LookupFromShareURL(ctx context.Context, raw string) (*Entity, error) {
	id := VideoIDFromURL(raw)
	if id == "" {
		return nil, fmt.Errorf("share URL carries no video id")
	}
	return o.Lookup(ctx, id)
}

// Clear returns the orchestrator to idle and removes the share parameter.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.phase = PhaseIdle
	o.current = nil
	o.comparison = nil
	o.currentID = ""
	o.lastErr = ""
	if u, err := BuildShareURL(o.shareBase, ""); err == nil {
		o.shareURL = u
	}
}

// persistLocked rewrites the persisted client state. Callers hold o.mu.
func (o *Orchestrator) persistLocked() {
	o.state.SaveHistory(o.history.Entries())
	o.state.SaveAnalytics(o.analytics.Snapshot())
}

// Phase returns the current lookup-cycle phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Current returns the published entity of the last successful single lookup.
func (o *Orchestrator) Current() *Entity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Comparison returns the entities of the last successful batch lookup.
func (o *Orchestrator) Comparison() []Entity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Entity(nil), o.comparison...)
}

// Err returns the published error message, or "".
func (o *Orchestrator) Err() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// ShareURL returns the shareable URL mirroring the current lookup.
func (o *Orchestrator) ShareURL() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.shareURL
}

// History returns the recency list, newest first.
func (o *Orchestrator) History() []HistoryEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.history.Entries()
}

// FilterHistory returns history entries matching the given fragment.
func (o *Orchestrator) FilterHistory(match string) []HistoryEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.history.Filter(match)
}

// ClearHistory drops and re-persists the history.
func (o *Orchestrator) ClearHistory() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history.Clear()
	o.state.SaveHistory(o.history.Entries())
}

// Analytics returns the current analytics snapshot.
func (o *Orchestrator) Analytics() AnalyticsData {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.analytics.Snapshot()
}

// Budget returns the mirrored (remaining, limit) rate budget.
func (o *Orchestrator) Budget() (remaining, limit int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.budget.Snapshot()
}
