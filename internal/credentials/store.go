// Package credentials holds the single mutable upstream session credential.
//
// The credential is a raw cookie header string. Consistency is explicitly
// last-writer-wins: updates are rare, operator-driven, and never concurrent
// with each other in practice.
package credentials

import (
	"errors"

	"github.com/okorban/vidmeta/internal/storage"
)

// DefaultCookies is the compiled-in fallback used when no durable store is
// bound or the stored value is absent. Empty by default; real deployments set
// the credential through the gateway's update endpoint.
const DefaultCookies = ""

// storeKey namespaces the credential inside the durable store.
const storeKey = "netflix_cookies"

// ErrNoStore is returned by Update when no durable store is bound.
var ErrNoStore = errors.New("credential store not configured")

// Store resolves and updates the upstream session credential.
type Store struct {
	db       *storage.Store // nil when the deployment has no durable binding
	fallback string
}

// New returns a Store backed by db. db may be nil, in which case Resolve
// always returns fallback and Update fails with ErrNoStore.
func New(db *storage.Store, fallback string) *Store {
	return &Store{db: db, fallback: fallback}
}

// Resolve returns the current credential. It never fails: store misses and
// read errors degrade to the compiled fallback so metadata retrieval keeps
// working through storage hiccups.
func (s *Store) Resolve() string {
	if s.db == nil {
		return s.fallback
	}
	v, err := s.db.GetCredential(storeKey)
	if err != nil || v == "" {
		return s.fallback
	}
	return v
}

// Update overwrites the stored credential. Write failures are surfaced,
// unlike read failures, so a misconfigured deployment is visible to the
// operator updating the credential.
func (s *Store) Update(value string) error {
	if s.db == nil {
		return ErrNoStore
	}
	return s.db.SetCredential(storeKey, value)
}
