package storage

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsApplied(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if len(versions) == 0 {
		t.Fatal("no migrations applied")
	}
	if versions[0] != 1 {
		t.Errorf("first migration version = %d, want 1", versions[0])
	}
}

func TestCredentialUpsert(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetCredential("netflix_cookies"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetCredential on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.SetCredential("netflix_cookies", "first"); err != nil {
		t.Fatalf("SetCredential failed: %v", err)
	}
	v, err := s.GetCredential("netflix_cookies")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if v != "first" {
		t.Errorf("value = %q, want %q", v, "first")
	}

	// Last write wins.
	if err := s.SetCredential("netflix_cookies", "second"); err != nil {
		t.Fatalf("SetCredential (update) failed: %v", err)
	}
	v, err = s.GetCredential("netflix_cookies")
	if err != nil {
		t.Fatalf("GetCredential after update failed: %v", err)
	}
	if v != "second" {
		t.Errorf("value after update = %q, want %q", v, "second")
	}
}

func TestClientStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetState("search-history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetState on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.SetState("search-history", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	got, err := s.GetState("search-history")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("state = %s, want %s", got, `[{"id":"1"}]`)
	}

	// Full rewrite replaces the previous value.
	if err := s.SetState("search-history", []byte(`[]`)); err != nil {
		t.Fatalf("SetState (rewrite) failed: %v", err)
	}
	got, err = s.GetState("search-history")
	if err != nil {
		t.Fatalf("GetState after rewrite failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("state after rewrite = %s, want []", got)
	}
}
