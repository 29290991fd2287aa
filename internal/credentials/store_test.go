package credentials

import (
	"errors"
	"testing"

	"github.com/okorban/vidmeta/internal/storage"
)

func TestResolveFallsBackWithoutStore(t *testing.T) {
	s := New(nil, "compiled-default")
	if got := s.Resolve(); got != "compiled-default" {
		t.Errorf("Resolve = %q, want %q", got, "compiled-default")
	}
}

func TestResolveFallsBackOnMiss(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db, "compiled-default")
	if got := s.Resolve(); got != "compiled-default" {
		t.Errorf("Resolve on empty store = %q, want fallback", got)
	}
}

func TestUpdateThenResolve(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db, "compiled-default")
	if err := s.Update("SecureNetflixId=abc"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := s.Resolve(); got != "SecureNetflixId=abc" {
		t.Errorf("Resolve = %q, want stored value", got)
	}

	// Last writer wins.
	if err := s.Update("SecureNetflixId=def"); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if got := s.Resolve(); got != "SecureNetflixId=def" {
		t.Errorf("Resolve = %q, want latest value", got)
	}
}

func TestUpdateWithoutStore(t *testing.T) {
	s := New(nil, "")
	if err := s.Update("x"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Update without store: err = %v, want ErrNoStore", err)
	}
}
