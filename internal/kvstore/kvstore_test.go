package kvstore

import (
	"path/filepath"
	"testing"
)

func TestMemStore_RoundTrip(t *testing.T) {
	t.Parallel()
	s := NewMemStore()

	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}
	s.Set("a", "1")
	s.Set("a", "2")
	if v, ok := s.Get("a"); !ok || v != "2" {
		t.Fatalf("got %q %v, want 2 true", v, ok)
	}
	s.Delete("a")
	if _, ok := s.Get("a"); ok {
		t.Fatal("expected miss after delete")
	}
	s.Delete("a") // no-op
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Set("viva.day.marker", "2026-08-31")
	s.Set("viva.day.marker", "2026-09-01")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()

	if v, ok := s2.Get("viva.day.marker"); !ok || v != "2026-09-01" {
		t.Fatalf("got %q %v after reopen", v, ok)
	}
	s2.Delete("viva.day.marker")
	if _, ok := s2.Get("viva.day.marker"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestUserKey(t *testing.T) {
	t.Parallel()
	if UserKey("42", "viva.water.2026-08-31") != "viva.water.2026-08-31.u42" {
		t.Fatalf("unexpected key: %s", UserKey("42", "viva.water.2026-08-31"))
	}
}
