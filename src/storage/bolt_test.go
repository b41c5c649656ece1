package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBoltStorePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soulverse.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Put(context.Background(), "soul-universe", []byte("totalSouls: 3\n")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(context.Background(), "soul-universe")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "totalSouls: 3\n" {
		t.Fatalf("expected stored document, got %q", got)
	}
}

func TestBoltStoreGetMissingKey(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "soulverse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	got, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil value, got %q", got)
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soulverse.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Put(context.Background(), "k", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(context.Background(), "k", []byte("v2")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("expected v2, got %q", got)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestBoltStoreCancelledContext(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "soulverse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "k", []byte("v")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte("abc")
	if err := store.Put(context.Background(), "k", value); err != nil {
		t.Fatalf("put: %v", err)
	}
	value[0] = 'x'

	got, err := store.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if missing, _ := store.Get(context.Background(), "other"); missing != nil {
		t.Fatalf("expected nil for missing key, got %q", missing)
	}
}
