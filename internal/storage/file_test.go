package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	if err := store.Set(ctx, KeyToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, KeyRole, "user"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "tok" {
		t.Fatalf("expected %q, got %q", "tok", got)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	got, err := store.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("get on missing file: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestClearRemovesAllSessionKeys(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	for _, key := range SessionKeys {
		if err := store.Set(ctx, key, "value"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := Clear(ctx, store); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range SessionKeys {
		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if got != "" {
			t.Fatalf("expected %s cleared, got %q", key, got)
		}
	}
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewFileStore(path)
	got, err := store.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("get on corrupt snapshot: %v", err)
	}
	if got != "" {
		t.Fatalf("expected corrupt snapshot to read as absent, got %q", got)
	}

	// The next write replaces the corrupt file.
	if err := store.Set(ctx, KeyToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ = store.Get(ctx, KeyToken)
	if got != "tok" {
		t.Fatalf("expected %q after rewrite, got %q", "tok", got)
	}
}
