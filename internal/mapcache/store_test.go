package mapcache

import (
	"os"
	"path/filepath"
	"testing"

	"stashsync/internal/config"
)

// backends runs a test against both store implementations.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "cache.json"), nil),
		"sqlite": sqlite,
	}
}

func TestStorePutLookupRemove(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, found := store.Lookup("1"); found {
				t.Error("lookup on empty store should miss")
			}
			if err := store.Put("1", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if got, found := store.Lookup("1"); !found || got != "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
				t.Errorf("Lookup = %q, %v", got, found)
			}

			// Replacement keeps one entry per scene.
			if err := store.Put("1", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"); err != nil {
				t.Fatalf("Put replace failed: %v", err)
			}
			if got, _ := store.Lookup("1"); got != "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" {
				t.Errorf("replacement not applied: %q", got)
			}
			entries, err := store.List()
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("List returned %d entries, want 1", len(entries))
			}

			if err := store.Remove("1"); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if _, found := store.Lookup("1"); found {
				t.Error("lookup after remove should miss")
			}
			if err := store.Remove("1"); err != nil {
				t.Errorf("removing an unknown scene should not error: %v", err)
			}
		})
	}
}

func TestStoreRejectsEmptyIDs(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put("", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"); err == nil {
				t.Error("expected error for empty scene id")
			}
			if err := store.Put("1", ""); err == nil {
				t.Error("expected error for empty item id")
			}
		})
	}
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	first := NewFileStore(path, nil)
	if err := first.Put("9", "cccccccccccccccccccccccccccccccc"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second := NewFileStore(path, nil)
	if got, found := second.Lookup("9"); !found || got != "cccccccccccccccccccccccccccccccc" {
		t.Errorf("reloaded Lookup = %q, %v", got, found)
	}
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store := NewFileStore(path, nil)
	if _, found := store.Lookup("1"); found {
		t.Error("corrupt file should start empty")
	}
	if err := store.Put("1", "dddddddddddddddddddddddddddddddd"); err != nil {
		t.Fatalf("Put after corrupt load failed: %v", err)
	}
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := first.Put("5", "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	if got, found := second.Lookup("5"); !found || got != "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee" {
		t.Errorf("reloaded Lookup = %q, %v", got, found)
	}
}

func TestOpenDisabledCacheIsNoop(t *testing.T) {
	store, err := Open(config.Cache{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	if err := store.Put("1", "ffffffffffffffffffffffffffffffff"); err != nil {
		t.Fatalf("disabled Put should be a no-op: %v", err)
	}
	if _, found := store.Lookup("1"); found {
		t.Error("disabled cache should never hit")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(config.Cache{Enabled: true, Backend: "redis"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
