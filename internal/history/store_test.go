package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(t *testing.T, store *Store, e *Entry) {
	t.Helper()
	if err := store.Record(e); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
}

func TestOpenUsesDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()
}

func TestRecordAssignsID(t *testing.T) {
	store := setupTestStore(t)

	first := NewEntry(OpInstall, "chocolatey", "dev", "git", "2.41.0")
	first.MarkSuccess()
	record(t, store, first)

	second := NewEntry(OpInstall, "chocolatey", "dev", "vim", "9.0")
	second.Timestamp = first.Timestamp
	record(t, store, second)

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Errorf("IDs should be unique and set: %q, %q", first.ID, second.ID)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestList(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		e := NewEntry(OpInstall, "apt", "dev", "pkg"+string(rune('a'+i)), "")
		// Sub-second steps exercise key ordering across fraction widths.
		e.Timestamp = base.Add(time.Duration(i) * 110 * time.Millisecond)
		record(t, store, e)
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Timestamp.Before(entries[i].Timestamp) {
			t.Fatal("List() should return entries newest first")
		}
	}
	if entries[0].Package != "pkge" {
		t.Errorf("newest entry = %s, want pkge", entries[0].Package)
	}

	limited, err := store.List(3)
	if err != nil {
		t.Fatalf("List(3) error: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("expected 3 entries with limit, got %d", len(limited))
	}
}

func TestListPackage(t *testing.T) {
	store := setupTestStore(t)

	record(t, store, NewEntry(OpInstall, "apt", "dev", "git", "1"))
	record(t, store, NewEntry(OpInstall, "apt", "dev", "vim", "1"))
	record(t, store, NewEntry(OpUninstall, "apt", "dev", "git", ""))

	entries, err := store.ListPackage("git", 0)
	if err != nil {
		t.Fatalf("ListPackage() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 git entries, got %d", len(entries))
	}
	if entries[0].Operation != OpUninstall {
		t.Errorf("newest git entry should be the uninstall, got %s", entries[0].Operation)
	}
}

func TestGet(t *testing.T) {
	store := setupTestStore(t)

	entry := NewEntry(OpInstall, "apt", "prod", "vim", "")
	record(t, store, entry)

	retrieved, err := store.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if retrieved.Package != "vim" || retrieved.Environment != "prod" {
		t.Errorf("Get() returned wrong entry: %+v", retrieved)
	}

	_, err = store.Get("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestLast(t *testing.T) {
	store := setupTestStore(t)

	entry, err := store.Last()
	if err != nil {
		t.Fatalf("Last() on empty store error: %v", err)
	}
	if entry != nil {
		t.Error("Last() should return nil for empty store")
	}

	entry1 := NewEntry(OpInstall, "apt", "dev", "vim", "")
	record(t, store, entry1)

	entry2 := NewEntry(OpUninstall, "apt", "dev", "git", "")
	entry2.Timestamp = entry1.Timestamp.Add(time.Millisecond)
	record(t, store, entry2)

	last, err := store.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}
	if last.ID != entry2.ID {
		t.Errorf("Last() returned wrong entry: %s != %s", last.ID, entry2.ID)
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		record(t, store, NewEntry(OpInstall, "apt", "dev", "pkg", ""))
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 after Clear(), got %d", count)
	}
}

func TestClearKeepsIDsUnique(t *testing.T) {
	store := setupTestStore(t)

	first := NewEntry(OpInstall, "apt", "dev", "pkg", "")
	record(t, store, first)
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	second := NewEntry(OpInstall, "apt", "dev", "pkg", "")
	record(t, store, second)
	if second.ID == first.ID {
		t.Errorf("ID %s reused after Clear()", second.ID)
	}

	got, err := store.Get(second.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("Get() returned ID %s, want %s", got.ID, second.ID)
	}
	if _, err := store.Get(first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cleared entry still found: %v", err)
	}
}

func TestPrune(t *testing.T) {
	store := setupTestStore(t)

	old := NewEntry(OpInstall, "apt", "dev", "old-pkg", "")
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	record(t, store, old)

	record(t, store, NewEntry(OpInstall, "apt", "dev", "new-pkg", ""))

	deleted, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted entry, got %d", deleted)
	}

	entries, _ := store.List(0)
	if len(entries) != 1 || entries[0].Package != "new-pkg" {
		t.Errorf("expected only new-pkg to remain, got %+v", entries)
	}
}
