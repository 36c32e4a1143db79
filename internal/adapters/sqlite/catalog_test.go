package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vired/internal/ports"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "trash.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalog_RecordAndLookup(t *testing.T) {
	c := openTestCatalog(t)
	at := time.Date(2025, 3, 7, 9, 41, 0, 0, time.UTC)

	entry := ports.TrashEntry{
		OriginalPath: "/work/src",
		TrashPath:    "/trash/src.20250307T094100.abcd1234",
		TrashedAt:    at,
		IsDir:        true,
	}
	if err := c.Record(entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := c.Lookup(entry.TrashPath)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.OriginalPath != "/work/src" || !got.IsDir {
		t.Errorf("unexpected entry %+v", got)
	}
	if !got.TrashedAt.Equal(at) {
		t.Errorf("expected trashed at %v, got %v", at, got.TrashedAt)
	}
	if got.RestoredAt != nil {
		t.Error("expected entry not restored")
	}
}

func TestCatalog_LookupMissing(t *testing.T) {
	c := openTestCatalog(t)
	if _, err := c.Lookup("/trash/nothing"); !errors.Is(err, ports.ErrTrashEntryMissing) {
		t.Errorf("expected ErrTrashEntryMissing, got %v", err)
	}
}

func TestCatalog_ListAndRestore(t *testing.T) {
	c := openTestCatalog(t)
	base := time.Now()

	for i, name := range []string{"a", "b", "c"} {
		err := c.Record(ports.TrashEntry{
			OriginalPath: "/work/" + name,
			TrashPath:    "/trash/" + name,
			TrashedAt:    base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	if err := c.MarkRestored("/trash/b", time.Now()); err != nil {
		t.Fatalf("MarkRestored failed: %v", err)
	}

	active, err := c.List(false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 2 || active[0].TrashPath != "/trash/c" || active[1].TrashPath != "/trash/a" {
		t.Errorf("expected c then a, got %+v", active)
	}

	all, err := c.List(true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries including restored, got %d", len(all))
	}
	if all[1].RestoredAt == nil {
		t.Error("expected b to carry a restore time")
	}

	if err := c.MarkRestored("/trash/zzz", time.Now()); !errors.Is(err, ports.ErrTrashEntryMissing) {
		t.Errorf("expected ErrTrashEntryMissing, got %v", err)
	}
}

func TestCatalog_History(t *testing.T) {
	c := openTestCatalog(t)
	now := time.Now()

	c.Record(ports.TrashEntry{OriginalPath: "/work/a", TrashPath: "/trash/a.1", TrashedAt: now})
	c.Record(ports.TrashEntry{OriginalPath: "/work/a", TrashPath: "/trash/a.2", TrashedAt: now.Add(time.Second)})
	c.Record(ports.TrashEntry{OriginalPath: "/work/b", TrashPath: "/trash/b.1", TrashedAt: now})

	history, err := c.History("/work/a")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 || history[0].TrashPath != "/trash/a.2" {
		t.Errorf("expected two entries newest first, got %+v", history)
	}
}

func TestCatalog_Reconcile(t *testing.T) {
	c := openTestCatalog(t)
	now := time.Now()
	c.Record(ports.TrashEntry{OriginalPath: "/work/a", TrashPath: "/trash/a", TrashedAt: now})
	c.Record(ports.TrashEntry{OriginalPath: "/work/b", TrashPath: "/trash/b", TrashedAt: now})

	removed, err := c.Reconcile(func(p string) bool { return p == "/trash/a" })
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 row removed, got %d", removed)
	}

	entries, _ := c.List(true)
	if len(entries) != 1 || entries[0].TrashPath != "/trash/a" {
		t.Errorf("expected only /trash/a left, got %+v", entries)
	}
}

func TestCatalog_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trash.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Record(ports.TrashEntry{OriginalPath: "/w/x", TrashPath: "/t/x", TrashedAt: time.Now()}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Lookup("/t/x"); err != nil {
		t.Errorf("expected entry to survive reopen: %v", err)
	}
}
