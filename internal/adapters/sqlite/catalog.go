package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vired/internal/ports"
)

const schemaVersion = "1"

// Catalog implements ports.TrashIndex using SQLite
type Catalog struct {
	db     *sql.DB
	dbPath string
}

// Ensure Catalog implements TrashIndex
var _ ports.TrashIndex = (*Catalog)(nil)

// Open opens or creates the catalog database at dbPath
func Open(dbPath string) (*Catalog, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS trash_entries (
			trash_path TEXT PRIMARY KEY,
			original_path TEXT NOT NULL,
			trashed_at INTEGER NOT NULL,
			is_dir INTEGER NOT NULL,
			restored_at INTEGER
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_trash_original ON trash_entries(original_path);
		CREATE INDEX IF NOT EXISTS idx_trash_trashed_at ON trash_entries(trashed_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	c := &Catalog{db: db, dbPath: dbPath}
	if err := c.updateMeta(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	return c, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path is the database file
func (c *Catalog) Path() string {
	return c.dbPath
}

func (c *Catalog) updateMeta() error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// Record adds a trashed node
func (c *Catalog) Record(entry ports.TrashEntry) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO trash_entries (trash_path, original_path, trashed_at, is_dir, restored_at)
		VALUES (?, ?, ?, ?, NULL)
	`, entry.TrashPath, entry.OriginalPath, entry.TrashedAt.UnixNano(), entry.IsDir)
	if err != nil {
		return fmt.Errorf("failed to record trash entry: %w", err)
	}
	return nil
}

// MarkRestored stamps an entry as moved back out of the trash
func (c *Catalog) MarkRestored(trashPath string, at time.Time) error {
	res, err := c.db.Exec(`UPDATE trash_entries SET restored_at = ? WHERE trash_path = ?`, at.UnixNano(), trashPath)
	if err != nil {
		return fmt.Errorf("failed to mark restored: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", trashPath, ports.ErrTrashEntryMissing)
	}
	return nil
}

// Lookup returns the entry stored under trashPath
func (c *Catalog) Lookup(trashPath string) (*ports.TrashEntry, error) {
	row := c.db.QueryRow(`
		SELECT trash_path, original_path, trashed_at, is_dir, restored_at
		FROM trash_entries WHERE trash_path = ?
	`, trashPath)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", trashPath, ports.ErrTrashEntryMissing)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns entries, newest first
func (c *Catalog) List(includeRestored bool) ([]ports.TrashEntry, error) {
	query := `
		SELECT trash_path, original_path, trashed_at, is_dir, restored_at
		FROM trash_entries`
	if !includeRestored {
		query += ` WHERE restored_at IS NULL`
	}
	query += ` ORDER BY trashed_at DESC`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trash entries: %w", err)
	}
	defer rows.Close()

	var entries []ports.TrashEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// History returns every entry that was trashed from originalPath, newest first
func (c *Catalog) History(originalPath string) ([]ports.TrashEntry, error) {
	rows, err := c.db.Query(`
		SELECT trash_path, original_path, trashed_at, is_dir, restored_at
		FROM trash_entries WHERE original_path = ?
		ORDER BY trashed_at DESC
	`, originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []ports.TrashEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Reconcile drops catalog rows whose trash node no longer exists. The trash
// directory itself is never touched.
func (c *Catalog) Reconcile(exists func(trashPath string) bool) (int, error) {
	entries, err := c.List(false)
	if err != nil {
		return 0, err
	}

	tx, err := c.beginTx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	removed := 0
	for _, e := range entries {
		if exists(e.TrashPath) {
			continue
		}
		if err := tx.deleteEntry(e.TrashPath); err != nil {
			return 0, err
		}
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*ports.TrashEntry, error) {
	var (
		entry      ports.TrashEntry
		trashedAt  int64
		isDir      bool
		restoredAt sql.NullInt64
	)
	if err := s.Scan(&entry.TrashPath, &entry.OriginalPath, &trashedAt, &isDir, &restoredAt); err != nil {
		return nil, err
	}
	entry.TrashedAt = time.Unix(0, trashedAt)
	entry.IsDir = isDir
	if restoredAt.Valid {
		t := time.Unix(0, restoredAt.Int64)
		entry.RestoredAt = &t
	}
	return &entry, nil
}
