package ports

import (
	"errors"
	"time"
)

var (
	// ErrDestinationOccupied is returned when a restore target already exists
	ErrDestinationOccupied = errors.New("destination occupied")
	// ErrTrashEntryMissing is returned when a trash node has disappeared
	ErrTrashEntryMissing = errors.New("trash entry missing")
)

// TrashEntry is one node held in the trash
type TrashEntry struct {
	OriginalPath string
	TrashPath    string
	TrashedAt    time.Time
	IsDir        bool
	RestoredAt   *time.Time
}

// TrashStore moves nodes into and out of a holding area.
// Trash paths never collide and nothing is purged automatically.
type TrashStore interface {
	// MoveToTrash moves a file or directory subtree and returns its trash path
	MoveToTrash(path string) (string, error)

	// RestoreFromTrash moves a trashed node back.
	// Fails with ErrDestinationOccupied or ErrTrashEntryMissing.
	RestoreFromTrash(trashPath, originalPath string) error

	// Exists reports whether a trash path still holds a node
	Exists(trashPath string) bool

	// Root is the trash directory
	Root() string
}

// TrashIndex catalogs trash entries so they can be listed and restored later
type TrashIndex interface {
	Record(entry TrashEntry) error
	MarkRestored(trashPath string, at time.Time) error
	Lookup(trashPath string) (*TrashEntry, error)
	List(includeRestored bool) ([]TrashEntry, error)
	Close() error
}
