package domain

import (
	"io/fs"
	"time"
)

// EntryKind classifies a directory entry
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
	KindSymlink
)

// String returns a human-readable name for the kind
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// DirectoryEntry is one node of a directory listing.
// It is a value type; listings hand out copies.
type DirectoryEntry struct {
	Name       string
	Path       string // Absolute path
	Kind       EntryKind
	Size       int64
	ModTime    time.Time
	Mode       fs.FileMode
	LinkTarget string // Only set for symlinks
}

// IsDir reports whether the entry is a directory
func (e DirectoryEntry) IsDir() bool {
	return e.Kind == KindDirectory
}

// KindFromMode derives the entry kind from file mode bits
func KindFromMode(mode fs.FileMode) EntryKind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDirectory
	default:
		return KindFile
	}
}
