package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// UndoKind tags an UndoOperation
type UndoKind int

const (
	UndoRename UndoKind = iota
	UndoDelete
	UndoCopy
	UndoMkdir
	UndoTouch
)

// String returns the undo kind name
func (k UndoKind) String() string {
	switch k {
	case UndoRename:
		return "rename"
	case UndoDelete:
		return "delete"
	case UndoCopy:
		return "copy"
	case UndoMkdir:
		return "mkdir"
	case UndoTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// UndoOperation records a reversible filesystem change.
//
// Field use by kind:
//   - Rename: Path is the old path, NewPath the new one
//   - Delete: Path, TrashPath, WasDir
//   - Copy:   Path is the source, NewPath the destination, TrashPath set after undo
//   - Mkdir:  Path
//   - Touch:  Path, TrashPath set when undo had to trash a non-empty file
type UndoOperation struct {
	Kind      UndoKind
	Timestamp time.Time
	Path      string
	NewPath   string
	TrashPath string
	WasDir    bool
}

// NewRenameUndo records a rename from oldPath to newPath
func NewRenameUndo(oldPath, newPath string) UndoOperation {
	return UndoOperation{Kind: UndoRename, Timestamp: time.Now(), Path: oldPath, NewPath: newPath}
}

// NewDeleteUndo records a node moved to trashPath
func NewDeleteUndo(path, trashPath string, wasDir bool) UndoOperation {
	return UndoOperation{Kind: UndoDelete, Timestamp: time.Now(), Path: path, TrashPath: trashPath, WasDir: wasDir}
}

// NewCopyUndo records a copy of source to dest
func NewCopyUndo(source, dest string) UndoOperation {
	return UndoOperation{Kind: UndoCopy, Timestamp: time.Now(), Path: source, NewPath: dest}
}

// NewMkdirUndo records a created directory
func NewMkdirUndo(path string) UndoOperation {
	return UndoOperation{Kind: UndoMkdir, Timestamp: time.Now(), Path: path}
}

// NewTouchUndo records a created empty file
func NewTouchUndo(path string) UndoOperation {
	return UndoOperation{Kind: UndoTouch, Timestamp: time.Now(), Path: path}
}

// Describe formats an undo operation for display. It has no side effects.
func Describe(op UndoOperation) string {
	switch op.Kind {
	case UndoRename:
		if filepath.Dir(op.Path) == filepath.Dir(op.NewPath) {
			return fmt.Sprintf("Rename %s → %s", filepath.Base(op.Path), filepath.Base(op.NewPath))
		}
		return fmt.Sprintf("Move %s → %s", op.Path, op.NewPath)
	case UndoDelete:
		if op.WasDir {
			return fmt.Sprintf("Delete directory %s", op.Path)
		}
		return fmt.Sprintf("Delete %s", op.Path)
	case UndoCopy:
		return fmt.Sprintf("Copy %s → %s", op.Path, op.NewPath)
	case UndoMkdir:
		return fmt.Sprintf("Create directory %s", op.Path)
	case UndoTouch:
		return fmt.Sprintf("Create file %s", op.Path)
	default:
		return "Unknown operation"
	}
}
