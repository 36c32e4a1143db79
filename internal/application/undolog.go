package application

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vired/internal/domain"
	"vired/internal/logging"
	"vired/internal/metrics"
	"vired/internal/ports"
)

// MaxHistory is the default undo stack capacity
const MaxHistory = 100

// UndoLog is a bounded pair of undo and redo stacks.
// Undo and Redo either apply fully or leave both stacks as they were.
type UndoLog struct {
	mu       sync.Mutex
	fs       afero.Fs
	trash    ports.TrashStore
	mover    *mover
	capacity int
	undo     []domain.UndoOperation
	redo     []domain.UndoOperation
	logger   *zap.Logger
}

// NewUndoLog creates an empty log. capacity <= 0 means MaxHistory.
func NewUndoLog(fs afero.Fs, trash ports.TrashStore, capacity int) *UndoLog {
	if capacity <= 0 {
		capacity = MaxHistory
	}
	logger := logging.Named("undo")
	return &UndoLog{
		fs:       fs,
		trash:    trash,
		mover:    &mover{fs: fs, logger: logger},
		capacity: capacity,
		logger:   logger,
	}
}

// Push records a new operation and discards the redo history
func (l *UndoLog) Push(op domain.UndoOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pushUndo(op)
	l.redo = nil
}

func (l *UndoLog) pushUndo(op domain.UndoOperation) {
	l.undo = append(l.undo, op)
	if over := len(l.undo) - l.capacity; over > 0 {
		l.undo = append([]domain.UndoOperation(nil), l.undo[over:]...)
	}
}

// Undo reverses the most recent operation and returns it as it now sits on
// the redo stack
func (l *UndoLog) Undo(ctx context.Context) (domain.UndoOperation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undo) == 0 {
		return domain.UndoOperation{}, ErrNothingToUndo
	}
	op := l.undo[len(l.undo)-1]

	updated, err := l.invert(ctx, op)
	if err != nil {
		metrics.RecordUndo("undo", false)
		l.logger.Warn("undo failed", zap.String("op", domain.Describe(op)), zap.Error(err))
		return op, &UndoConflictError{Op: op, Reason: "undo", Err: err}
	}

	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, updated)
	metrics.RecordUndo("undo", true)
	l.logger.Info("undone", zap.String("op", domain.Describe(updated)))
	return updated, nil
}

// Redo re-applies the most recently undone operation
func (l *UndoLog) Redo(ctx context.Context) (domain.UndoOperation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redo) == 0 {
		return domain.UndoOperation{}, ErrNothingToRedo
	}
	op := l.redo[len(l.redo)-1]

	updated, err := l.replay(ctx, op)
	if err != nil {
		metrics.RecordUndo("redo", false)
		l.logger.Warn("redo failed", zap.String("op", domain.Describe(op)), zap.Error(err))
		return op, &UndoConflictError{Op: op, Reason: "redo", Err: err}
	}

	l.redo = l.redo[:len(l.redo)-1]
	l.pushUndo(updated)
	metrics.RecordUndo("redo", true)
	l.logger.Info("redone", zap.String("op", domain.Describe(updated)))
	return updated, nil
}

// CanUndo reports whether Undo has anything to reverse
func (l *UndoLog) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo) > 0
}

// CanRedo reports whether Redo has anything to re-apply
func (l *UndoLog) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo) > 0
}

// PeekUndo returns the operation Undo would reverse
func (l *UndoLog) PeekUndo() (domain.UndoOperation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undo) == 0 {
		return domain.UndoOperation{}, false
	}
	return l.undo[len(l.undo)-1], true
}

// PeekRedo returns the operation Redo would re-apply
func (l *UndoLog) PeekRedo() (domain.UndoOperation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.redo) == 0 {
		return domain.UndoOperation{}, false
	}
	return l.redo[len(l.redo)-1], true
}

// Len returns the sizes of the undo and redo stacks
func (l *UndoLog) Len() (undo, redo int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo), len(l.redo)
}

// History returns both stacks, most recent first
func (l *UndoLog) History() (undo, redo []domain.UndoOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return reversed(l.undo), reversed(l.redo)
}

// Clear drops all history without touching the filesystem
func (l *UndoLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undo = nil
	l.redo = nil
}

func reversed(ops []domain.UndoOperation) []domain.UndoOperation {
	out := make([]domain.UndoOperation, len(ops))
	for i, op := range ops {
		out[len(ops)-1-i] = op
	}
	return out
}

// invert applies the inverse of op
func (l *UndoLog) invert(ctx context.Context, op domain.UndoOperation) (domain.UndoOperation, error) {
	switch op.Kind {
	case domain.UndoRename:
		if exists(l.fs, op.Path) {
			return op, fmt.Errorf("%s: %w", op.Path, ErrDestinationOccupied)
		}
		return op, l.mover.move(ctx, op.NewPath, op.Path)

	case domain.UndoDelete:
		return op, l.trash.RestoreFromTrash(op.TrashPath, op.Path)

	case domain.UndoCopy:
		trashPath, err := l.trash.MoveToTrash(op.NewPath)
		if err != nil {
			return op, err
		}
		op.TrashPath = trashPath
		return op, nil

	case domain.UndoMkdir:
		empty, err := afero.IsEmpty(l.fs, op.Path)
		if err != nil {
			return op, err
		}
		if !empty {
			return op, fmt.Errorf("%s: %w", op.Path, ErrDirectoryNotEmpty)
		}
		return op, l.fs.Remove(op.Path)

	case domain.UndoTouch:
		info, err := Lstat(l.fs, op.Path)
		if err != nil {
			return op, err
		}
		if info.Mode().IsRegular() && info.Size() == 0 {
			op.TrashPath = ""
			return op, l.fs.Remove(op.Path)
		}
		trashPath, err := l.trash.MoveToTrash(op.Path)
		if err != nil {
			return op, err
		}
		op.TrashPath = trashPath
		return op, nil
	}
	return op, fmt.Errorf("unknown undo kind %d", op.Kind)
}

// replay re-applies op after it was undone. Delete always takes a fresh trip
// to the trash; Copy and Touch restore the trashed node when it is still there
// and otherwise rebuild it.
func (l *UndoLog) replay(ctx context.Context, op domain.UndoOperation) (domain.UndoOperation, error) {
	switch op.Kind {
	case domain.UndoRename:
		if exists(l.fs, op.NewPath) {
			return op, fmt.Errorf("%s: %w", op.NewPath, ErrDestinationOccupied)
		}
		return op, l.mover.move(ctx, op.Path, op.NewPath)

	case domain.UndoDelete:
		if !exists(l.fs, op.Path) {
			return op, fmt.Errorf("%s: %w", op.Path, os.ErrNotExist)
		}
		l.mover.untrack(ctx, op.Path)
		trashPath, err := l.trash.MoveToTrash(op.Path)
		if err != nil {
			return op, err
		}
		op.TrashPath = trashPath
		return op, nil

	case domain.UndoCopy:
		if op.TrashPath != "" && l.trash.Exists(op.TrashPath) {
			if err := l.trash.RestoreFromTrash(op.TrashPath, op.NewPath); err != nil {
				return op, err
			}
		} else {
			if exists(l.fs, op.NewPath) {
				return op, fmt.Errorf("%s: %w", op.NewPath, ErrDestinationOccupied)
			}
			l.logger.Debug("copy trash entry gone, copying source again", zap.String("src", op.Path))
			if err := CopyTree(l.fs, op.Path, op.NewPath); err != nil {
				return op, err
			}
		}
		op.TrashPath = ""
		return op, nil

	case domain.UndoMkdir:
		return op, mkdir(l.fs, op.Path)

	case domain.UndoTouch:
		if op.TrashPath != "" && l.trash.Exists(op.TrashPath) {
			if err := l.trash.RestoreFromTrash(op.TrashPath, op.Path); err != nil {
				return op, err
			}
		} else if err := touch(l.fs, op.Path); err != nil {
			return op, err
		}
		op.TrashPath = ""
		return op, nil
	}
	return op, fmt.Errorf("unknown undo kind %d", op.Kind)
}
