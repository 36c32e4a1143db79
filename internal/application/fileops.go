package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vired/internal/domain"
	"vired/internal/logging"
	"vired/internal/ports"
)

// DefaultVCSTimeout bounds each version control command
const DefaultVCSTimeout = 5 * time.Second

// FileOps performs filesystem mutations and records each one in an UndoLog
type FileOps struct {
	fs    afero.Fs
	trash ports.TrashStore
	log   *UndoLog
	mover *mover
}

// FileOpsOption configures FileOps
type FileOpsOption func(*FileOps)

// WithVersionControl delegates moves and removals of tracked paths to vcs
func WithVersionControl(vcs ports.VersionControl, timeout time.Duration) FileOpsOption {
	return func(f *FileOps) {
		if timeout <= 0 {
			timeout = DefaultVCSTimeout
		}
		f.mover.vcs = vcs
		f.mover.timeout = timeout
	}
}

// NewFileOps creates a FileOps bound to an undo log. The log shares the
// same mover so undoing a tracked rename goes back through version control.
func NewFileOps(fs afero.Fs, trash ports.TrashStore, log *UndoLog, opts ...FileOpsOption) *FileOps {
	f := &FileOps{
		fs:    fs,
		trash: trash,
		log:   log,
		mover: &mover{fs: fs, logger: logging.Named("fileops")},
	}
	for _, opt := range opts {
		opt(f)
	}
	log.mover = f.mover
	return f
}

// Log returns the undo log the operations are recorded in
func (f *FileOps) Log() *UndoLog {
	return f.log
}

// RenameWithUndo moves src to dst. An existing dst is never overwritten.
func (f *FileOps) RenameWithUndo(ctx context.Context, src, dst string) (domain.UndoOperation, error) {
	if exists(f.fs, dst) {
		return domain.UndoOperation{}, fmt.Errorf("rename %s: %w", dst, ErrDestinationOccupied)
	}
	if err := f.mover.move(ctx, src, dst); err != nil {
		return domain.UndoOperation{}, err
	}
	op := domain.NewRenameUndo(src, dst)
	f.log.Push(op)
	return op, nil
}

// DeleteWithUndo moves path into the trash. Tracked paths are also removed
// from the version control index; the content stays in the trash either way.
func (f *FileOps) DeleteWithUndo(ctx context.Context, path string) (domain.UndoOperation, error) {
	info, err := Lstat(f.fs, path)
	if err != nil {
		return domain.UndoOperation{}, fmt.Errorf("delete %s: %w", path, err)
	}

	f.mover.untrack(ctx, path)

	trashPath, err := f.trash.MoveToTrash(path)
	if err != nil {
		return domain.UndoOperation{}, fmt.Errorf("delete %s: %w", path, err)
	}
	op := domain.NewDeleteUndo(path, trashPath, info.IsDir())
	f.log.Push(op)
	return op, nil
}

// CopyWithUndo copies a file or directory tree to dst
func (f *FileOps) CopyWithUndo(_ context.Context, src, dst string) (domain.UndoOperation, error) {
	if exists(f.fs, dst) {
		return domain.UndoOperation{}, fmt.Errorf("copy %s: %w", dst, ErrDestinationOccupied)
	}
	if err := CopyTree(f.fs, src, dst); err != nil {
		return domain.UndoOperation{}, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	op := domain.NewCopyUndo(src, dst)
	f.log.Push(op)
	return op, nil
}

// MkdirWithUndo creates a single directory
func (f *FileOps) MkdirWithUndo(_ context.Context, path string) (domain.UndoOperation, error) {
	if err := mkdir(f.fs, path); err != nil {
		return domain.UndoOperation{}, err
	}
	op := domain.NewMkdirUndo(path)
	f.log.Push(op)
	return op, nil
}

// TouchWithUndo creates an empty file. An existing file is left alone and reported.
func (f *FileOps) TouchWithUndo(_ context.Context, path string) (domain.UndoOperation, error) {
	if err := touch(f.fs, path); err != nil {
		return domain.UndoOperation{}, err
	}
	op := domain.NewTouchUndo(path)
	f.log.Push(op)
	return op, nil
}

// mover renames and untracks paths, going through version control when the
// path is inside a repository
type mover struct {
	fs      afero.Fs
	vcs     ports.VersionControl
	timeout time.Duration
	logger  *zap.Logger
}

func (m *mover) move(ctx context.Context, src, dst string) error {
	if root, ok := m.repoRoot(ctx, src); ok {
		vctx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.vcs.Move(vctx, root, src, dst)
		cancel()
		if err == nil {
			m.logger.Debug("moved through version control", zap.String("src", src), zap.String("dst", dst))
			return nil
		}
		m.logger.Debug("version control move failed, using rename", zap.String("src", src), zap.Error(err))
	}

	if err := m.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("rename %s to %s: %w", src, dst, err)
	}
	return nil
}

func (m *mover) untrack(ctx context.Context, path string) {
	root, ok := m.repoRoot(ctx, path)
	if !ok {
		return
	}
	vctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.vcs.Remove(vctx, root, path); err != nil {
		m.logger.Warn("version control remove failed", zap.String("path", path), zap.Error(err))
	}
}

func (m *mover) repoRoot(ctx context.Context, path string) (string, bool) {
	if m == nil || m.vcs == nil {
		return "", false
	}
	vctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tracked, err := m.vcs.IsTracked(vctx, path)
	if err != nil || !tracked {
		return "", false
	}
	root, err := m.vcs.Root(vctx, path)
	if err != nil {
		return "", false
	}
	return root, true
}

func exists(fs afero.Fs, path string) bool {
	_, err := Lstat(fs, path)
	return err == nil
}

func mkdir(fs afero.Fs, path string) error {
	if exists(fs, path) {
		return fmt.Errorf("mkdir %s: %w", path, ErrDestinationOccupied)
	}
	if err := fs.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func touch(fs afero.Fs, path string) error {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("touch %s: %w", path, ErrDestinationOccupied)
		}
		return fmt.Errorf("touch %s: %w", path, err)
	}
	return f.Close()
}

// CopyTree copies src to dst, recursing into directories. Symlinks are
// recreated, not followed, when the filesystem supports them.
func CopyTree(fs afero.Fs, src, dst string) error {
	info, err := Lstat(fs, src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(fs, src, dst)
	case info.IsDir():
		if err := fs.Mkdir(dst, info.Mode().Perm()); err != nil {
			return err
		}
		children, err := afero.ReadDir(fs, src)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := CopyTree(fs, filepath.Join(src, child.Name()), filepath.Join(dst, child.Name())); err != nil {
				return err
			}
		}
		return nil
	default:
		return copyFile(fs, src, dst, info.Mode().Perm())
	}
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copySymlink(fs afero.Fs, src, dst string) error {
	reader, ok := fs.(afero.LinkReader)
	linker, ok2 := fs.(afero.Linker)
	if !ok || !ok2 {
		return fmt.Errorf("copy symlink %s: not supported by filesystem", src)
	}
	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return err
	}
	return linker.SymlinkIfPossible(target, dst)
}
