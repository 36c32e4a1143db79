package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vired/internal/application"
	"vired/internal/logging"
	"vired/internal/metrics"
	"vired/internal/ports"
)

var _ ports.TrashStore = (*Trash)(nil)

const trashTimeFormat = "20060102T150405.000000000"

// Trash implements ports.TrashStore as a plain directory
type Trash struct {
	fs     afero.Fs
	root   string
	index  ports.TrashIndex
	logger *zap.Logger
}

// TrashOption configures a Trash
type TrashOption func(*Trash)

// WithIndex records every trashed node in a catalog
func WithIndex(index ports.TrashIndex) TrashOption {
	return func(t *Trash) { t.index = index }
}

// NewTrash creates a trash rooted at root. The directory is created on demand.
func NewTrash(fs afero.Fs, root string, opts ...TrashOption) *Trash {
	t := &Trash{
		fs:     fs,
		root:   ExpandHome(root),
		logger: logging.Named("trash"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DefaultTrashDir is $XDG_DATA_HOME/vired/trash, or ~/.local/share/vired/trash
func DefaultTrashDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "vired", "trash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vired-trash")
	}
	return filepath.Join(home, ".local", "share", "vired", "trash")
}

// Root is the trash directory
func (t *Trash) Root() string {
	return t.root
}

// MoveToTrash moves path under a name no other trash entry uses
func (t *Trash) MoveToTrash(path string) (string, error) {
	if err := t.ensureRoot(); err != nil {
		return "", err
	}

	info, err := application.Lstat(t.fs, path)
	if err != nil {
		return "", fmt.Errorf("trash %s: %w", path, err)
	}

	trashPath, err := t.uniquePath(filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := t.move(path, trashPath); err != nil {
		return "", fmt.Errorf("trash %s: %w", path, err)
	}

	metrics.RecordTrash()
	t.logger.Debug("moved to trash", zap.String("path", path), zap.String("trash_path", trashPath))

	if t.index != nil {
		entry := ports.TrashEntry{
			OriginalPath: path,
			TrashPath:    trashPath,
			TrashedAt:    time.Now(),
			IsDir:        info.IsDir(),
		}
		if err := t.index.Record(entry); err != nil {
			t.logger.Warn("failed to record trash entry", zap.String("trash_path", trashPath), zap.Error(err))
		}
	}
	return trashPath, nil
}

// RestoreFromTrash moves a trashed node back to originalPath
func (t *Trash) RestoreFromTrash(trashPath, originalPath string) error {
	if !t.Exists(trashPath) {
		return fmt.Errorf("%s: %w", trashPath, ports.ErrTrashEntryMissing)
	}
	if _, err := application.Lstat(t.fs, originalPath); err == nil {
		return fmt.Errorf("%s: %w", originalPath, ports.ErrDestinationOccupied)
	}

	if err := t.move(trashPath, originalPath); err != nil {
		return fmt.Errorf("restore %s: %w", originalPath, err)
	}

	t.logger.Debug("restored from trash", zap.String("path", originalPath), zap.String("trash_path", trashPath))

	if t.index != nil {
		if err := t.index.MarkRestored(trashPath, time.Now()); err != nil {
			t.logger.Warn("failed to mark trash entry restored", zap.String("trash_path", trashPath), zap.Error(err))
		}
	}
	return nil
}

// Exists reports whether trashPath still holds a node
func (t *Trash) Exists(trashPath string) bool {
	_, err := application.Lstat(t.fs, trashPath)
	return err == nil
}

// Restore puts a cataloged entry back where it came from
func (t *Trash) Restore(trashPath string) (string, error) {
	if t.index == nil {
		return "", errors.New("trash catalog is disabled")
	}
	entry, err := t.index.Lookup(trashPath)
	if err != nil {
		return "", err
	}
	if err := t.RestoreFromTrash(entry.TrashPath, entry.OriginalPath); err != nil {
		return "", err
	}
	return entry.OriginalPath, nil
}

// List returns the nodes currently in the trash. Without a catalog only
// trash paths are known.
func (t *Trash) List() ([]ports.TrashEntry, error) {
	if t.index != nil {
		entries, err := t.index.List(false)
		if err != nil {
			return nil, err
		}
		present := entries[:0]
		for _, e := range entries {
			if t.Exists(e.TrashPath) {
				present = append(present, e)
			}
		}
		return present, nil
	}

	infos, err := afero.ReadDir(t.fs, t.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read trash: %w", err)
	}
	entries := make([]ports.TrashEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, ports.TrashEntry{
			TrashPath: filepath.Join(t.root, info.Name()),
			TrashedAt: info.ModTime(),
			IsDir:     info.IsDir(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TrashedAt.After(entries[j].TrashedAt) })
	return entries, nil
}

// ensureRoot runs before every move. The root may be purged from outside
// while the process is running.
func (t *Trash) ensureRoot() error {
	if err := t.fs.MkdirAll(t.root, 0o700); err != nil {
		return fmt.Errorf("failed to create trash directory: %w", err)
	}
	return nil
}

// uniquePath combines the base name, a timestamp and a random suffix.
// The existence check covers the rare clash anyway.
func (t *Trash) uniquePath(base string) (string, error) {
	base = strings.TrimLeft(base, ".")
	if base == "" {
		base = "unnamed"
	}
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("%s.%s.%s", base, time.Now().Format(trashTimeFormat), uuid.NewString()[:8])
		candidate := filepath.Join(t.root, name)
		if _, err := application.Lstat(t.fs, candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", errors.New("could not find a free trash name")
}

// move renames, falling back to copy and remove across devices
func (t *Trash) move(src, dst string) error {
	err := t.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	t.logger.Debug("cross-device move, copying", zap.String("src", src), zap.String("dst", dst))
	if err := application.CopyTree(t.fs, src, dst); err != nil {
		_ = t.fs.RemoveAll(dst)
		return err
	}
	return t.fs.RemoveAll(src)
}
