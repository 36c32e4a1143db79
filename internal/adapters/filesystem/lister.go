package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/spf13/afero"

	"vired/internal/domain"
	"vired/internal/ports"
)

var _ ports.DirectoryLister = (*Lister)(nil)

// Lister implements ports.DirectoryLister on an afero filesystem
type Lister struct {
	fs         afero.Fs
	showHidden atomic.Bool
}

// ListerOption configures a Lister
type ListerOption func(*Lister)

// WithHidden includes dot files in listings
func WithHidden(show bool) ListerOption {
	return func(l *Lister) { l.showHidden.Store(show) }
}

// NewLister creates a new directory lister
func NewLister(fs afero.Fs, opts ...ListerOption) *Lister {
	l := &Lister{fs: fs}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ShowHidden reports whether dot files are listed
func (l *Lister) ShowHidden() bool {
	return l.showHidden.Load()
}

// SetShowHidden changes whether dot files are listed. Safe to call while a
// listing is in progress elsewhere.
func (l *Lister) SetShowHidden(show bool) {
	l.showHidden.Store(show)
}

// List returns the entries of dir, directories first, then by name
func (l *Lister) List(ctx context.Context, dir string) ([]domain.DirectoryEntry, error) {
	dir = ExpandHome(dir)

	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	showHidden := l.ShowHidden()
	entries := make([]domain.DirectoryEntry, 0, len(infos))
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !showHidden && strings.HasPrefix(info.Name(), ".") {
			continue
		}
		entries = append(entries, l.entry(dir, info))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
	return entries, nil
}

func (l *Lister) entry(dir string, info os.FileInfo) domain.DirectoryEntry {
	path := filepath.Join(dir, info.Name())
	info = l.lstat(path, info)

	e := domain.DirectoryEntry{
		Name:    info.Name(),
		Path:    path,
		Kind:    domain.KindFromMode(info.Mode()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}
	if e.Kind == domain.KindSymlink {
		if reader, ok := l.fs.(afero.LinkReader); ok {
			if target, err := reader.ReadlinkIfPossible(path); err == nil {
				e.LinkTarget = target
			}
		}
	}
	return e
}

// ReadDir may have followed symlinks; prefer the link's own info
func (l *Lister) lstat(path string, fallback os.FileInfo) os.FileInfo {
	if ls, ok := l.fs.(afero.Lstater); ok {
		if info, _, err := ls.LstatIfPossible(path); err == nil {
			return info
		}
	}
	return fallback
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
