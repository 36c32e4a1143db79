package ports

import (
	"context"

	"vired/internal/domain"
)

// DirectoryLister reads the entries of one directory.
// Entries come back in display order; the caller renders them with domain.Render.
type DirectoryLister interface {
	List(ctx context.Context, dir string) ([]domain.DirectoryEntry, error)
}
