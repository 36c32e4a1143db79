package ports

import "context"

// VersionControl delegates moves and removals to a version control system
// so tracked files keep their history.
type VersionControl interface {
	// IsTracked reports whether path lies inside a repository working tree
	IsTracked(ctx context.Context, path string) (bool, error)

	// Root returns the repository root containing path
	Root(ctx context.Context, path string) (string, error)

	// Move renames src to dst inside the repository rooted at root
	Move(ctx context.Context, root, src, dst string) error

	// Remove stops tracking path. The working tree copy is left alone.
	Remove(ctx context.Context, root, path string) error
}
