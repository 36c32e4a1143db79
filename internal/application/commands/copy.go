package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vired/internal/application"
	"vired/internal/domain"
)

// CopyResult contains the result of a copy operation
type CopyResult struct {
	Undo    domain.UndoOperation
	Message string
}

// CopyCommand copies a file or directory tree. When Dest is an existing
// directory the source is copied into it under its own name.
type CopyCommand struct {
	sessions *application.SessionManager
	Source   string
	Dest     string
}

// NewCopyCommand creates a new CopyCommand
func NewCopyCommand(sessions *application.SessionManager, source, dest string) *CopyCommand {
	return &CopyCommand{
		sessions: sessions,
		Source:   source,
		Dest:     dest,
	}
}

// Validate checks if the copy operation is valid
func (c *CopyCommand) Validate() error {
	if err := application.ValidateRequired("source", c.Source); err != nil {
		return err
	}
	if err := application.ValidateRequired("destination", c.Dest); err != nil {
		return err
	}
	if filepath.Clean(c.Source) == filepath.Clean(c.Dest) {
		return &application.ValidationError{
			Path:    c.Dest,
			Field:   "destination",
			Message: "source and destination are the same",
		}
	}
	return nil
}

// Execute runs the copy command
func (c *CopyCommand) Execute(ctx context.Context) (*CopyResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	src, err := filepath.Abs(c.Source)
	if err != nil {
		return nil, err
	}
	dst, err := filepath.Abs(c.Dest)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	fileOps, dst, err := openFileOps(c.sessions, dst)
	if err != nil {
		return nil, err
	}

	undo, err := fileOps.CopyWithUndo(ctx, src, dst)
	if err != nil {
		return nil, fmt.Errorf("failed to copy: %w", err)
	}

	return &CopyResult{
		Undo:    undo,
		Message: domain.Describe(undo),
	}, nil
}
