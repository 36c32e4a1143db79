package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"vired/internal/application"
	"vired/internal/domain"
)

// CreateResult contains the result of a create operation
type CreateResult struct {
	Undo    domain.UndoOperation
	Message string
}

// CreateCommand creates an empty file, or a directory when Dir is set or
// the path ends in a slash
type CreateCommand struct {
	sessions *application.SessionManager
	Path     string
	Dir      bool
}

// NewCreateCommand creates a new CreateCommand
func NewCreateCommand(sessions *application.SessionManager, path string, dir bool) *CreateCommand {
	return &CreateCommand{
		sessions: sessions,
		Path:     path,
		Dir:      dir,
	}
}

// Validate checks if the create operation is valid
func (c *CreateCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	name := filepath.Base(strings.TrimRight(c.Path, "/"))
	return application.ValidateName(name)
}

// Execute runs the create command
func (c *CreateCommand) Execute(ctx context.Context) (*CreateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	isDir := c.Dir || strings.HasSuffix(c.Path, "/")
	fileOps, path, err := openFileOps(c.sessions, strings.TrimRight(c.Path, "/"))
	if err != nil {
		return nil, err
	}

	var undo domain.UndoOperation
	if isDir {
		undo, err = fileOps.MkdirWithUndo(ctx, path)
	} else {
		undo, err = fileOps.TouchWithUndo(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return &CreateResult{
		Undo:    undo,
		Message: domain.Describe(undo),
	}, nil
}
