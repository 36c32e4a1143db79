package commands

import (
	"context"
	"fmt"

	"vired/internal/application"
	"vired/internal/domain"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	Undo    domain.UndoOperation
	Message string
}

// DeleteCommand moves a file or directory to the trash
type DeleteCommand struct {
	sessions *application.SessionManager
	Path     string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(sessions *application.SessionManager, path string) *DeleteCommand {
	return &DeleteCommand{
		sessions: sessions,
		Path:     path,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	return application.ValidateRequired("path", c.Path)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fileOps, path, err := openFileOps(c.sessions, c.Path)
	if err != nil {
		return nil, err
	}

	undo, err := fileOps.DeleteWithUndo(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", path, err)
	}

	return &DeleteResult{
		Undo:    undo,
		Message: fmt.Sprintf("Moved %s to trash", path),
	}, nil
}
