package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"vired/internal/application"
	"vired/internal/domain"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	Undo    domain.UndoOperation
	Message string
}

// RenameCommand renames a file or directory within its directory
type RenameCommand struct {
	sessions *application.SessionManager
	Path     string
	NewName  string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(sessions *application.SessionManager, path, newName string) *RenameCommand {
	return &RenameCommand{
		sessions: sessions,
		Path:     path,
		NewName:  newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	if err := application.ValidateRequired("name", c.NewName); err != nil {
		return err
	}
	return application.ValidateName(strings.TrimSpace(c.NewName))
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fileOps, path, err := openFileOps(c.sessions, c.Path)
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(filepath.Dir(path), strings.TrimSpace(c.NewName))
	undo, err := fileOps.RenameWithUndo(ctx, path, dst)
	if err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &RenameResult{
		Undo:    undo,
		Message: fmt.Sprintf("Renamed %s to %s", filepath.Base(path), filepath.Base(dst)),
	}, nil
}

// openFileOps resolves path and returns the file operations of the session
// for its parent directory
func openFileOps(sessions *application.SessionManager, path string) (*application.FileOps, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", path, err)
	}
	handle, err := sessions.Open(filepath.Dir(abs))
	if err != nil {
		return nil, "", err
	}
	fileOps, err := sessions.FileOps(handle)
	if err != nil {
		return nil, "", err
	}
	return fileOps, abs, nil
}
