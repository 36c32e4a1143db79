package commands

import (
	"context"
	"fmt"

	"vired/internal/application"
	"vired/internal/ports"
)

// TrashCatalog lists and restores trashed nodes
type TrashCatalog interface {
	List() ([]ports.TrashEntry, error)
	Restore(trashPath string) (string, error)
}

// RestoreResult contains the result of a restore operation
type RestoreResult struct {
	TrashPath    string
	OriginalPath string
	Message      string
}

// RestoreCommand moves a trashed node back to where it was deleted from
type RestoreCommand struct {
	trash     TrashCatalog
	TrashPath string
}

// NewRestoreCommand creates a new RestoreCommand
func NewRestoreCommand(trash TrashCatalog, trashPath string) *RestoreCommand {
	return &RestoreCommand{
		trash:     trash,
		TrashPath: trashPath,
	}
}

// Validate checks if the restore operation is valid
func (c *RestoreCommand) Validate() error {
	return application.ValidateRequired("trash path", c.TrashPath)
}

// Execute runs the restore command
func (c *RestoreCommand) Execute(ctx context.Context) (*RestoreResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	original, err := c.trash.Restore(c.TrashPath)
	if err != nil {
		return nil, fmt.Errorf("failed to restore: %w", err)
	}

	return &RestoreResult{
		TrashPath:    c.TrashPath,
		OriginalPath: original,
		Message:      fmt.Sprintf("Restored %s", original),
	}, nil
}

// TrashListCommand lists what is currently held in the trash
type TrashListCommand struct {
	trash TrashCatalog
}

// NewTrashListCommand creates a new TrashListCommand
func NewTrashListCommand(trash TrashCatalog) *TrashListCommand {
	return &TrashListCommand{trash: trash}
}

// Execute runs the trash list command
func (c *TrashListCommand) Execute(ctx context.Context) ([]ports.TrashEntry, error) {
	return c.trash.List()
}
