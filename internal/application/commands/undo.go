package commands

import (
	"context"
	"fmt"

	"vired/internal/application"
	"vired/internal/domain"
)

// UndoResult contains the operation that was reversed or re-applied
type UndoResult struct {
	Op      domain.UndoOperation
	Message string
}

// UndoCommand undoes, or with Redo set re-applies, the latest change made
// from a directory's session
type UndoCommand struct {
	sessions *application.SessionManager
	Dir      string
	Redo     bool
}

// NewUndoCommand creates a new UndoCommand
func NewUndoCommand(sessions *application.SessionManager, dir string) *UndoCommand {
	return &UndoCommand{sessions: sessions, Dir: dir}
}

// NewRedoCommand creates an UndoCommand that redoes
func NewRedoCommand(sessions *application.SessionManager, dir string) *UndoCommand {
	return &UndoCommand{sessions: sessions, Dir: dir, Redo: true}
}

// Execute runs the undo command
func (c *UndoCommand) Execute(ctx context.Context) (*UndoResult, error) {
	if err := application.ValidateRequired("dir", c.Dir); err != nil {
		return nil, err
	}

	handle, err := c.sessions.Open(c.Dir)
	if err != nil {
		return nil, err
	}

	if c.Redo {
		op, err := c.sessions.Redo(ctx, handle)
		if err != nil {
			return nil, err
		}
		return &UndoResult{Op: op, Message: fmt.Sprintf("Redid: %s", domain.Describe(op))}, nil
	}

	op, err := c.sessions.Undo(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &UndoResult{Op: op, Message: fmt.Sprintf("Undid: %s", domain.Describe(op))}, nil
}
