package commands

import (
	"context"

	"vired/internal/application"
	"vired/internal/domain"
)

// ListResult is a rendered directory listing
type ListResult struct {
	Handle string
	Dir    string
	Lines  []string
}

// ListCommand renders a directory the way it would appear in an edit buffer
type ListCommand struct {
	sessions *application.SessionManager
	Dir      string
}

// NewListCommand creates a new ListCommand
func NewListCommand(sessions *application.SessionManager, dir string) *ListCommand {
	return &ListCommand{
		sessions: sessions,
		Dir:      dir,
	}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context) (*ListResult, error) {
	if err := application.ValidateRequired("dir", c.Dir); err != nil {
		return nil, err
	}

	handle, err := c.sessions.Open(c.Dir)
	if err != nil {
		return nil, err
	}
	lines, err := c.sessions.Listing(ctx, handle)
	if err != nil {
		return nil, err
	}
	dir, _ := c.sessions.Dir(handle)

	return &ListResult{Handle: handle, Dir: dir, Lines: lines}, nil
}

// HistoryResult holds undo and redo stacks, most recent first
type HistoryResult struct {
	Undo []domain.UndoOperation
	Redo []domain.UndoOperation
}

// HistoryCommand reports the undo history of a directory's session
type HistoryCommand struct {
	sessions *application.SessionManager
	Dir      string
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(sessions *application.SessionManager, dir string) *HistoryCommand {
	return &HistoryCommand{
		sessions: sessions,
		Dir:      dir,
	}
}

// Execute runs the history command
func (c *HistoryCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	handle, err := c.sessions.Open(c.Dir)
	if err != nil {
		return nil, err
	}
	log, err := c.sessions.Log(handle)
	if err != nil {
		return nil, err
	}
	undo, redo := log.History()
	return &HistoryResult{Undo: undo, Redo: redo}, nil
}
