package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vired/internal/application"
)

// ApplyResult contains what an edited buffer turned into
type ApplyResult struct {
	Preview *application.Preview
	Batch   *application.BatchResult
	Message string
}

// Applied reports whether the filesystem was touched
func (r *ApplyResult) Applied() bool {
	return r.Batch != nil
}

// ApplyCommand diffs an edited buffer against the directory as it is now and,
// unless DryRun is set, executes the resulting operations.
type ApplyCommand struct {
	sessions *application.SessionManager
	Dir      string
	Lines    []string
	DryRun   bool
}

// NewApplyCommand creates a new ApplyCommand
func NewApplyCommand(sessions *application.SessionManager, dir string, lines []string, dryRun bool) *ApplyCommand {
	return &ApplyCommand{
		sessions: sessions,
		Dir:      dir,
		Lines:    lines,
		DryRun:   dryRun,
	}
}

// NewPreviewCommand creates an ApplyCommand that never executes
func NewPreviewCommand(sessions *application.SessionManager, dir string, lines []string) *ApplyCommand {
	return NewApplyCommand(sessions, dir, lines, true)
}

// Validate checks if the apply operation is valid
func (c *ApplyCommand) Validate() error {
	return application.ValidateRequired("dir", c.Dir)
}

// Execute runs the apply command
func (c *ApplyCommand) Execute(ctx context.Context) (*ApplyResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	handle, err := c.sessions.Open(c.Dir)
	if err != nil {
		return nil, err
	}
	if _, err := c.sessions.BeginEdit(ctx, handle); err != nil {
		return nil, err
	}

	preview, err := c.sessions.Preview(handle, c.Lines)
	if err != nil {
		return nil, c.abandon(handle, err)
	}

	if c.DryRun || preview.Empty() {
		if err := c.sessions.Cancel(handle); err != nil {
			return nil, err
		}
		return &ApplyResult{Preview: preview, Message: FormatPreview(preview)}, nil
	}

	batch, err := c.sessions.Commit(ctx, handle, c.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to apply: %w", err)
	}
	return &ApplyResult{Preview: preview, Batch: batch, Message: batch.Summary()}, nil
}

// abandon leaves edit mode after a failure, keeping both errors
func (c *ApplyCommand) abandon(handle string, err error) error {
	if cerr := c.sessions.Cancel(handle); cerr != nil {
		return errors.Join(err, fmt.Errorf("cancel edit: %w", cerr))
	}
	return err
}

// FormatPreview renders pending operations with their warnings and notes
func FormatPreview(p *application.Preview) string {
	if p.Empty() && len(p.Notes) == 0 {
		return "No changes."
	}

	var sb strings.Builder
	for _, op := range p.Ops {
		fmt.Fprintf(&sb, "%s\n", op)
	}
	for _, w := range p.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", w)
	}
	for _, n := range p.Notes {
		fmt.Fprintf(&sb, "note: %s\n", n)
	}
	if p.Empty() {
		sb.WriteString("No changes.\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
