package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"vired/internal/application"
	"vired/internal/application/commands"
)

// RegisterWriteTools adds the tools that change the filesystem or session state.
func RegisterWriteTools(s *server.MCPServer, sessions *application.SessionManager, trash commands.TrashCatalog) {
	s.AddTool(beginEditTool(), beginEditHandler(sessions))
	s.AddTool(commitTool(), commitHandler(sessions))
	s.AddTool(cancelTool(), cancelHandler(sessions))
	s.AddTool(applyTool(), applyHandler(sessions))
	s.AddTool(undoTool(), undoHandler(sessions, false))
	s.AddTool(redoTool(), undoHandler(sessions, true))
	s.AddTool(renameTool(), renameHandler(sessions))
	s.AddTool(deleteTool(), deleteHandler(sessions))
	s.AddTool(copyTool(), copyHandler(sessions))
	s.AddTool(mkdirTool(), createHandler(sessions, true))
	s.AddTool(touchTool(), createHandler(sessions, false))
	s.AddTool(restoreTool(), restoreHandler(trash))
}

// --- begin_edit ---

func beginEditTool() mcp.Tool {
	return mcp.NewTool("begin_edit",
		mcp.WithDescription("Freeze a directory listing for editing. Returns a handle line followed by the buffer to edit. Pass the edited buffer to commit."),
		mcp.WithString("dir",
			mcp.Description("Directory to edit"),
			mcp.Required(),
		),
	)
}

func beginEditHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dir := req.GetString("dir", "")
		if err := application.ValidateRequired("dir", dir); err != nil {
			return toolError(err)
		}

		handle, err := sessions.Open(dir)
		if err != nil {
			return toolError(err)
		}
		lines, err := sessions.BeginEdit(ctx, handle)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("handle: %s\n%s", handle, strings.Join(lines, "\n"))), nil
	}
}

// --- commit ---

func commitTool() mcp.Tool {
	return mcp.NewTool("commit",
		mcp.WithDescription("Apply an edited buffer to the directory frozen by begin_edit and leave edit mode."),
		mcp.WithString("handle",
			mcp.Description("Session handle returned by begin_edit"),
			mcp.Required(),
		),
		mcp.WithString("buffer",
			mcp.Description("Edited listing, one entry per line"),
			mcp.Required(),
		),
	)
}

func commitHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		handle := req.GetString("handle", "")
		if err := application.ValidateRequired("handle", handle); err != nil {
			return toolError(err)
		}

		result, err := sessions.Commit(ctx, handle, splitBuffer(req.GetString("buffer", "")))
		if err != nil {
			return toolError(err)
		}
		if result.HasFailures() {
			return mcp.NewToolResultError(result.Summary()), nil
		}
		return mcp.NewToolResultText(result.Summary()), nil
	}
}

// --- cancel ---

func cancelTool() mcp.Tool {
	return mcp.NewTool("cancel",
		mcp.WithDescription("Leave edit mode without changing anything."),
		mcp.WithString("handle",
			mcp.Description("Session handle returned by begin_edit"),
			mcp.Required(),
		),
	)
}

func cancelHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sessions.Cancel(req.GetString("handle", "")); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Edit cancelled."), nil
	}
}

// --- apply ---

func applyTool() mcp.Tool {
	return mcp.NewTool("apply",
		mcp.WithDescription("Compare an edited buffer to the directory as it is now and apply the difference in one step."),
		mcp.WithString("dir",
			mcp.Description("Directory the buffer was listed from"),
			mcp.Required(),
		),
		mcp.WithString("buffer",
			mcp.Description("Edited listing, one entry per line"),
			mcp.Required(),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Only report the operations"),
		),
	)
}

func applyHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewApplyCommand(sessions,
			req.GetString("dir", ""),
			splitBuffer(req.GetString("buffer", "")),
			req.GetBool("dry_run", false),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Applied() && result.Batch.HasFailures() {
			return mcp.NewToolResultError(result.Message), nil
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- undo / redo ---

func undoTool() mcp.Tool {
	return mcp.NewTool("undo",
		mcp.WithDescription("Reverse the most recent change made in a directory's session."),
		mcp.WithString("dir",
			mcp.Description("Directory whose session to undo in"),
			mcp.Required(),
		),
	)
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the most recently undone change in a directory's session."),
		mcp.WithString("dir",
			mcp.Description("Directory whose session to redo in"),
			mcp.Required(),
		),
	)
}

func undoHandler(sessions *application.SessionManager, redo bool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewUndoCommand(sessions, req.GetString("dir", ""))
		cmd.Redo = redo
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a file or directory in place. Refuses to overwrite an existing name."),
		mcp.WithString("path",
			mcp.Description("Path of the node to rename"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name, without directory"),
			mcp.Required(),
		),
	)
}

func renameHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewRenameCommand(sessions, req.GetString("path", ""), req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Move a file or directory to the trash. Undoable."),
		mcp.WithString("path",
			mcp.Description("Path to delete"),
			mcp.Required(),
		),
	)
}

func deleteHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteCommand(sessions, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- copy ---

func copyTool() mcp.Tool {
	return mcp.NewTool("copy",
		mcp.WithDescription("Copy a file or directory tree. An existing destination directory receives the copy under the source name."),
		mcp.WithString("source",
			mcp.Description("Path to copy"),
			mcp.Required(),
		),
		mcp.WithString("destination",
			mcp.Description("Target path or directory"),
			mcp.Required(),
		),
	)
}

func copyHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewCopyCommand(sessions, req.GetString("source", ""), req.GetString("destination", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- mkdir / touch ---

func mkdirTool() mcp.Tool {
	return mcp.NewTool("mkdir",
		mcp.WithDescription("Create an empty directory."),
		mcp.WithString("path",
			mcp.Description("Directory to create"),
			mcp.Required(),
		),
	)
}

func touchTool() mcp.Tool {
	return mcp.NewTool("touch",
		mcp.WithDescription("Create an empty file. Fails if the path exists."),
		mcp.WithString("path",
			mcp.Description("File to create"),
			mcp.Required(),
		),
	)
}

func createHandler(sessions *application.SessionManager, dir bool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewCreateCommand(sessions, req.GetString("path", ""), dir).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- restore ---

func restoreTool() mcp.Tool {
	return mcp.NewTool("restore",
		mcp.WithDescription("Move a trashed node back to where it was deleted from. Needs the trash catalog."),
		mcp.WithString("trash_path",
			mcp.Description("Trash path as shown by trash_list"),
			mcp.Required(),
		),
	)
}

func restoreHandler(trash commands.TrashCatalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewRestoreCommand(trash, req.GetString("trash_path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
