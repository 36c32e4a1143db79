package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"vired/internal/application"
	"vired/internal/application/commands"
	"vired/internal/domain"
)

// RegisterReadTools adds the tools that never change the filesystem.
func RegisterReadTools(s *server.MCPServer, sessions *application.SessionManager, trash commands.TrashCatalog) {
	s.AddTool(listTool(), listHandler(sessions))
	s.AddTool(previewTool(), previewHandler(sessions))
	s.AddTool(historyTool(), historyHandler(sessions))
	s.AddTool(sessionsTool(), sessionsHandler(sessions))
	s.AddTool(trashListTool(), trashListHandler(trash))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("Render a directory as an editable listing. The first line is a header; every other line is one entry."),
		mcp.WithString("dir",
			mcp.Description("Directory to list"),
			mcp.Required(),
		),
	)
}

func listHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewListCommand(sessions, req.GetString("dir", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(strings.Join(result.Lines, "\n")), nil
	}
}

// --- preview ---

func previewTool() mcp.Tool {
	return mcp.NewTool("preview",
		mcp.WithDescription("Show the operations an edited buffer would perform. With a handle from begin_edit the buffer is compared to that frozen listing; with a dir it is compared to the directory as it is now."),
		mcp.WithString("buffer",
			mcp.Description("Edited listing, one entry per line"),
			mcp.Required(),
		),
		mcp.WithString("handle",
			mcp.Description("Session handle returned by begin_edit"),
		),
		mcp.WithString("dir",
			mcp.Description("Directory to compare against when no handle is given"),
		),
	)
}

func previewHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lines := splitBuffer(req.GetString("buffer", ""))

		if handle := req.GetString("handle", ""); handle != "" {
			preview, err := sessions.Preview(handle, lines)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(commands.FormatPreview(preview)), nil
		}

		result, err := commands.NewPreviewCommand(sessions, req.GetString("dir", ""), lines).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("List the undo and redo stacks for a directory, most recent first."),
		mcp.WithString("dir",
			mcp.Description("Directory whose session history to show"),
			mcp.Required(),
		),
	)
}

func historyHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewHistoryCommand(sessions, req.GetString("dir", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Undo) == 0 && len(result.Redo) == 0 {
			return mcp.NewToolResultText("No history."), nil
		}

		var sb strings.Builder
		writeOps(&sb, "undo", result.Undo)
		writeOps(&sb, "redo", result.Redo)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeOps(sb *strings.Builder, label string, ops []domain.UndoOperation) {
	for _, op := range ops {
		fmt.Fprintf(sb, "%s  %s  %s\n", label, op.Timestamp.Format(time.DateTime), domain.Describe(op))
	}
}

// --- sessions ---

func sessionsTool() mcp.Tool {
	return mcp.NewTool("sessions",
		mcp.WithDescription("List open directory sessions with their edit state and history depth."),
	)
}

func sessionsHandler(sessions *application.SessionManager) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos := sessions.Sessions()
		if len(infos) == 0 {
			return mcp.NewToolResultText("No sessions."), nil
		}
		var sb strings.Builder
		for _, info := range infos {
			state := "idle"
			if info.Editing {
				state = "editing"
			}
			fmt.Fprintf(&sb, "%s  %s  %s  undo=%d redo=%d\n", info.Handle, info.Dir, state, info.Undo, info.Redo)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- trash_list ---

func trashListTool() mcp.Tool {
	return mcp.NewTool("trash_list",
		mcp.WithDescription("List nodes currently held in the trash, newest first."),
	)
}

func trashListHandler(trash commands.TrashCatalog) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := commands.NewTrashListCommand(trash).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("Trash is empty."), nil
		}

		var sb strings.Builder
		for _, e := range entries {
			original := e.OriginalPath
			if original == "" {
				original = "?"
			}
			fmt.Fprintf(&sb, "%s  %s  %s\n", e.TrashedAt.Format(time.DateTime), e.TrashPath, original)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// splitBuffer turns tool text into buffer lines. A single trailing newline
// does not add an empty line.
func splitBuffer(buffer string) []string {
	buffer = strings.ReplaceAll(buffer, "\r\n", "\n")
	buffer = strings.TrimSuffix(buffer, "\n")
	if buffer == "" {
		return nil
	}
	return strings.Split(buffer, "\n")
}
