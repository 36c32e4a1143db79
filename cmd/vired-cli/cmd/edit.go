package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vired/internal/adapters/editor"
	"vired/internal/application"
	"vired/internal/application/commands"
)

var editYes bool

var editCmd = &cobra.Command{
	Use:   "edit [dir]",
	Short: "Edit a directory listing in $EDITOR",
	Long: `Open the directory listing in your editor. When the editor exits the
changes are shown and, once confirmed, applied. The listing is compared with
the directory as it was when the editor opened.

Examples:
  vired-cli edit
  vired-cli edit ~/Pictures --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sessions := GetSessions()

		handle, err := sessions.Open(dirArg(args))
		if err != nil {
			return err
		}
		buffer, err := sessions.BeginEdit(ctx, handle)
		if err != nil {
			return err
		}

		committed := false
		defer func() {
			if !committed {
				sessions.Cancel(handle)
			}
		}()

		lines, err := editor.EditLines(rt.Editor, buffer)
		if err != nil {
			return err
		}

		preview, err := sessions.Preview(handle, lines)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), commands.FormatPreview(preview))
		if preview.Empty() {
			return nil
		}
		if !editYes {
			ok, err := confirm(cmd, "Apply these changes?")
			if err != nil || !ok {
				return err
			}
		}

		committed = true
		result, err := sessions.Commit(ctx, handle, lines)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
		return batchError(result)
	},
}

func batchError(result *application.BatchResult) error {
	if result.HasFailures() {
		return errors.New("some operations failed")
	}
	return nil
}

func init() {
	editCmd.Flags().BoolVarP(&editYes, "yes", "y", false, "apply without asking")
	rootCmd.AddCommand(editCmd)
}
