package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vired/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a file or directory in place",
	Long: `Rename a file or directory within its parent directory. Inside a git
working tree tracked files are renamed with git mv.

Examples:
  vired-cli rename IMG_0001.jpeg beach.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		renameCmd := commands.NewRenameCommand(GetSessions(), args[0], args[1])
		result, err := renameCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "cp <source> <destination>",
	Short: "Copy a file or directory",
	Long: `Copy a file or directory tree. When the destination is an existing
directory the copy is placed inside it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		copyCmd := commands.NewCopyCommand(GetSessions(), args[0], args[1])
		result, err := copyCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(copyCmd)
}
