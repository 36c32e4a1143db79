package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vired/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "rm <path>...",
	Aliases: []string{"delete"},
	Short:   "Move files or directories to the trash",
	Long: `Move files or directories to the vired trash. Directories go with
everything inside them.

Use "vired-cli trash list" to find a trashed node and
"vired-cli trash restore" to put it back.

Examples:
  vired-cli rm notes.txt
  vired-cli rm build/ dist/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		for _, path := range args {
			deleteCmd := commands.NewDeleteCommand(GetSessions(), path)
			result, err := deleteCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
