package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vired/internal/application/commands"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>...",
	Short: "Create directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return create(cmd, args, true)
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <path>...",
	Short: "Create empty files",
	Long: `Create empty files. A path ending in a slash creates a directory.
Existing paths are an error; vired never truncates a file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return create(cmd, args, false)
	},
}

func create(cmd *cobra.Command, paths []string, dir bool) error {
	ctx := context.Background()
	for _, path := range paths {
		createCmd := commands.NewCreateCommand(GetSessions(), path, dir)
		result, err := createCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(touchCmd)
}
