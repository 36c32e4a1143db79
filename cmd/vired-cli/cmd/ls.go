package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vired/internal/application/commands"
)

var lsAll bool

var lsCmd = &cobra.Command{
	Use:   "ls [dir]",
	Short: "Print a directory as an edit buffer",
	Long: `Print a directory the way it appears when edited. Save the output,
change it and feed it back with "vired-cli apply --from".

Examples:
  vired-cli ls
  vired-cli ls -a ~/Downloads > listing.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if lsAll {
			rt.Lister.SetShowHidden(true)
		}

		listCmd := commands.NewListCommand(GetSessions(), dirArg(args))
		result, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, line := range result.Lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&lsAll, "all", "a", false, "include dot files")
	rootCmd.AddCommand(lsCmd)
}
