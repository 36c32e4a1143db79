package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"vired/internal/application/commands"
	"vired/internal/ports"
)

var trashAll bool

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect and restore trashed nodes",
	Long: `Everything vired deletes is moved to its trash directory and recorded
in the trash catalog. These commands need the catalog (trash.index = true).`,
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trashed nodes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var (
			entries []ports.TrashEntry
			err     error
		)
		if trashAll {
			if rt.Catalog == nil {
				return errCatalogDisabled
			}
			entries, err = rt.Catalog.List(true)
		} else {
			entries, err = commands.NewTrashListCommand(rt.Trash).Execute(ctx)
		}
		if err != nil {
			return err
		}
		printTrash(cmd.OutOrStdout(), entries)
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore <trash-path>...",
	Short: "Move trashed nodes back to where they were deleted from",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		for _, trashPath := range args {
			restoreCmd := commands.NewRestoreCommand(rt.Trash, trashPath)
			result, err := restoreCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		}
		return nil
	},
}

var trashHistoryCmd = &cobra.Command{
	Use:   "history <original-path>",
	Short: "Show every time a path was trashed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if rt.Catalog == nil {
			return errCatalogDisabled
		}
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		entries, err := rt.Catalog.History(path)
		if err != nil {
			return err
		}
		printTrash(cmd.OutOrStdout(), entries)
		return nil
	},
}

var trashReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Forget catalog entries whose trash files are gone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rt.Catalog == nil {
			return errCatalogDisabled
		}
		n, err := rt.Catalog.Reconcile(rt.Trash.Exists)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale entries\n", n)
		return nil
	},
}

var errCatalogDisabled = errors.New("trash catalog is disabled (trash.index = false)")

func printTrash(w io.Writer, entries []ports.TrashEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Trash is empty.")
		return
	}
	for _, e := range entries {
		name := e.OriginalPath
		if e.IsDir {
			name += "/"
		}
		state := ""
		if e.RestoredAt != nil {
			state = " (restored)"
		}
		fmt.Fprintf(w, "%s  %s%s\n    %s\n", e.TrashedAt.Format("2006-01-02 15:04:05"), name, state, e.TrashPath)
	}
}

func init() {
	trashListCmd.Flags().BoolVarP(&trashAll, "all", "a", false, "include restored entries")
	trashCmd.AddCommand(trashListCmd, trashRestoreCmd, trashHistoryCmd, trashReconcileCmd)
	rootCmd.AddCommand(trashCmd)
}
