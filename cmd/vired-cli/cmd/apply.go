package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vired/internal/adapters/editor"
	"vired/internal/application/commands"
)

var (
	fromPath    string
	applyYes    bool
	applyDryRun bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [dir] --from <file>",
	Short: "Show what an edited listing would change",
	Long: `Compare an edited listing with the directory as it is now and print
the operations it would perform. Nothing is changed.

Examples:
  vired-cli diff --from listing.txt
  vired-cli ls | sed 's/\.jpeg$/.jpg/' | vired-cli diff --from -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		lines, err := readFrom(cmd, fromPath)
		if err != nil {
			return err
		}

		previewCmd := commands.NewPreviewCommand(GetSessions(), dirArg(args), lines)
		result, err := previewCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply [dir] --from <file>",
	Short: "Apply an edited listing",
	Long: `Compare an edited listing with the directory as it is now and perform
the resulting renames, deletions and creations. Deleted nodes go to the trash.

Without --yes the pending operations are printed and confirmed first.
Reading the listing from stdin requires --yes.

Examples:
  vired-cli apply --from listing.txt
  vired-cli ls | sed 's/ /_/g' | vired-cli apply --from - --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if fromPath == "-" && !applyYes && !applyDryRun {
			return errors.New("reading from stdin requires --yes")
		}
		lines, err := readFrom(cmd, fromPath)
		if err != nil {
			return err
		}
		dir := dirArg(args)

		if applyDryRun || !applyYes {
			preview, err := commands.NewPreviewCommand(GetSessions(), dir, lines).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), preview.Message)
			if applyDryRun || preview.Preview.Empty() {
				return nil
			}
			ok, err := confirm(cmd, "Apply these changes?")
			if err != nil || !ok {
				return err
			}
		}

		result, err := commands.NewApplyCommand(GetSessions(), dir, lines, false).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		if result.Applied() {
			return batchError(result.Batch)
		}
		return nil
	},
}

// readFrom reads a listing from a file, or from stdin when path is "-"
func readFrom(cmd *cobra.Command, path string) ([]string, error) {
	if path == "" {
		return nil, errors.New("--from is required")
	}
	if path != "-" {
		return editor.ReadLines(path)
	}

	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return lines, nil
}

// confirm asks a yes/no question on the command's input
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return false, nil
	}
	return true, nil
}

func init() {
	for _, c := range []*cobra.Command{diffCmd, applyCmd} {
		c.Flags().StringVarP(&fromPath, "from", "f", "", `edited listing file, or "-" for stdin`)
		rootCmd.AddCommand(c)
	}
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "apply without asking")
	applyCmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false, "only print the operations")
}
