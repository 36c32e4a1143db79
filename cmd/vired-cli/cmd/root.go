package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vired/internal/application"
	"vired/internal/bootstrap"
	"vired/internal/config"
	"vired/internal/logging"
)

var (
	configPath string
	rt         *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "vired-cli",
	Short: "Edit directories as text from the command line",
	Long: `vired-cli renames, deletes and creates files by diffing an edited
directory listing against the directory on disk.

Deleted nodes go to the vired trash and can be restored with
"vired-cli trash restore".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.Log); err != nil {
			return err
		}
		rt = bootstrap.New(cfg, bootstrap.Options{})
		logging.With(logging.String("command", cmd.CommandPath())).Debug("running",
			logging.String("config", cfg.File), logging.Bool("catalog", rt.Catalog != nil))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt == nil {
			return nil
		}
		logging.Sync()
		return rt.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file")
}

// GetSessions returns the initialized session manager
func GetSessions() *application.SessionManager {
	return rt.Sessions
}

// dirArg returns the directory argument, defaulting to the start directory
func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.StartDir()
}
