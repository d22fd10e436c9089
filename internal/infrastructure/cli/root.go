package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "flowplan",
	Version: Version,
	Short:   "A dependency-aware task scheduler for project planning",
	Long: `Flowplan builds a dependency graph over your project's tasks,
computes a critical-path schedule, and tracks drift against frozen
baselines through a phased planning workflow.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "workspace directory (defaults to the current directory)")
}
