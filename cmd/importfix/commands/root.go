package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "importfix",
	Short: "importfix - Repair broken relative imports",
	Long: `importfix finds relative import specifiers that no longer resolve and
points them at the most plausible file that still exists.

Commands:
  fix         Repair imports in the source files
  apply       Apply a previously saved repair plan
  probe       Show how a single reference resolves
  init        Create a configuration interactively
  doctor      Check configuration and glob patterns

Use "importfix [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Config file (default: ./.importfix/config.yaml, then ~/.importfix/config.yaml)")
	RootCmd.PersistentFlags().Bool("verbose", false, "Log every reference, including those that already resolve")
	RootCmd.PersistentFlags().Bool("json-log", false, "Write log lines as JSON")

	// Add subcommands
	RootCmd.AddCommand(fixCmd)
	RootCmd.AddCommand(applyCmd)
	RootCmd.AddCommand(probeCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
}
