// Package main implements the importfix CLI (importfix).
// It repairs relative import specifiers in TypeScript and JavaScript sources
// that stopped resolving after files were moved.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/cmd/importfix/commands"
)

var (
	version   = "dev"
	buildTime = ""
)

func main() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "importfix version %s\n", version)
			if buildTime != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", buildTime)
			}
		},
	}
	commands.RootCmd.AddCommand(versionCmd)

	commands.RootCmd.Flags().BoolP("version", "v", false, "Print version information")
	commands.RootCmd.SetVersionTemplate(`importfix version {{.Version}}
`)
	commands.RootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
