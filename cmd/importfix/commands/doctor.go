package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/internal/healthcheck"
	"github.com/l3aro/importfix/pkg/extractor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and glob patterns",
	Long: `Shows which configuration file is in effect and checks that the source and
imports globs are set, valid and match files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath, err := loadConfigWithPath(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		result, err := healthcheck.Check(cfg, "", configPath, configPath)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		displayDoctorResult(cmd.OutOrStdout(), result)

		if !result.OK() {
			return fmt.Errorf("health check failed: configuration cannot start a repair run")
		}
		return nil
	},
}

func displayDoctorResult(w io.Writer, result *healthcheck.HealthCheckResult) {
	if result.EffectivePath == "" {
		fmt.Fprintln(w, "Config: none found, using defaults and environment")
	} else {
		fmt.Fprintf(w, "Config: %s (%s)\n", result.EffectivePath, result.EffectiveScope)
	}

	displayGlobStatus(w, "Source", result.Source)
	displayGlobStatus(w, "Imports", result.Imports)
}

func displayGlobStatus(w io.Writer, name string, s healthcheck.GlobStatus) {
	fmt.Fprintf(w, "\n%s globs: %s\n", name, s.Status)
	if len(s.Patterns) > 0 {
		fmt.Fprintf(w, "  Patterns: %s\n", strings.Join(s.Patterns, ", "))
	}
	if s.Status == "ready" || s.Status == "empty" {
		fmt.Fprintf(w, "  Matches: %d\n", s.Matches)
	}
	if s.Unsupported > 0 {
		fmt.Fprintf(w, "  Not parseable: %d (supported: %s)\n", s.Unsupported, strings.Join(extractor.SupportedExtensions(), " "))
	}
	if s.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", s.Error)
	}
}
