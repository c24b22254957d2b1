package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/internal/config"
	"github.com/l3aro/importfix/internal/scanner"
	"github.com/l3aro/importfix/pkg/fixer"
	"github.com/l3aro/importfix/pkg/plan"
	"github.com/l3aro/importfix/pkg/resolve"
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix [flags]",
	Short: "Repair broken relative imports",
	Long: `Parses every file matched by --source, checks each relative import, and
rewrites the ones that no longer resolve to the closest file matched by
--imports with the same name.

Glob patterns use doublestar syntax, for example "src/**/*.{ts,tsx}".`,
	Example: `  importfix fix -s "src/**/*.ts" -i "src/**/*.{ts,tsx}"
  importfix fix -s "src/**/*.ts" -i "**/*.ts" --dry-run --plan-out plan.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfigWithPath(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := applyFixFlags(cmd, cfg); err != nil {
			return err
		}
		planOut, _ := cmd.Flags().GetString("plan-out")
		showDiff, _ := cmd.Flags().GetBool("diff")
		if showDiff && !cfg.DryRun {
			return fmt.Errorf("--diff requires --dry-run")
		}
		return runFix(cmd, cfg, planOut, showDiff)
	},
}

func init() {
	// StringArray rather than StringSlice: brace globs contain commas.
	fixCmd.Flags().StringArrayP("source", "s", nil, "Glob of files whose imports are repaired (repeatable)")
	fixCmd.Flags().StringArrayP("imports", "i", nil, "Glob of files imports may be redirected to (repeatable)")
	fixCmd.Flags().StringArray("exclude-dir", nil, "Directory name never matched by either glob (repeatable)")
	fixCmd.Flags().BoolP("dry-run", "d", false, "Report changes without writing files")
	fixCmd.Flags().Bool("keep-extensions", false, "Keep .ts/.tsx extensions in rewritten imports")
	fixCmd.Flags().Int("concurrency", 0, "Number of files processed at once")
	fixCmd.Flags().String("plan-out", "", "Write the changes to a plan file")
	fixCmd.Flags().String("plan-format", "", "Plan encoding: msgpack or json (default from extension)")
	fixCmd.Flags().Bool("diff", false, "Print the changed lines of every file (requires --dry-run)")
}

// applyFixFlags overlays explicitly set flags on the loaded config.
func applyFixFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source, _ = flags.GetStringArray("source")
	}
	if flags.Changed("imports") {
		cfg.Imports, _ = flags.GetStringArray("imports")
	}
	if flags.Changed("exclude-dir") {
		cfg.ExcludeDirs, _ = flags.GetStringArray("exclude-dir")
	}
	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("keep-extensions") {
		keep, _ := flags.GetBool("keep-extensions")
		cfg.StripExtensions = !keep
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("plan-format") {
		format, _ := flags.GetString("plan-format")
		cfg.PlanFormat = config.PlanFormat(format)
	} else if out, _ := flags.GetString("plan-out"); out != "" {
		cfg.PlanFormat = config.PlanFormat(plan.FormatForPath(out))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.RequireGlobs()
}

func runFix(cmd *cobra.Command, cfg *config.Config, planOut string, showDiff bool) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cfg)

	sc := scanner.New(scanner.Options{ExcludeDirs: cfg.ExcludeDirs})
	sources, err := sc.Expand(cfg.Source...)
	if err != nil {
		return fmt.Errorf("expanding source globs: %w", err)
	}
	fmt.Fprintf(out, "Found %d source code files\n", len(sources))

	universe, err := sc.Expand(cfg.Imports...)
	if err != nil {
		return fmt.Errorf("expanding imports globs: %w", err)
	}
	fmt.Fprintf(out, "Found %d possible imports\n", len(universe))

	if len(sources) == 0 {
		logger.Warn("source globs matched no files", "patterns", cfg.Source)
		return nil
	}

	f := fixer.New(resolve.NewEngine(universe), logger, fixer.Options{
		DryRun:          cfg.DryRun,
		StripExtensions: cfg.StripExtensions,
		Concurrency:     cfg.Concurrency,
	})
	summary, runErr := f.Run(cmd.Context(), sources)

	p := plan.New(summary.Reports)
	if showDiff {
		printDiffs(out, p.Preview())
	}
	printSummary(out, summary, cfg.DryRun)

	if planOut != "" {
		if err := p.SaveFile(planOut, plan.Format(cfg.PlanFormat)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Plan with %d changes in %d files saved to %s\n", p.ChangeCount(), len(p.Files), planOut)
	}

	if runErr != nil {
		return runErr
	}
	if summary.FailedFiles > 0 || summary.Failed > 0 {
		return fmt.Errorf("%d files and %d references could not be processed", summary.FailedFiles, summary.Failed)
	}
	return nil
}
