package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/pkg/plan"
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply PLAN",
	Short: "Apply a previously saved repair plan",
	Long: `Applies the changes recorded by "importfix fix --plan-out". A file that was
modified after the plan was written is skipped; the other files are still
updated. The encoding is chosen from the extension (.json, otherwise msgpack).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfigWithPath(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger := newLogger(cfg)

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		showDiff, _ := cmd.Flags().GetBool("diff")

		p, err := plan.LoadFile(args[0])
		if err != nil {
			return err
		}
		logger.Info("loaded plan", "path", args[0], "id", p.ID, "files", len(p.Files), "changes", p.ChangeCount())

		if showDiff {
			printDiffs(cmd.OutOrStdout(), p.Preview())
		}

		var applied, stale, failed int
		for _, r := range p.Apply(dryRun) {
			switch {
			case r.Err == nil:
				applied++
				logger.Info("applied plan entry", "path", r.Path, "changes", r.Changes)
			case errors.Is(r.Err, plan.ErrStale):
				stale++
				logger.Warn("skipping changed file", "path", r.Path)
			default:
				failed++
				logger.Error("could not apply plan entry", "path", r.Path, "error", r.Err)
			}
		}

		out := cmd.OutOrStdout()
		verb := "Applied"
		if dryRun {
			verb = "Checked"
		}
		fmt.Fprintf(out, "%s %s files", verb, color.GreenString("%d", applied))
		if stale > 0 {
			fmt.Fprintf(out, ", %s stale", color.YellowString("%d", stale))
		}
		if failed > 0 {
			fmt.Fprintf(out, ", %s failed", color.RedString("%d", failed))
		}
		fmt.Fprintln(out)

		if stale+failed > 0 {
			return fmt.Errorf("%d plan entries were not applied", stale+failed)
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolP("dry-run", "d", false, "Verify the plan without writing files")
	applyCmd.Flags().Bool("diff", false, "Print the changed lines before applying")
}
