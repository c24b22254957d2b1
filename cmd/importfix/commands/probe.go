package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/internal/scanner"
	"github.com/l3aro/importfix/pkg/pathutil"
	"github.com/l3aro/importfix/pkg/resolve"
	"github.com/l3aro/importfix/pkg/types"
)

// ProbeOutput represents the output structure for JSON
type ProbeOutput struct {
	Origin    string   `json:"origin"`
	Reference string   `json:"reference"`
	Probes    []string `json:"probes"`
	Hit       string   `json:"hit,omitempty"`
	Status    string   `json:"status,omitempty"`
	Path      string   `json:"path,omitempty"`
	Target    string   `json:"target,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe ORIGIN REFERENCE",
	Short: "Show how a single reference resolves",
	Long: `Lists the paths a resolver tries for REFERENCE written inside ORIGIN, in
order, and marks the first one that exists. When none exists and --imports
is given, also shows which file the reference would be redirected to.`,
	Example: `  importfix probe src/app/main.ts ./utils/format -i "src/**/*.ts"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("getting absolute path: %w", err)
		}
		reference := args[1]
		if !pathutil.IsRelative(reference) {
			return fmt.Errorf("%q is not a relative reference", reference)
		}

		patterns, _ := cmd.Flags().GetStringArray("imports")
		excludeDirs, _ := cmd.Flags().GetStringArray("exclude-dir")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		var universe []string
		if len(patterns) > 0 {
			sc := scanner.New(scanner.Options{ExcludeDirs: excludeDirs})
			universe, err = sc.Expand(patterns...)
			if err != nil {
				return fmt.Errorf("expanding imports globs: %w", err)
			}
		}

		result := runProbe(cmd, origin, reference, universe, len(patterns) > 0)
		if jsonOutput {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		printProbe(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	probeCmd.Flags().StringArrayP("imports", "i", nil, "Glob of candidate files for fuzzy matching (repeatable)")
	probeCmd.Flags().StringArray("exclude-dir", scanner.DefaultOptions().ExcludeDirs, "Directory name never matched (repeatable)")
	probeCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func runProbe(cmd *cobra.Command, origin, reference string, universe []string, fuzzy bool) ProbeOutput {
	out := ProbeOutput{
		Origin:    origin,
		Reference: reference,
		Probes:    resolve.GenerateProbes(origin, reference),
	}

	res, err := resolve.NewEngine(universe).Resolve(cmd.Context(), types.ImportReference{
		Origin:    origin,
		Specifier: reference,
	})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	switch {
	case res.Status == resolve.StatusIntact:
		out.Hit = res.Target
		out.Status = res.Status.String()
	case fuzzy:
		out.Status = res.Status.String()
		out.Path = res.Path
		out.Target = res.Target
	}
	return out
}

func printProbe(w io.Writer, r ProbeOutput) {
	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	fmt.Fprintf(w, "%s from %s\n", r.Reference, r.Origin)
	for i, p := range r.Probes {
		switch {
		case p == r.Hit:
			fmt.Fprintf(w, "  %2d. %s %s\n", i+1, green.Sprint(p), green.Sprint("(exists)"))
		case r.Hit != "" && i > indexOf(r.Probes, r.Hit):
			fmt.Fprintf(w, "  %2d. %s\n", i+1, dim.Sprint(p))
		default:
			fmt.Fprintf(w, "  %2d. %s\n", i+1, p)
		}
	}

	switch {
	case r.Error != "":
		color.New(color.FgRed).Fprintf(w, "error: %s\n", r.Error)
	case r.Hit != "":
		fmt.Fprintln(w, "Reference resolves; nothing to fix.")
	case r.Status == resolve.StatusResolved.String():
		fmt.Fprintf(w, "Would rewrite to %s (%s)\n", green.Sprint(r.Path), r.Target)
	case r.Status == resolve.StatusNotFound.String():
		color.New(color.FgYellow).Fprintln(w, "No match found.")
	default:
		fmt.Fprintln(w, "No probe exists. Pass --imports to search for a replacement.")
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
