package commands

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/fatih/color"

	"github.com/l3aro/importfix/pkg/fixer"
	"github.com/l3aro/importfix/pkg/plan"
)

func newTable(w io.Writer) *tabby.Tabby {
	return tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
}

type summaryRow struct {
	label string
	n     int
	color *color.Color // applied only when n > 0
}

func printSummary(w io.Writer, s *fixer.Summary, dryRun bool) {
	fmt.Fprintln(w)
	if dryRun {
		color.New(color.Bold).Fprintln(w, "Summary (dry run, no files written)")
	} else {
		color.New(color.Bold).Fprintln(w, "Summary")
	}

	rows := []summaryRow{
		{label: "Files", n: s.Files},
		{label: "Written", n: s.Written},
		{label: "References", n: s.References},
		{label: "Rewritten", n: s.Rewritten, color: color.New(color.FgGreen)},
		{label: "Unresolved", n: s.Unresolved, color: color.New(color.FgYellow)},
		{label: "Failed", n: s.Failed + s.FailedFiles, color: color.New(color.FgRed)},
	}

	// Lay the table out uncolored; escape codes would count toward cell widths.
	var buf bytes.Buffer
	t := newTable(&buf)
	for _, r := range rows {
		t.AddLine(r.label, r.n)
	}
	t.Print()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		if i < len(rows) && rows[i].color != nil && rows[i].n > 0 {
			rows[i].color.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
}

// printDiffs renders plan previews the way a unified diff reads: removed
// lines in red, added lines in green, prefixed with their line number.
func printDiffs(w io.Writer, diffs []plan.FileDiff) {
	for _, d := range diffs {
		color.New(color.Bold).Fprintf(w, "--- %s\n", d.Path)
		if d.Err != nil {
			color.New(color.FgYellow).Fprintf(w, "  %v\n", d.Err)
			continue
		}
		for _, l := range d.Lines {
			if l.Removed {
				fmt.Fprintln(w, color.RedString("- %4d  %s", l.Line, l.Text))
			} else {
				fmt.Fprintln(w, color.GreenString("+ %4d  %s", l.Line, l.Text))
			}
		}
	}
}
