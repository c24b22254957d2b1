package plan

import (
	"strings"

	"github.com/aryann/difflib"
)

// DiffLine is one changed line of a preview.
type DiffLine struct {
	Line    int // 1-based line number in the old (removed) or new (added) content
	Removed bool
	Text    string
}

// FileDiff is the line diff one plan entry would produce.
type FileDiff struct {
	Path  string
	Lines []DiffLine
	Err   error
}

// Preview computes, without writing, the changed lines of every entry.
// Entries that cannot be rendered carry their error, as in Apply.
func (p *Plan) Preview() []FileDiff {
	diffs := make([]FileDiff, 0, len(p.Files))
	for _, f := range p.Files {
		d := FileDiff{Path: f.Path}
		before, after, err := render(f)
		if err != nil {
			d.Err = err
		} else {
			d.Lines = diffLines(string(before), string(after))
		}
		diffs = append(diffs, d)
	}
	return diffs
}

func diffLines(before, after string) []DiffLine {
	var out []DiffLine
	left, right := 0, 0
	for _, rec := range difflib.Diff(strings.Split(before, "\n"), strings.Split(after, "\n")) {
		switch rec.Delta {
		case difflib.Common:
			left++
			right++
		case difflib.LeftOnly:
			left++
			out = append(out, DiffLine{Line: left, Removed: true, Text: rec.Payload})
		case difflib.RightOnly:
			right++
			out = append(out, DiffLine{Line: right, Text: rec.Payload})
		}
	}
	return out
}
