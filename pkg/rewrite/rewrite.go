// Package rewrite applies specifier substitutions to source text.
package rewrite

import (
	"errors"
	"fmt"
	"sort"

	"github.com/l3aro/importfix/pkg/types"
)

// ErrOverlap is returned when two edits touch the same bytes.
var ErrOverlap = errors.New("overlapping edits")

// Edit replaces content[Start:End] with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// FromChanges converts recorded changes into edits.
func FromChanges(changes []types.Change) []Edit {
	edits := make([]Edit, 0, len(changes))
	for _, c := range changes {
		edits = append(edits, Edit{Start: c.Start, End: c.End, Text: c.To})
	}
	return edits
}

// Apply returns a copy of content with every edit applied. Edits may be given
// in any order but must not overlap and must lie inside content.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), content...), nil
	}

	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := make([]byte, 0, len(content))
	pos := 0
	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(content) {
			return nil, fmt.Errorf("edit [%d:%d] out of range for %d bytes", e.Start, e.End, len(content))
		}
		if e.Start < pos {
			return nil, fmt.Errorf("edit at %d: %w", e.Start, ErrOverlap)
		}
		out = append(out, content[pos:e.Start]...)
		out = append(out, e.Text...)
		pos = e.End
	}
	out = append(out, content[pos:]...)

	return out, nil
}
