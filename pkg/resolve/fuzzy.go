package resolve

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/l3aro/importfix/pkg/pathutil"
)

// basenamePattern extracts the final segment of an extensionless reference.
// Dot-separated runs are allowed so "user.service" is one name.
var basenamePattern = regexp.MustCompile(`[/\\]([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*)$`)

// indexEquivalents are the index files that stand in for their directory name.
var indexEquivalents = map[string]bool{
	"index.ts":  true,
	"index.tsx": true,
}

// Status describes the outcome of resolving one reference.
type Status int

const (
	// StatusIntact means one of the probes exists; the reference is left alone.
	StatusIntact Status = iota
	// StatusResolved means a replacement was found in the candidate universe.
	StatusResolved
	// StatusNotFound means nothing plausible exists.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusIntact:
		return "intact"
	case StatusResolved:
		return "resolved"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Resolution is the single answer produced for one reference.
type Resolution struct {
	Status Status
	// Path is set for StatusResolved: the winner relative to the origin's
	// directory, slash-separated and starting with "./" or "../".
	Path string
	// Target is the absolute path of the winning candidate.
	Target string
}

// Resolved builds a StatusResolved result.
func Resolved(path, target string) Resolution {
	return Resolution{Status: StatusResolved, Path: path, Target: target}
}

// NotFound is the result when no candidate matches.
var NotFound = Resolution{Status: StatusNotFound}

// FuzzyMatch searches universe for the best replacement for reference, which
// failed to resolve from origin. Enumeration order of universe decides ties.
func FuzzyMatch(origin, reference string, universe []string) (Resolution, error) {
	cleaned := pathutil.StripQuery(reference)

	matches, err := matchCandidates(origin, cleaned, universe)
	if err != nil {
		return NotFound, err
	}

	winner, ok := closest(filepath.Dir(origin), matches)
	if !ok {
		return NotFound, nil
	}

	rel, err := relativeTo(filepath.Dir(origin), winner)
	if err != nil {
		return NotFound, fmt.Errorf("relativizing %s: %w", winner, err)
	}
	return Resolved(pathutil.EnsureRelativePrefix(rel), winner), nil
}

// matchCandidates keeps the candidates whose name matches the reference, in
// universe order.
func matchCandidates(origin, cleaned string, universe []string) ([]string, error) {
	var matches []string

	if pathutil.HasExtension(cleaned) {
		target := pathutil.LastSegment(cleaned)
		for _, candidate := range universe {
			if filepath.Base(candidate) == target {
				matches = append(matches, candidate)
			}
		}
		return matches, nil
	}

	m := basenamePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return nil, &StructuralInputError{Origin: origin, Reference: cleaned}
	}
	target := m[1]

	for _, candidate := range universe {
		base := filepath.Base(candidate)
		if pathutil.StripExtension(base) == target {
			matches = append(matches, candidate)
			continue
		}
		if indexEquivalents[base] && filepath.Base(filepath.Dir(candidate)) == target {
			matches = append(matches, candidate)
		}
	}
	return matches, nil
}

// closest picks the match with the fewest separators in its path relative to
// dir. Equal scores keep universe order.
func closest(dir string, matches []string) (string, bool) {
	switch len(matches) {
	case 0:
		return "", false
	case 1:
		return matches[0], true
	}

	type scored struct {
		path  string
		score int
	}
	ranked := make([]scored, len(matches))
	for i, m := range matches {
		score := int(^uint(0) >> 1)
		if rel, err := filepath.Rel(dir, m); err == nil {
			score = pathutil.CountSeparators(rel)
		}
		ranked[i] = scored{path: m, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})
	return ranked[0].path, true
}

func relativeTo(dir, target string) (string, error) {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return "", err
	}
	return pathutil.ToSlash(rel), nil
}
