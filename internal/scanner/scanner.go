// Package scanner expands glob patterns into absolute file lists. Patterns use
// doublestar syntax ("src/**/*.{ts,tsx}"); relative patterns are anchored at
// the scanner's base directory.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures the scanner behavior.
type Options struct {
	BaseDir     string   // Directory relative patterns are joined to (default: working directory)
	ExcludeDirs []string // Directory names skipped anywhere in a match
}

// DefaultOptions returns scanner options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		ExcludeDirs: []string{
			"node_modules",
			".git",
		},
	}
}

// Scanner expands glob patterns.
type Scanner struct {
	opts Options
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Expand returns the regular files matched by any of patterns as absolute,
// cleaned paths. Order follows the patterns, then doublestar's lexical walk
// order within a pattern; duplicates keep their first position.
func (s *Scanner) Expand(patterns ...string) ([]string, error) {
	base := s.opts.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		base = wd
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}

		anchored := anchor(absBase, pattern)
		matches, err := doublestar.FilepathGlob(anchored, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		root, _ := doublestar.SplitPattern(filepath.ToSlash(anchored))
		root = filepath.FromSlash(root)

		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				continue
			}
			if seen[abs] || s.isExcluded(root, abs) {
				continue
			}
			seen[abs] = true
			files = append(files, abs)
		}
	}

	return files, nil
}

// anchor joins relative patterns to base.
func anchor(base, pattern string) string {
	pat := filepath.FromSlash(pattern)
	if filepath.IsAbs(pat) {
		return filepath.Clean(pat)
	}
	return filepath.Join(base, pat)
}

// isExcluded checks whether a directory between root and path matches an
// excluded name. Directories above root, such as the checkout location, are
// never considered.
func (s *Scanner) isExcluded(root, path string) bool {
	if len(s.opts.ExcludeDirs) == 0 {
		return false
	}
	dir, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || dir == ".." || strings.HasPrefix(dir, ".."+string(filepath.Separator)) {
		dir = filepath.Dir(path)
	}
	for _, segment := range strings.Split(filepath.ToSlash(dir), "/") {
		for _, exclude := range s.opts.ExcludeDirs {
			if strings.EqualFold(segment, exclude) {
				return true
			}
		}
	}
	return false
}
