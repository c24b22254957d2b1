package healthcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/importfix/internal/config"
	"github.com/l3aro/importfix/internal/scanner"
	"github.com/l3aro/importfix/pkg/extractor"
)

// GlobStatus represents the health of one configured glob list.
type GlobStatus struct {
	Patterns    []string
	Matches     int
	Unsupported int    // matches the import parser cannot read (source globs only)
	Status      string // "ready", "empty", "missing", "error"
	Error       string
}

// HealthCheckResult contains the full health check output for display.
type HealthCheckResult struct {
	SavedPath      string
	SavedScope     string // "global" or "project"
	EffectivePath  string
	EffectiveScope string // "global" or "project"
	Source         GlobStatus
	Imports        GlobStatus
}

// OK reports whether a repair run could start with this configuration.
func (r *HealthCheckResult) OK() bool {
	return r.Source.Status == "ready" && r.Imports.Status == "ready"
}

// Check performs a health check against the given config, expanding both
// glob lists relative to baseDir.
// savedPath is where the user saved config (may be empty outside init).
// effectivePath is the config file actually in use (considering priority).
func Check(cfg *config.Config, baseDir, savedPath, effectivePath string) (*HealthCheckResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &HealthCheckResult{
		SavedPath:      savedPath,
		SavedScope:     scopeFromPath(savedPath),
		EffectivePath:  effectivePath,
		EffectiveScope: scopeFromPath(effectivePath),
	}

	sc := scanner.New(scanner.Options{BaseDir: baseDir, ExcludeDirs: cfg.ExcludeDirs})
	result.Source = checkGlobs(sc, cfg.Source, true)
	result.Imports = checkGlobs(sc, cfg.Imports, false)

	return result, nil
}

// scopeFromPath determines "global" or "project" scope from a config file path.
// Returns empty string if path is empty.
func scopeFromPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, ".importfix")
		if strings.HasPrefix(path, globalDir) {
			return "global"
		}
	}

	return "project"
}

func checkGlobs(sc *scanner.Scanner, patterns []string, parsed bool) GlobStatus {
	status := GlobStatus{Patterns: patterns}
	if len(patterns) == 0 {
		status.Status = "missing"
		return status
	}

	files, err := sc.Expand(patterns...)
	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.Matches = len(files)
	if parsed {
		for _, f := range files {
			if !extractor.IsSupported(f) {
				status.Unsupported++
			}
		}
	}

	if status.Matches == 0 {
		status.Status = "empty"
	} else {
		status.Status = "ready"
	}
	return status
}
