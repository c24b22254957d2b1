package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanFormat selects the encoding of a saved repair plan
type PlanFormat string

const (
	PlanFormatMsgpack PlanFormat = "msgpack"
	PlanFormatJSON    PlanFormat = "json"
)

// Config holds all configuration for importfix
type Config struct {
	// Source globs select the files whose imports get repaired
	Source []string `yaml:"source" env:"IMPORTFIX_SOURCE"`

	// Imports globs select every file a broken import may be redirected to
	Imports []string `yaml:"imports" env:"IMPORTFIX_IMPORTS"`

	// ExcludeDirs are directory names never matched by either glob
	ExcludeDirs []string `yaml:"exclude_dirs" env:"IMPORTFIX_EXCLUDE_DIRS"`

	// DryRun reports changes without writing files
	DryRun bool `yaml:"dry_run" env:"IMPORTFIX_DRY_RUN"`

	// StripExtensions drops .ts/.tsx/.d.ts from rewritten specifiers
	StripExtensions bool `yaml:"strip_extensions" env:"IMPORTFIX_STRIP_EXTENSIONS"`

	// Concurrency is the number of source files processed at once
	Concurrency int `yaml:"concurrency" env:"IMPORTFIX_CONCURRENCY"`

	// PlanFormat is the encoding used by --plan-out
	PlanFormat PlanFormat `yaml:"plan_format" env:"IMPORTFIX_PLAN_FORMAT"`

	// Logging
	Verbose bool `yaml:"verbose" env:"IMPORTFIX_VERBOSE"`
	JSONLog bool `yaml:"json_log" env:"IMPORTFIX_JSON_LOG"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:          nil,
		Imports:         nil,
		ExcludeDirs:     []string{"node_modules", ".git"},
		DryRun:          false,
		StripExtensions: true,
		Concurrency:     4,
		PlanFormat:      PlanFormatMsgpack,
		Verbose:         false,
		JSONLog:         false,
	}
}

// GlobalConfigFilePath returns the global config file path (~/.importfix/config.yaml)
func GlobalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".importfix/config.yaml"
	}
	return filepath.Join(home, ".importfix", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.importfix/config.yaml)
func ProjectConfigFilePath() string {
	return filepath.Join(".importfix", "config.yaml")
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Project-level config (./.importfix/config.yaml)
// 2. Environment variables
// 3. Global config (~/.importfix/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// 1. Load global config (~/.importfix/config.yaml)
	globalConfigPath := GlobalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	// 2. Override with environment variables
	applyEnvOverrides(cfg)

	// 3. Load project-level config - overrides global and env
	projectConfigPath := ProjectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IMPORTFIX_SOURCE"); v != "" {
		cfg.Source = SplitList(v)
	}
	if v := os.Getenv("IMPORTFIX_IMPORTS"); v != "" {
		cfg.Imports = SplitList(v)
	}
	if v, ok := os.LookupEnv("IMPORTFIX_EXCLUDE_DIRS"); ok {
		cfg.ExcludeDirs = SplitList(v)
	}
	if v := os.Getenv("IMPORTFIX_DRY_RUN"); v != "" {
		cfg.DryRun = parseBool(v)
	}
	if v := os.Getenv("IMPORTFIX_STRIP_EXTENSIONS"); v != "" {
		cfg.StripExtensions = parseBool(v)
	}
	if v := os.Getenv("IMPORTFIX_CONCURRENCY"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.Concurrency = i
		}
	}
	if v := os.Getenv("IMPORTFIX_PLAN_FORMAT"); v != "" {
		cfg.PlanFormat = PlanFormat(v)
	}
	if v := os.Getenv("IMPORTFIX_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("IMPORTFIX_JSON_LOG"); v != "" {
		cfg.JSONLog = parseBool(v)
	}
}

// Validate checks that the configuration has valid fields
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}

	switch c.PlanFormat {
	case PlanFormatMsgpack, PlanFormatJSON:
		// Valid
	default:
		return fmt.Errorf("invalid plan_format: %s (must be 'msgpack' or 'json')", c.PlanFormat)
	}

	return nil
}

// RequireGlobs checks that both glob lists are present, which every
// repair run needs but config loading alone does not.
func (c *Config) RequireGlobs() error {
	if len(c.Source) == 0 {
		return fmt.Errorf("source glob is required (--source or source: in config)")
	}
	if len(c.Imports) == 0 {
		return fmt.Errorf("imports glob is required (--imports or imports: in config)")
	}
	return nil
}

// SplitList splits a comma-separated list of globs. Commas inside a brace
// group belong to the glob: "src/**/*.{ts,tsx}, lib/*.ts" yields two entries.
func SplitList(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}
