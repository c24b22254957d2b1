package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/internal/config"
	"github.com/l3aro/importfix/internal/log"
)

// loadConfigWithPath loads configuration the way every command does and
// reports which file, if any, is in effect.
func loadConfigWithPath(cmd *cobra.Command) (*config.Config, string, error) {
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		cfg, err := config.LoadFromFile(explicit)
		if err != nil {
			return nil, "", err
		}
		applyLogFlags(cmd, cfg)
		return cfg, explicit, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	applyLogFlags(cmd, cfg)

	var effectivePath string
	if projectPath := config.ProjectConfigFilePath(); fileExists(projectPath) {
		effectivePath = projectPath
	} else if globalPath := config.GlobalConfigFilePath(); fileExists(globalPath) {
		effectivePath = globalPath
	}
	return cfg, effectivePath, nil
}

func applyLogFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	if cmd.Flags().Changed("json-log") {
		cfg.JSONLog, _ = cmd.Flags().GetBool("json-log")
	}
}

// newLogger builds the run logger. Log lines go to stderr so that stdout
// carries only command output.
func newLogger(cfg *config.Config) *log.DefaultLogger {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	return log.New(log.LoggerConfig{
		Level:      level,
		JSONOutput: cfg.JSONLog,
		Output:     os.Stderr,
	})
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
