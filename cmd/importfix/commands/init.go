package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/importfix/internal/config"
	"github.com/l3aro/importfix/internal/healthcheck"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize importfix configuration interactively",
	Long: `Guides you through setting up importfix configuration step by step.
Creates a config file with the source and imports globs and run defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func runInit(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	cfg := config.DefaultConfig()

	// === SECTION 1: Globs ===
	source := "src/**/*.{ts,tsx}"
	imports := "src/**/*.{ts,tsx,js,jsx,json,vue,svelte}"
	excludeDirs := strings.Join(cfg.ExcludeDirs, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source files").
				Description("Glob of files whose imports are repaired (comma separated for several)").
				Placeholder(source).
				Value(&source).
				Validate(requireValue),
			huh.NewInput().
				Title("Import targets").
				Description("Glob of every file an import may be redirected to").
				Placeholder(imports).
				Value(&imports).
				Validate(requireValue),
			huh.NewInput().
				Title("Excluded directories").
				Description("Directory names never matched by either glob").
				Value(&excludeDirs),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Run defaults ===
	stripExtensions := cfg.StripExtensions
	concurrency := strconv.Itoa(cfg.Concurrency)
	planFormat := string(cfg.PlanFormat)

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Rewritten imports").
				Description("Drop .ts/.tsx extensions from rewritten imports?").
				Affirmative("Yes, strip them").
				Negative("No, keep them").
				Value(&stripExtensions),
			huh.NewInput().
				Title("Concurrency").
				Description("Number of files processed at once").
				Value(&concurrency).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Plan format").
				Description("Encoding used by --plan-out when the extension does not decide").
				Options(
					huh.NewOption("MessagePack", string(config.PlanFormatMsgpack)),
					huh.NewOption("JSON", string(config.PlanFormatJSON)),
				).
				Value(&planFormat),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.importfix/config.yaml)", "project"),
					huh.NewOption("Global (~/.importfix/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := config.ProjectConfigFilePath()
	if saveLocationChoice == "global" {
		configPath = config.GlobalConfigFilePath()
	}

	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	// === Build config struct ===
	cfg.Source = config.SplitList(source)
	cfg.Imports = config.SplitList(imports)
	cfg.ExcludeDirs = config.SplitList(excludeDirs)
	cfg.StripExtensions = stripExtensions
	cfg.Concurrency, _ = strconv.Atoi(concurrency)
	cfg.PlanFormat = config.PlanFormat(planFormat)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Fprintln(out, "\n=== Configuration Preview ===")
	fmt.Fprintf(out, "Config path: %s\n", configPath)
	fmt.Fprintf(out, "Source: %s\n", strings.Join(cfg.Source, ", "))
	fmt.Fprintf(out, "Imports: %s\n", strings.Join(cfg.Imports, ", "))
	fmt.Fprintf(out, "Excluded dirs: %s\n", strings.Join(cfg.ExcludeDirs, ", "))
	fmt.Fprintf(out, "Strip extensions: %t\n", cfg.StripExtensions)
	fmt.Fprintf(out, "Concurrency: %d\n", cfg.Concurrency)
	fmt.Fprintf(out, "Plan format: %s\n", cfg.PlanFormat)
	fmt.Fprintln(out, "================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Configuration saved to: %s\n", configPath)

	// === SECTION 4: Health Check ===
	fmt.Fprintln(out, "\n=== Running Health Check ===")

	loadedCfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading saved config: %w", err)
	}

	absPath, _ := filepath.Abs(configPath)
	result, err := healthcheck.Check(loadedCfg, "", absPath, absPath)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	displayDoctorResult(out, result)

	fmt.Fprintln(out, "\n=== Initialization Complete ===")
	return nil
}

func requireValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a glob is required")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of at least 1")
	}
	return nil
}
