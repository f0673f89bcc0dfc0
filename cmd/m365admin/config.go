// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BigZano/365Adm-TUI/internal/config"
)

// sampleConfig is the documented starting point written by 'config init'.
// It must satisfy the embedded CUE schema.
const sampleConfig = `// m365admin configuration (CUE format).
// Every key is optional; unset keys keep their built-in defaults.
// Environment variables (M365_SCRIPTS_DIR, M365_LOG_LEVEL, ...) override
// values in this file.

// Directory scanned (non-recursively) for *.ps1 scripts.
scripts_dir: "./Scripts"

// Where scripts write their reports.
// output_dir: "~/Documents/M365Reports"

// PowerShell binary name or path.
interpreter: "pwsh"

// One of: "debug" | "info" | "warn" | "error"
log_level: "info"

ui: {
	// One of: "auto" | "dark" | "light"
	color_scheme: "auto"
	verbose:      false
}
`

var (
	configInitForce bool

	// configCmd groups configuration subcommands.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage launcher configuration",
	}

	// configShowCmd prints the fully resolved configuration.
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(TitleStyle.Render("Resolved configuration"))
			fmt.Println(configLine("scripts_dir", cfg.ScriptsDir))
			fmt.Println(configLine("output_dir", cfg.OutputDir))
			fmt.Println(configLine("logs_dir", cfg.LogsDir))
			fmt.Println(configLine("interpreter", cfg.Interpreter))
			fmt.Println(configLine("log_level", cfg.LogLevel))
			fmt.Println(configLine("ui.color_scheme", string(cfg.UI.ColorScheme)))
			fmt.Println(configLine("ui.verbose", fmt.Sprintf("%t", cfg.UI.Verbose)))

			if path, err := config.DefaultConfigFilePath(); err == nil {
				fmt.Println(SubtitleStyle.Render("\nConfig file location: " + path))
			}
			return nil
		},
	}

	// configInitCmd writes a documented sample config file.
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.DefaultConfigFilePath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !configInitForce {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			fmt.Println(SuccessStyle.Render("✓ Created " + path))
			return nil
		},
	}
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// configLine formats one key/value row.
func configLine(key, value string) string {
	return "  " + ScriptStyle.Render(key) + ": " + value
}
