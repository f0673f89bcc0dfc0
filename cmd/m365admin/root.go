// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for m365admin.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/BigZano/365Adm-TUI/internal/config"
	"github.com/BigZano/365Adm-TUI/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the resolved configuration, loaded by initRootConfig. Never nil
	// after initialization: a failed load falls back to the defaults.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "m365admin",
		Short: "Interactive launcher for Microsoft 365 admin scripts",
		Long: TitleStyle.Render("m365admin") + SubtitleStyle.Render(" - Interactive launcher for Microsoft 365 admin scripts") + `

m365admin discovers PowerShell automation scripts in a directory, reads
their param(...) blocks to learn what each one needs, and walks you
through entering, confirming, and executing them with live output.

Run it with no arguments to open the interactive picker.

` + SubtitleStyle.Render("Examples:") + `
  m365admin                              Open the interactive picker
  m365admin scripts                      List discovered scripts
  m365admin run Create_New_Mg_User \
      --param DisplayName="Ada Lovelace" Run a script non-interactively
  m365admin serve                        Serve the picker over SSH
  m365admin config show                  Show resolved configuration`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchTUI(cmd.Context())
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <configdir>/m365admin/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(scriptsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(issuesCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// fang.Execute provides enhanced Cobra styling; version goes through
	// fang.WithVersion since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Config errors never abort: surface them and fall back to defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded != nil {
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
