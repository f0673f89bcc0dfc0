// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/BigZano/365Adm-TUI/internal/issue"
	"github.com/BigZano/365Adm-TUI/internal/logging"
	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/runner"
	"github.com/BigZano/365Adm-TUI/internal/tui"
	"github.com/BigZano/365Adm-TUI/internal/workflow"
)

// app bundles the shared launcher services built from the resolved config:
// the session log, the script registry (already discovered), and the runner.
type app struct {
	logger   *log.Logger
	logPath  string
	closeLog func() error
	registry *registry.Registry
	runner   *runner.Runner
}

// newApp builds the launcher services. Discovery runs once here; commands
// re-discover explicitly when they need a fresh snapshot.
func newApp() (*app, error) {
	logger, logPath, closeLog, err := logging.Setup(cfg.LogsDir, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	// Scripts that declare an OutputPath parameter without a default inherit
	// the configured reports directory.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Warn("output directory not available", "dir", cfg.OutputDir, "err", err)
	}

	reg := registry.New(cfg.ScriptsDir, logger)
	reg.SetParameterDefaults(map[string]string{"OutputPath": cfg.OutputDir})
	reg.Discover()

	run := runner.New(logger)
	run.Interpreter = cfg.Interpreter

	logger.Info("launcher initialized",
		"scripts_dir", cfg.ScriptsDir,
		"scripts", reg.Len(),
		"interpreter", cfg.Interpreter)

	return &app{
		logger:   logger,
		logPath:  logPath,
		closeLog: closeLog,
		registry: reg,
		runner:   run,
	}, nil
}

// close flushes and closes the session log.
func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// warnIfEmpty renders the scripts-directory help card when discovery found
// nothing to launch.
func (a *app) warnIfEmpty() {
	if a.registry.Len() > 0 {
		return
	}
	fmt.Fprintln(os.Stderr, WarningStyle.Render("No scripts found in "+cfg.ScriptsDir))
	if card, err := issue.Get(issue.ScriptsDirNotFoundId).Render("auto"); err == nil {
		fmt.Fprintln(os.Stderr, card)
	}
}

// launchTUI opens the interactive picker in the alternate screen buffer.
func launchTUI(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.warnIfEmpty()

	model := tui.New(a.registry, a.runner, workflow.NewSlot(), a.logger)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interactive picker: %w", err)
	}
	fmt.Println(SubtitleStyle.Render("Session log: " + a.logPath))
	return nil
}
