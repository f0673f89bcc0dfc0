// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/workflow"
)

// viewIdle renders the script picker with the status line beneath it.
func (m Model) viewIdle() string {
	view := m.list.View()
	if m.status != "" {
		view += "\n" + subtitleStyle.Render(m.status)
	}
	return view
}

// viewConfirming renders the review screen: one row per parameter with
// secrets already masked by the workflow machine.
func (m Model) viewConfirming() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Confirm: " + registry.DisplayName(m.machine.Script().Name)))
	b.WriteString("\n\n")

	width := summaryPromptWidth(m.summary)
	for _, row := range m.summary {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(pad(row.Prompt, width)))
		b.WriteString("  ")
		if row.Value == "" {
			b.WriteString(subtitleStyle.Render("(empty)"))
		} else {
			b.WriteString(row.Value)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(requiredStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("y/enter execute · r edit values · n/esc cancel"))
	return b.String()
}

// viewExecuting renders the live output pane while the child runs.
func (m Model) viewExecuting() string {
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(titleStyle.Render(" Running " + registry.DisplayName(m.machine.Script().Name)))
	b.WriteString("\n\n")
	b.WriteString(outputBorderStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+c abort session"))
	return b.String()
}

// viewDone renders the terminal screen: cancelled, or the classified outcome
// with the captured output.
func (m Model) viewDone() string {
	if m.machine.State() == workflow.StateCancelled {
		return subtitleStyle.Render("Cancelled.") + "\n" +
			helpStyle.Render("enter back to scripts")
	}

	result := m.machine.Result()
	var b strings.Builder
	if result.Success() {
		b.WriteString(successStyle.Render("✓ Success"))
	} else {
		b.WriteString(errorStyle.Render("✗ Failed (exit code " + result.ExitCode.String() + ")"))
	}
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(registry.DisplayName(m.machine.Script().Name)))
	b.WriteString("\n\n")

	if out := renderOutput(result.Stdout, result.Stderr); out != "" {
		b.WriteString(outputBorderStyle.Render(out))
		b.WriteString("\n")
	}
	if !result.Success() {
		if msg := result.Message(); msg != "" {
			b.WriteString(stderrStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	b.WriteString(helpStyle.Render("enter back to scripts"))
	return b.String()
}

// renderOutput combines the captured streams, styling stderr distinctly.
func renderOutput(stdout, stderr string) string {
	var parts []string
	if s := strings.TrimSpace(stdout); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(stderr); s != "" {
		parts = append(parts, stderrStyle.Render(s))
	}
	return strings.Join(parts, "\n")
}

// summaryPromptWidth returns the widest prompt, in display cells, for
// column alignment.
func summaryPromptWidth(rows []workflow.SummaryEntry) int {
	width := 0
	for _, row := range rows {
		if w := lipgloss.Width(row.Prompt); w > width {
			width = w
		}
	}
	return width
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
