// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming, designed for
// dark terminal backgrounds with good contrast.
const (
	// ColorPrimary is purple - titles, headers, primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - success states and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - warnings and attention-needed items.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - interactive elements and values.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	requiredStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	stderrStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	outputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMuted).
				Padding(0, 1)
)
