// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

// Recognized color schemes.
const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a log_level value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

type (
	// ColorScheme selects the terminal color scheme.
	ColorScheme string

	// UIConfig holds presentation settings.
	UIConfig struct {
		// ColorScheme is auto, dark, or light.
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		// Verbose enables verbose CLI output.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the resolved launcher configuration.
	Config struct {
		// ScriptsDir is scanned (non-recursively) for *.ps1 scripts.
		ScriptsDir string `mapstructure:"scripts_dir"`
		// OutputDir is where scripts write their reports.
		OutputDir string `mapstructure:"output_dir"`
		// LogsDir holds launcher log files.
		LogsDir string `mapstructure:"logs_dir"`
		// Interpreter is the PowerShell binary name or path.
		Interpreter string `mapstructure:"interpreter"`
		// LogLevel is debug, info, warn, or error.
		LogLevel string `mapstructure:"log_level"`
		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}
)

// IsValid returns whether the ColorScheme is recognized, and a list of
// validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidColorScheme, string(c))}
	}
}

// Validate checks constraints the CUE schema also enforces; it exists so
// programmatically built configs get the same guarantees as loaded ones.
func (c *Config) Validate() error {
	if valid, errs := c.UI.ColorScheme.IsValid(); !valid {
		return errs[0]
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}
