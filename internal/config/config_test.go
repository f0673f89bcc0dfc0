// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.ScriptsDir != "./Scripts" {
		t.Errorf("ScriptsDir = %q, want ./Scripts", cfg.ScriptsDir)
	}
	if cfg.Interpreter != "pwsh" {
		t.Errorf("Interpreter = %q, want pwsh", cfg.Interpreter)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme ColorScheme
		want   bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"solarized", false},
		{"DARK", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad color scheme",
			mutate:  func(c *Config) { c.UI.ColorScheme = "neon" },
			wantErr: ErrInvalidColorScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Load tests share the package-level config file override, so they run
// sequentially and restore it afterwards.

func TestLoad_ValidCUEFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.cue")
	content := `
scripts_dir: "/opt/admin/scripts"
log_level:   "debug"
ui: {
	color_scheme: "dark"
	verbose:      true
}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScriptsDir != "/opt/admin/scripts" {
		t.Errorf("ScriptsDir = %q", cfg.ScriptsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark || !cfg.UI.Verbose {
		t.Errorf("UI = %+v", cfg.UI)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Interpreter != "pwsh" {
		t.Errorf("Interpreter = %q, want default pwsh", cfg.Interpreter)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(`log_level: "loudest"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a log_level outside the schema enum")
	}
}

func TestLoad_InvalidCUESyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(`scripts_dir: [unclosed`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted invalid CUE syntax")
	}
}

func TestLoad_MissingOverrideFile(t *testing.T) {
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	if _, err := Load(); err == nil {
		t.Fatal("Load() with a missing --config file should fail")
	}
}
