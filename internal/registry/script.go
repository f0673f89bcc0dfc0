// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"path/filepath"
	"strings"
)

// ScriptExt is the filename extension of discoverable scripts.
const ScriptExt = ".ps1"

// SwitchHint is the hint text attached to scripts that declare utility switches.
const SwitchHint = "Supports utility switches (press 's' for options)"

// SwitchListLicenses is the distinguished single-flag invocation recognized
// during switch detection; it bypasses normal parameter collection.
const SwitchListLicenses = "ListLicenses"

type (
	// Parameter describes one prompted script parameter extracted from the
	// param(...) block. Switch-typed declarations are never represented here.
	Parameter struct {
		// Name is the raw declaration identifier (without the leading $).
		Name string
		// Prompt is the humanized label shown to the operator.
		Prompt string
		// Default is the declared default value, trimmed. May be empty.
		Default string
		// Required reports whether a non-empty value must be supplied.
		// An explicit Mandatory=$true/$false attribute always wins; absent
		// the attribute, a parameter is required iff its default is empty.
		Required bool
		// Secret marks values that must be masked wherever displayed.
		Secret bool
	}

	// Script is the immutable descriptor of one discovered script.
	// It is created once at discovery time and replaced wholesale on
	// re-discovery; callers must not mutate it.
	Script struct {
		// Name is the stable identity, derived from the file stem.
		Name string
		// Path is the absolute filesystem location of the script.
		Path string
		// Description is the human description extracted from the script's
		// leading comment (or an override, or a generated fallback).
		Description string
		// Parameters lists prompted parameters in declaration order.
		Parameters []Parameter
		// HasSwitches reports whether the script declares utility switches.
		HasSwitches bool
		// SwitchDescription is SwitchHint when HasSwitches, empty otherwise.
		SwitchDescription string
	}
)

// Param returns the parameter with the given name, if declared.
func (s *Script) Param(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Defaults returns a fresh name→default map covering every parameter.
func (s *Script) Defaults() map[string]string {
	values := make(map[string]string, len(s.Parameters))
	for _, p := range s.Parameters {
		values[p.Name] = p.Default
	}
	return values
}

// IsSecret reports whether the named parameter carries a sensitive value.
// Unknown names are treated as non-secret.
func (s *Script) IsSecret(name string) bool {
	p, ok := s.Param(name)
	return ok && p.Secret
}

// Equal reports whether two descriptors carry identical metadata.
// Used by re-discovery tests to compare snapshots as sets.
func (s *Script) Equal(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name != other.Name ||
		s.Path != other.Path ||
		s.Description != other.Description ||
		s.HasSwitches != other.HasSwitches ||
		s.SwitchDescription != other.SwitchDescription ||
		len(s.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range s.Parameters {
		if s.Parameters[i] != other.Parameters[i] {
			return false
		}
	}
	return true
}

// stem strips the script extension from a file name, matching the extension
// case-insensitively the way discovery does.
func stem(fileName string) string {
	if strings.EqualFold(filepath.Ext(fileName), ScriptExt) {
		return fileName[:len(fileName)-len(ScriptExt)]
	}
	return fileName
}
