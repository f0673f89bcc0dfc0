// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DescriptionOverrides replaces auto-extracted descriptions by exact stem
// match. Add entries here to customize what the launcher shows for a script.
var DescriptionOverrides = map[string]string{
	// "Loop for Delegate access": "Custom description here",
}

// Registry discovers scripts in a single directory and serves read-only
// lookups against the latest immutable snapshot.
type Registry struct {
	dir           string
	overrides     map[string]string
	paramDefaults map[string]string
	logger        *log.Logger
	scripts       map[string]*Script
}

// New creates a Registry for the given scripts directory. No scanning
// happens until Discover is called.
func New(dir string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		dir:       dir,
		overrides: DescriptionOverrides,
		logger:    logger,
		scripts:   make(map[string]*Script),
	}
}

// SetDescriptionOverrides replaces the override table. Intended for tests
// and embedders; must be called before Discover.
func (r *Registry) SetDescriptionOverrides(overrides map[string]string) {
	r.overrides = overrides
}

// SetParameterDefaults installs launcher-supplied defaults by parameter name
// (e.g. OutputPath → the configured reports directory). A default applies
// only when the declaration itself carries none, so script authors always
// win. Must be called before Discover.
func (r *Registry) SetParameterDefaults(defaults map[string]string) {
	r.paramDefaults = defaults
}

// Discover enumerates *.ps1 files in the registry directory (non-recursive)
// and parses each one independently. A file that cannot be read or parsed is
// logged and skipped; discovery itself never fails. The previous snapshot is
// replaced wholesale.
func (r *Registry) Discover() []*Script {
	scripts := make(map[string]*Script)

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		// A missing or unreadable directory yields an empty snapshot.
		r.logger.Warn("scripts directory not readable", "dir", r.dir, "err", err)
		r.scripts = scripts
		return nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ScriptExt) {
			continue
		}

		name := stem(entry.Name())
		script, err := parseScript(filepath.Join(r.dir, entry.Name()), name, r.overrides)
		if err != nil {
			r.logger.Warn("skipping script", "file", entry.Name(), "err", err)
			continue
		}
		r.applyParameterDefaults(script)
		scripts[name] = script
	}

	r.scripts = scripts
	return r.List()
}

// applyParameterDefaults fills launcher-supplied defaults into declarations
// that carry none. Required parameters stay required; the filled default
// satisfies them through the usual empty-entry fallback.
func (r *Registry) applyParameterDefaults(script *Script) {
	for i, p := range script.Parameters {
		if p.Default != "" {
			continue
		}
		if value, ok := r.paramDefaults[p.Name]; ok {
			script.Parameters[i].Default = value
		}
	}
}

// Get returns the descriptor for a script name from the current snapshot.
func (r *Registry) Get(name string) (*Script, bool) {
	s, ok := r.scripts[name]
	return s, ok
}

// List returns the current snapshot sorted by script name. No re-scan.
func (r *Registry) List() []*Script {
	list := make([]*Script, 0, len(r.scripts))
	for _, s := range r.scripts {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Names returns the sorted script names of the current snapshot.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of scripts in the current snapshot.
func (r *Registry) Len() int {
	return len(r.scripts)
}
