// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/BigZano/365Adm-TUI/internal/registry"
)

// scriptItem adapts a script descriptor to the list widget.
type scriptItem struct {
	script *registry.Script
}

// Title returns the humanized display name.
func (i scriptItem) Title() string {
	return registry.DisplayName(i.script.Name)
}

// Description returns the extracted description, with the switch hint
// appended for scripts that declare utility switches.
func (i scriptItem) Description() string {
	if i.script.HasSwitches {
		return i.script.Description + " · " + i.script.SwitchDescription
	}
	return i.script.Description
}

// FilterValue matches against both the raw name and the display form.
func (i scriptItem) FilterValue() string {
	return i.script.Name + " " + registry.DisplayName(i.script.Name)
}

// scriptItems builds list items from a descriptor snapshot.
func scriptItems(scripts []*registry.Script) []list.Item {
	items := make([]list.Item, 0, len(scripts))
	for _, s := range scripts {
		items = append(items, scriptItem{script: s})
	}
	return items
}
