// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BigZano/365Adm-TUI/internal/workflow"
)

// form renders the parameter collection screen: one text input per prompted
// parameter, pre-populated from the workflow effect. Secret fields echo dots.
type form struct {
	fields  []workflow.Field
	inputs  []textinput.Model
	focus   int
	missing []string
}

// newForm builds the form from a collect effect. Missing prompts (from a
// rejected submission) are surfaced above the fields.
func newForm(fields []workflow.Field, missing []string) form {
	inputs := make([]textinput.Model, 0, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.SetValue(f.Value)
		ti.Prompt = "> "
		ti.CharLimit = 0
		if f.Parameter.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if i == 0 {
			ti.Focus()
		}
		inputs = append(inputs, ti)
	}
	return form{fields: fields, inputs: inputs, missing: missing}
}

// update routes key and tick messages to the focused input and handles field
// navigation. Submission and cancellation are decided by the caller.
func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.moveFocus(1), nil
		case "shift+tab", "up":
			return f.moveFocus(-1), nil
		}
	}

	var cmd tea.Cmd
	if f.focus >= 0 && f.focus < len(f.inputs) {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return f, cmd
}

// moveFocus shifts focus by delta, wrapping around the field list.
func (f form) moveFocus(delta int) form {
	if len(f.inputs) == 0 {
		return f
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

// atLastField reports whether the focused input is the final one, where
// enter submits instead of advancing.
func (f form) atLastField() bool {
	return f.focus == len(f.inputs)-1
}

// entries collects the current input values keyed by parameter name.
func (f form) entries() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i, fld := range f.fields {
		values[fld.Parameter.Name] = f.inputs[i].Value()
	}
	return values
}

// view renders the form: title, any missing-value warning, and the labeled
// inputs with required markers.
func (f form) view(title string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(f.missing) > 0 {
		b.WriteString(requiredStyle.Render("Required: " + strings.Join(f.missing, ", ")))
		b.WriteString("\n\n")
	}

	for i, fld := range f.fields {
		label := labelStyle.Render(fld.Parameter.Prompt)
		if fld.Parameter.Required {
			label += requiredStyle.Render(" *")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab/↑↓ move · enter next/submit · esc cancel"))
	return b.String()
}
