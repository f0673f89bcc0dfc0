// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BigZano/365Adm-TUI/internal/registry"
)

// scriptsCmd lists the discovered scripts with their inferred parameters.
var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List discovered scripts and their parameters",
	Long: `List every PowerShell script discovered in the scripts directory,
with the parameters inferred from its param(...) block.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		a.warnIfEmpty()

		for _, s := range a.registry.List() {
			printScript(s)
		}
		return nil
	},
}

// printScript renders one descriptor: display name, raw name, description,
// and the parameter table.
func printScript(s *registry.Script) {
	fmt.Println(TitleStyle.Render(registry.DisplayName(s.Name)) +
		SubtitleStyle.Render("  ("+s.Name+")"))
	fmt.Println("  " + s.Description)
	if s.HasSwitches {
		fmt.Println("  " + WarningStyle.Render(s.SwitchDescription))
	}

	for _, p := range s.Parameters {
		var notes []string
		if p.Required {
			notes = append(notes, "required")
		}
		if p.Secret {
			notes = append(notes, "secret")
		}
		if p.Default != "" {
			notes = append(notes, "default: "+p.Default)
		}

		line := "    " + ScriptStyle.Render("-"+p.Name) + "  " + p.Prompt
		if len(notes) > 0 {
			line += SubtitleStyle.Render("  [" + strings.Join(notes, ", ") + "]")
		}
		fmt.Println(line)
	}
	fmt.Println()
}
