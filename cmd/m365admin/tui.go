// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/spf13/cobra"

// tuiCmd opens the interactive picker explicitly; running the bare root
// command does the same thing.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive script picker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return launchTUI(cmd.Context())
	},
}
