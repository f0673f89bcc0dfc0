// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BigZano/365Adm-TUI/internal/issue"
)

// issuesCmd renders the catalog of well-known failure modes as terminal
// help cards.
var issuesCmd = &cobra.Command{
	Use:   "issues [id]",
	Short: "Show help for well-known launcher failures",
	Long: `Show the catalog of well-known launcher failure modes. Without an
argument every help card is rendered; with a numeric id only that card is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid issue id %q: expected a number", args[0])
			}
			entry := issue.Get(issue.Id(id))
			if entry == nil {
				return fmt.Errorf("unknown issue id %d", id)
			}
			return renderIssue(entry)
		}

		all := issue.All()
		sort.Slice(all, func(i, j int) bool { return all[i].Id() < all[j].Id() })
		for _, entry := range all {
			if err := renderIssue(entry); err != nil {
				return err
			}
		}
		return nil
	},
}

// renderIssue prints one glamour-rendered help card.
func renderIssue(entry *issue.Issue) error {
	card, err := entry.Render("auto")
	if err != nil {
		return fmt.Errorf("render issue %d: %w", entry.Id(), err)
	}
	fmt.Println(SubtitleStyle.Render(fmt.Sprintf("Issue #%d", entry.Id())))
	fmt.Print(card)
	return nil
}
