// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BigZano/365Adm-TUI/internal/workflow"
)

func TestDeliverDone_Delivers(t *testing.T) {
	t.Parallel()

	ch := make(chan tea.Msg, 1)
	if !deliverDone(context.Background(), ch, execDoneMsg{}) {
		t.Fatal("deliverDone() = false with buffer space available")
	}
	if _, ok := (<-ch).(execDoneMsg); !ok {
		t.Error("channel does not carry the delivered message")
	}
}

func TestDeliverDone_GivesUpWhenAbandoned(t *testing.T) {
	t.Parallel()

	// Full buffer and no consumer, as after a session's pump stops
	// mid-execution. Cancelling the execution context must unblock the
	// sender instead of stranding it.
	ch := make(chan tea.Msg, 1)
	ch <- progressMsg{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool, 1)
	go func() {
		done <- deliverDone(ctx, ch, execDoneMsg{})
	}()

	select {
	case delivered := <-done:
		if delivered {
			t.Error("deliverDone() = true on a full buffer with a cancelled context")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("deliverDone() still blocked after context cancellation")
	}
}

func TestSummaryAlignment_DisplayWidth(t *testing.T) {
	t.Parallel()

	rows := []workflow.SummaryEntry{
		{Prompt: "Département", Value: "Ventes"},
		{Prompt: "UPN (User Principal Name)", Value: "ada@contoso.com"},
	}

	width := summaryPromptWidth(rows)
	if want := lipgloss.Width("UPN (User Principal Name)"); width != want {
		t.Errorf("summaryPromptWidth() = %d, want %d", width, want)
	}

	// Padded prompts occupy identical display cells regardless of
	// multi-byte runes.
	first := pad(rows[0].Prompt, width)
	second := pad(rows[1].Prompt, width)
	if lipgloss.Width(first) != lipgloss.Width(second) {
		t.Errorf("padded widths differ: %d vs %d", lipgloss.Width(first), lipgloss.Width(second))
	}
}

func TestPad_NeverTruncates(t *testing.T) {
	t.Parallel()

	if got := pad("longer than width", 5); got != "longer than width" {
		t.Errorf("pad() altered a string already wider than the target: %q", got)
	}
}
