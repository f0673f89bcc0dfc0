// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/runner"
	"github.com/BigZano/365Adm-TUI/internal/workflow"
)

// execChanSize buffers progress snapshots between the runner goroutine and
// the update loop; snapshots are cumulative so dropped ones lose nothing.
const execChanSize = 16

type (
	// progressMsg carries a periodic output snapshot from a running script.
	progressMsg runner.Snapshot

	// execDoneMsg carries the classified result of a finished execution.
	execDoneMsg struct {
		result *runner.Result
	}

	// Model is the launcher session: one operator's journey through script
	// selection, parameter collection, confirmation, and execution. Multiple
	// sessions (e.g. over SSH) share the workflow execution slot.
	Model struct {
		registry *registry.Registry
		runner   *runner.Runner
		machine  *workflow.Machine
		logger   *log.Logger

		list     list.Model
		form     form
		summary  []workflow.SummaryEntry
		spinner  spinner.Model
		viewport viewport.Model
		progress runner.Snapshot

		execCh chan tea.Msg
		cancel context.CancelFunc

		width  int
		height int
		status string
	}
)

// New creates a launcher session backed by the shared registry, runner, and
// execution slot. The registry must already hold a discovery snapshot.
func New(reg *registry.Registry, run *runner.Runner, slot *workflow.Slot, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).BorderForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted).BorderForeground(ColorPrimary)

	l := list.New(scriptItems(reg.List()), delegate, 0, 0)
	l.Title = "M365 Admin Toolkit"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return Model{
		registry: reg,
		runner:   run,
		machine:  workflow.NewMachine(slot),
		logger:   logger,
		list:     l,
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update dispatches messages by machine state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		m.status = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		m.progress = runner.Snapshot(msg)
		m.viewport.SetContent(renderOutput(m.progress.Stdout, m.progress.Stderr))
		m.viewport.GotoBottom()
		return m, waitForMsg(m.execCh)

	case execDoneMsg:
		return m.finishExecution(msg.result)
	}

	switch m.machine.State() {
	case workflow.StateIdle:
		return m.updateIdle(msg)
	case workflow.StateCollecting:
		return m.updateCollecting(msg)
	case workflow.StateConfirming:
		return m.updateConfirming(msg)
	case workflow.StateExecuting:
		return m, nil
	default:
		return m.updateDone(msg)
	}
}

// View renders the screen for the current machine state.
func (m Model) View() string {
	switch m.machine.State() {
	case workflow.StateIdle:
		return m.viewIdle()
	case workflow.StateCollecting:
		return m.form.view(registry.DisplayName(m.machine.Script().Name))
	case workflow.StateConfirming:
		return m.viewConfirming()
	case workflow.StateExecuting:
		return m.viewExecuting()
	default:
		return m.viewDone()
	}
}

// updateIdle handles the script picker: enter selects, 's' runs the
// distinguished switch invocation, 'r' re-discovers the directory.
func (m Model) updateIdle(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch key.String() {
		case "q":
			return m.quit()
		case "r":
			m.list.SetItems(scriptItems(m.registry.Discover()))
			m.status = "Scripts re-discovered"
			return m, nil
		case "enter":
			return m.selectScript()
		case "s":
			return m.selectSwitch()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selectScript begins an invocation for the highlighted descriptor.
func (m Model) selectScript() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(scriptItem)
	if !ok {
		return m, nil
	}

	effect, err := m.machine.Select(item.script)
	if err != nil {
		return m.reportIntentError(err)
	}
	return m.applyEffect(effect)
}

// selectSwitch begins the distinguished single-flag invocation for scripts
// that declare utility switches.
func (m Model) selectSwitch() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(scriptItem)
	if !ok || !item.script.HasSwitches {
		return m, nil
	}

	effect, err := m.machine.SelectSwitch(item.script, registry.SwitchListLicenses)
	if err != nil {
		return m.reportIntentError(err)
	}
	return m.applyEffect(effect)
}

// updateCollecting handles the parameter form: enter advances or submits,
// esc cancels the invocation.
func (m Model) updateCollecting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m.cancelInvocation()
		case "enter":
			if !m.form.atLastField() {
				m.form = m.form.moveFocus(1)
				return m, nil
			}
			effect, err := m.machine.Submit(m.form.entries())
			if err != nil {
				return m.reportIntentError(err)
			}
			return m.applyEffect(effect)
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// updateConfirming handles the review screen: y/enter executes, r retries,
// n/esc cancels.
func (m Model) updateConfirming(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var decision workflow.Decision
	switch key.String() {
	case "y", "enter":
		decision = workflow.DecisionExecute
	case "r":
		decision = workflow.DecisionRetry
	case "n", "esc":
		decision = workflow.DecisionCancel
	default:
		return m, nil
	}

	effect, err := m.machine.Confirm(decision)
	if err != nil {
		return m.reportIntentError(err)
	}
	return m.applyEffect(effect)
}

// updateDone handles the terminal screens: any of enter/esc/q returns to the
// picker for the next selection.
func (m Model) updateDone(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "enter", "esc", "q":
		m.machine.Reset()
		m.progress = runner.Snapshot{}
		m.list.SetItems(scriptItems(m.registry.List()))
		return m, nil
	}
	return m, nil
}

// applyEffect translates a workflow effect into view state and commands.
func (m Model) applyEffect(effect workflow.Effect) (tea.Model, tea.Cmd) {
	switch effect.Kind {
	case workflow.EffectCollect:
		m.form = newForm(effect.Fields, effect.Missing)
		return m, nil
	case workflow.EffectConfirm:
		m.summary = effect.Summary
		return m, nil
	case workflow.EffectExecute:
		return m.startExecution(effect.Request)
	default:
		return m, nil
	}
}

// startExecution launches the runner in its own goroutine and arms the
// message pump. Progress snapshots stream through a buffered channel; the
// result always arrives as the final message.
func (m Model) startExecution(req *runner.Request) (tea.Model, tea.Cmd) {
	ch := make(chan tea.Msg, execChanSize)
	ctx, cancel := context.WithCancel(context.Background())
	m.execCh = ch
	m.cancel = cancel
	m.progress = runner.Snapshot{}
	m.viewport.SetContent("")

	run := m.runner
	go func() {
		result := run.Execute(ctx, *req, func(s runner.Snapshot) {
			select {
			case ch <- progressMsg(s):
			default:
			}
		})
		deliverDone(ctx, ch, execDoneMsg{result: result})
	}()

	return m, tea.Batch(m.spinner.Tick, waitForMsg(ch))
}

// finishExecution records the result and releases the execution slot.
func (m Model) finishExecution(result *runner.Result) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.execCh = nil
	m.progress = runner.Snapshot{Stdout: result.Stdout, Stderr: result.Stderr}

	if _, err := m.machine.Finish(result); err != nil {
		m.logger.Error("recording execution result", "err", err)
	}
	return m, nil
}

// cancelInvocation abandons the current invocation and returns to the picker.
func (m Model) cancelInvocation() (tea.Model, tea.Cmd) {
	if _, err := m.machine.Cancel(); err != nil {
		return m.reportIntentError(err)
	}
	m.machine.Reset()
	return m, nil
}

// reportIntentError surfaces a refused intent on the status line. A busy
// execution slot is an expected refusal, not a session failure.
func (m Model) reportIntentError(err error) (tea.Model, tea.Cmd) {
	m.status = err.Error()
	m.logger.Debug("intent refused", "err", err)
	return m, nil
}

// quit cancels any in-flight child process and ends the session.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// deliverDone hands the final execution message to the update loop. The
// send must not block forever: when the session's pump has stopped (remote
// disconnect, aborted session) the execution context is cancelled and the
// runner goroutine gives up instead of stranding itself on a full buffer.
func deliverDone(ctx context.Context, ch chan tea.Msg, msg tea.Msg) bool {
	select {
	case ch <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// waitForMsg pumps the next execution message into the update loop.
func waitForMsg(ch chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return <-ch
	}
}
