// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/runner"
)

// Machine states.
const (
	// StateIdle awaits a script selection.
	StateIdle State = iota
	// StateCollecting gathers parameter values from the operator.
	StateCollecting
	// StateConfirming presents the resolved values for review.
	StateConfirming
	// StateExecuting runs the child process; an exclusive state.
	StateExecuting
	// StateCompleted is terminal: the invocation finished (success or failure).
	StateCompleted
	// StateCancelled is terminal: the operator backed out before execution.
	StateCancelled
)

// Confirmation decisions.
const (
	// DecisionExecute proceeds to execution.
	DecisionExecute Decision = iota
	// DecisionRetry returns to collection with the entered values preserved.
	DecisionRetry
	// DecisionCancel abandons the invocation; nothing is spawned.
	DecisionCancel
)

// Side-effect request kinds.
const (
	// EffectNone requests nothing.
	EffectNone EffectKind = iota
	// EffectCollect requests rendering the parameter form.
	EffectCollect
	// EffectConfirm requests rendering the confirmation summary.
	EffectConfirm
	// EffectExecute requests running the attached execution request.
	EffectExecute
	// EffectDone requests rendering the terminal outcome.
	EffectDone
)

// maskedValue replaces secret values anywhere they are displayed.
const maskedValue = "********"

var (
	// ErrExecutionInFlight is returned when an execute intent arrives while
	// another invocation occupies the exclusive execution slot.
	ErrExecutionInFlight = errors.New("another script execution is already in flight")

	// ErrInvalidIntent is the sentinel error wrapped by IntentError.
	ErrInvalidIntent = errors.New("intent not valid in current state")
)

type (
	// State identifies a workflow machine state.
	State int

	// Decision is the operator's choice on the confirmation screen.
	Decision int

	// EffectKind identifies the side effect a transition requests.
	EffectKind int

	// Field pairs a parameter with its pre-populated value for the form.
	Field struct {
		Parameter registry.Parameter
		Value     string
	}

	// SummaryEntry is one confirmation row; secret values arrive masked.
	SummaryEntry struct {
		Prompt string
		Value  string
		Secret bool
	}

	// Effect is the side-effect request produced by a transition.
	Effect struct {
		Kind EffectKind
		// Fields carries the form contents for EffectCollect.
		Fields []Field
		// Missing lists prompts of required values still unresolved; only
		// set when a submission was rejected.
		Missing []string
		// Summary carries the masked confirmation rows for EffectConfirm.
		Summary []SummaryEntry
		// Request carries the validated execution request for EffectExecute.
		Request *runner.Request
		// Result carries the classified outcome for EffectDone.
		Result *runner.Result
	}

	// IntentError reports an intent that is not accepted in the current state.
	// It wraps ErrInvalidIntent for errors.Is() compatibility.
	IntentError struct {
		Intent string
		State  State
	}

	// Machine drives one invocation from selection to a terminal state.
	// It is not safe for concurrent use; each session owns one machine.
	// The slot, however, is shared application-wide.
	Machine struct {
		slot     *Slot
		state    State
		script   *registry.Script
		values   map[string]string
		resolved map[string]string
		result   *runner.Result
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateConfirming:
		return "confirming"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *IntentError) Error() string {
	return fmt.Sprintf("intent '%s' not valid in state '%s'", e.Intent, e.State)
}

// Unwrap returns ErrInvalidIntent so callers can use errors.Is.
func (e *IntentError) Unwrap() error { return ErrInvalidIntent }

// NewMachine creates an idle machine guarded by the given execution slot.
// A nil slot gets a private one (useful for tests of a single session).
func NewMachine(slot *Slot) *Machine {
	if slot == nil {
		slot = NewSlot()
	}
	return &Machine{slot: slot, state: StateIdle}
}

// State returns the current machine state.
func (m *Machine) State() State { return m.state }

// Script returns the descriptor of the current invocation, if any.
func (m *Machine) Script() *registry.Script { return m.script }

// Result returns the classified outcome once the machine is completed.
func (m *Machine) Result() *runner.Result { return m.result }

// Select begins an invocation for the given descriptor. A script with no
// prompted parameters transitions straight to Executing (subject to the
// exclusive slot); otherwise collection starts pre-populated with defaults.
func (m *Machine) Select(script *registry.Script) (Effect, error) {
	if m.state != StateIdle {
		return Effect{}, &IntentError{Intent: "select", State: m.state}
	}

	m.script = script
	if len(script.Parameters) == 0 {
		if !m.slot.TryAcquire() {
			m.script = nil
			return Effect{}, ErrExecutionInFlight
		}
		m.resolved = map[string]string{}
		m.state = StateExecuting
		return Effect{Kind: EffectExecute, Request: m.request()}, nil
	}

	m.values = script.Defaults()
	m.state = StateCollecting
	return Effect{Kind: EffectCollect, Fields: m.fields()}, nil
}

// SelectSwitch begins a distinguished single-flag invocation (derived from
// the descriptor's switch support), bypassing parameter collection entirely.
func (m *Machine) SelectSwitch(script *registry.Script, flag string) (Effect, error) {
	if m.state != StateIdle {
		return Effect{}, &IntentError{Intent: "select", State: m.state}
	}
	if !script.HasSwitches {
		return Effect{}, fmt.Errorf("script '%s' declares no utility switches", script.Name)
	}
	if !m.slot.TryAcquire() {
		return Effect{}, ErrExecutionInFlight
	}

	m.script = script
	m.resolved = map[string]string{}
	m.state = StateExecuting
	req := &runner.Request{Script: script, Switch: flag}
	return Effect{Kind: EffectExecute, Request: req}, nil
}

// Submit validates entered values. Every required parameter must resolve to
// a non-empty value, where an empty entry falls back to the declared default.
// On a validation failure the machine stays in Collecting and the effect
// surfaces the missing prompts; on success it moves to Confirming with the
// resolved map (secrets masked in the summary).
func (m *Machine) Submit(entries map[string]string) (Effect, error) {
	if m.state != StateCollecting {
		return Effect{}, &IntentError{Intent: "submit", State: m.state}
	}

	resolved := make(map[string]string, len(m.script.Parameters))
	var missing []string
	for _, p := range m.script.Parameters {
		value := strings.TrimSpace(entries[p.Name])
		if value == "" {
			value = p.Default
		}
		resolved[p.Name] = value
		if p.Required && value == "" {
			missing = append(missing, p.Prompt)
		}
	}

	m.values = resolved
	if len(missing) > 0 {
		return Effect{Kind: EffectCollect, Fields: m.fields(), Missing: missing}, nil
	}

	m.resolved = resolved
	m.state = StateConfirming
	return Effect{Kind: EffectConfirm, Summary: m.summary()}, nil
}

// Confirm applies the operator's decision on the confirmation screen.
// Execute claims the exclusive slot (refused with ErrExecutionInFlight if
// occupied, the machine stays in Confirming); Retry returns to collection
// pre-populated with the just-entered values; Cancel terminates the
// invocation without spawning anything.
func (m *Machine) Confirm(decision Decision) (Effect, error) {
	if m.state != StateConfirming {
		return Effect{}, &IntentError{Intent: "confirm", State: m.state}
	}

	switch decision {
	case DecisionExecute:
		if !m.slot.TryAcquire() {
			return Effect{}, ErrExecutionInFlight
		}
		m.state = StateExecuting
		return Effect{Kind: EffectExecute, Request: m.request()}, nil
	case DecisionRetry:
		m.state = StateCollecting
		return Effect{Kind: EffectCollect, Fields: m.fields()}, nil
	case DecisionCancel:
		return m.Cancel()
	default:
		return Effect{}, fmt.Errorf("unknown confirmation decision %d", decision)
	}
}

// Cancel abandons the invocation from either interactive state. Nothing is
// ever spawned for a cancelled invocation.
func (m *Machine) Cancel() (Effect, error) {
	if m.state != StateCollecting && m.state != StateConfirming {
		return Effect{}, &IntentError{Intent: "cancel", State: m.state}
	}
	m.state = StateCancelled
	return Effect{Kind: EffectDone}, nil
}

// Finish records the classified execution result, releases the exclusive
// slot, and terminates the invocation.
func (m *Machine) Finish(result *runner.Result) (Effect, error) {
	if m.state != StateExecuting {
		return Effect{}, &IntentError{Intent: "finish", State: m.state}
	}

	m.slot.Release()
	m.result = result
	m.state = StateCompleted
	return Effect{Kind: EffectDone, Result: result}, nil
}

// Fail maps any error raised while preparing or awaiting the process to a
// completed-failure outcome. The orchestration never lets such an error
// terminate the session.
func (m *Machine) Fail(err error) (Effect, error) {
	if m.state != StateExecuting {
		return Effect{}, &IntentError{Intent: "fail", State: m.state}
	}

	m.slot.Release()
	m.result = &runner.Result{Outcome: runner.OutcomeFailure, Err: err}
	m.state = StateCompleted
	return Effect{Kind: EffectDone, Result: m.result}, nil
}

// Reset returns a terminal machine to Idle for the next selection. No
// descriptor state survives across invocations.
func (m *Machine) Reset() {
	if m.state != StateCompleted && m.state != StateCancelled && m.state != StateIdle {
		return
	}
	m.state = StateIdle
	m.script = nil
	m.values = nil
	m.resolved = nil
	m.result = nil
}

// fields builds the form contents from the current pre-population map.
func (m *Machine) fields() []Field {
	fields := make([]Field, 0, len(m.script.Parameters))
	for _, p := range m.script.Parameters {
		fields = append(fields, Field{Parameter: p, Value: m.values[p.Name]})
	}
	return fields
}

// summary builds the confirmation rows with secret values masked.
func (m *Machine) summary() []SummaryEntry {
	rows := make([]SummaryEntry, 0, len(m.script.Parameters))
	for _, p := range m.script.Parameters {
		value := m.resolved[p.Name]
		if p.Secret && value != "" {
			value = maskedValue
		}
		rows = append(rows, SummaryEntry{Prompt: p.Prompt, Value: value, Secret: p.Secret})
	}
	return rows
}

func (m *Machine) request() *runner.Request {
	return &runner.Request{Script: m.script, Values: m.resolved}
}
