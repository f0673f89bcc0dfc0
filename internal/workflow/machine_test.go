// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"errors"
	"testing"

	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/runner"
)

func twoParamScript() *registry.Script {
	return &registry.Script{
		Name: "Assign_License",
		Path: "/scripts/Assign_License.ps1",
		Parameters: []registry.Parameter{
			{Name: "Upn", Prompt: "UPN (User Principal Name)", Required: true},
			{Name: "Sku", Prompt: "SKU", Default: "E5"},
		},
	}
}

func secretScript() *registry.Script {
	return &registry.Script{
		Name: "Reset_Password",
		Path: "/scripts/Reset_Password.ps1",
		Parameters: []registry.Parameter{
			{Name: "Upn", Prompt: "UPN (User Principal Name)", Required: true},
			{Name: "TempPassword", Prompt: "Temp Password", Required: true, Secret: true},
		},
	}
}

func noParamScript() *registry.Script {
	return &registry.Script{Name: "Health_Check", Path: "/scripts/Health_Check.ps1"}
}

func TestMachine_HappyPath(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	script := twoParamScript()

	effect, err := m.Select(script)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if effect.Kind != EffectCollect {
		t.Fatalf("Select() effect = %v, want EffectCollect", effect.Kind)
	}
	if m.State() != StateCollecting {
		t.Fatalf("state = %v, want collecting", m.State())
	}
	// Defaults pre-populate the form.
	if effect.Fields[1].Value != "E5" {
		t.Errorf("Sku field pre-population = %q, want E5", effect.Fields[1].Value)
	}

	effect, err = m.Submit(map[string]string{"Upn": "ada@contoso.com", "Sku": ""})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if effect.Kind != EffectConfirm || m.State() != StateConfirming {
		t.Fatalf("Submit() effect = %v state = %v, want confirm/confirming", effect.Kind, m.State())
	}
	// Empty entry falls back to the declared default.
	if effect.Summary[1].Value != "E5" {
		t.Errorf("Sku summary = %q, want default E5", effect.Summary[1].Value)
	}

	effect, err = m.Confirm(DecisionExecute)
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if effect.Kind != EffectExecute || m.State() != StateExecuting {
		t.Fatalf("Confirm() effect = %v state = %v, want execute/executing", effect.Kind, m.State())
	}
	if effect.Request.Values["Upn"] != "ada@contoso.com" || effect.Request.Values["Sku"] != "E5" {
		t.Errorf("request values = %+v", effect.Request.Values)
	}

	result := &runner.Result{Outcome: runner.OutcomeSuccess}
	effect, err = m.Finish(result)
	if err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	if effect.Kind != EffectDone || m.State() != StateCompleted {
		t.Fatalf("Finish() effect = %v state = %v, want done/completed", effect.Kind, m.State())
	}
	if m.Result() != result {
		t.Error("Result() does not return the recorded result")
	}

	m.Reset()
	if m.State() != StateIdle || m.Script() != nil || m.Result() != nil {
		t.Error("Reset() did not clear the machine")
	}
}

func TestMachine_MissingRequiredStaysCollecting(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	if _, err := m.Select(twoParamScript()); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	effect, err := m.Submit(map[string]string{"Upn": "   ", "Sku": "E3"})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if effect.Kind != EffectCollect || m.State() != StateCollecting {
		t.Fatalf("rejected Submit() effect = %v state = %v, want collect/collecting", effect.Kind, m.State())
	}
	if len(effect.Missing) != 1 || effect.Missing[0] != "UPN (User Principal Name)" {
		t.Errorf("Missing = %v", effect.Missing)
	}
	// Entered values survive the rejection.
	if effect.Fields[1].Value != "E3" {
		t.Errorf("Sku field after rejection = %q, want E3", effect.Fields[1].Value)
	}

	// Correcting the value proceeds normally.
	effect, err = m.Submit(map[string]string{"Upn": "ada@contoso.com", "Sku": "E3"})
	if err != nil {
		t.Fatalf("corrected Submit() error: %v", err)
	}
	if effect.Kind != EffectConfirm {
		t.Errorf("corrected Submit() effect = %v, want EffectConfirm", effect.Kind)
	}
}

func TestMachine_RetryRoundTripsValues(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	if _, err := m.Select(twoParamScript()); err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if _, err := m.Submit(map[string]string{"Upn": "ada@contoso.com", "Sku": "E3"}); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	effect, err := m.Confirm(DecisionRetry)
	if err != nil {
		t.Fatalf("Confirm(retry) error: %v", err)
	}
	if effect.Kind != EffectCollect || m.State() != StateCollecting {
		t.Fatalf("retry effect = %v state = %v, want collect/collecting", effect.Kind, m.State())
	}
	// The form comes back with exactly the values just entered.
	if effect.Fields[0].Value != "ada@contoso.com" || effect.Fields[1].Value != "E3" {
		t.Errorf("retry fields = %+v", effect.Fields)
	}
}

func TestMachine_SecretsMaskedInSummary(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	if _, err := m.Select(secretScript()); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	effect, err := m.Submit(map[string]string{"Upn": "ada@contoso.com", "TempPassword": "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if effect.Summary[1].Value != maskedValue {
		t.Errorf("secret summary value = %q, want masked", effect.Summary[1].Value)
	}
	if !effect.Summary[1].Secret {
		t.Error("secret summary row not flagged")
	}

	// The execution request still carries the real value.
	execEffect, err := m.Confirm(DecisionExecute)
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if execEffect.Request.Values["TempPassword"] != "hunter2hunter2" {
		t.Errorf("request value = %q, want the unmasked secret", execEffect.Request.Values["TempPassword"])
	}
}

func TestMachine_CancelNeverSpawns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prepare func(t *testing.T, m *Machine)
	}{
		{
			name: "from collecting",
			prepare: func(t *testing.T, m *Machine) {
				t.Helper()
				if _, err := m.Select(twoParamScript()); err != nil {
					t.Fatalf("Select() error: %v", err)
				}
			},
		},
		{
			name: "from confirming",
			prepare: func(t *testing.T, m *Machine) {
				t.Helper()
				if _, err := m.Select(twoParamScript()); err != nil {
					t.Fatalf("Select() error: %v", err)
				}
				if _, err := m.Submit(map[string]string{"Upn": "ada@contoso.com"}); err != nil {
					t.Fatalf("Submit() error: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			slot := NewSlot()
			m := NewMachine(slot)
			tt.prepare(t, m)

			effect, err := m.Cancel()
			if err != nil {
				t.Fatalf("Cancel() error: %v", err)
			}
			if effect.Kind != EffectDone || effect.Request != nil {
				t.Errorf("Cancel() effect = %+v, want done with no request", effect)
			}
			if m.State() != StateCancelled {
				t.Errorf("state = %v, want cancelled", m.State())
			}
			if slot.Busy() {
				t.Error("slot busy after cancel; nothing should have been claimed")
			}
		})
	}
}

func TestMachine_ZeroParamsExecutesDirectly(t *testing.T) {
	t.Parallel()

	slot := NewSlot()
	m := NewMachine(slot)

	effect, err := m.Select(noParamScript())
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if effect.Kind != EffectExecute || m.State() != StateExecuting {
		t.Fatalf("Select() effect = %v state = %v, want execute/executing", effect.Kind, m.State())
	}
	if !slot.Busy() {
		t.Error("slot free while executing")
	}

	if _, err := m.Finish(&runner.Result{Outcome: runner.OutcomeSuccess}); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	if slot.Busy() {
		t.Error("slot busy after finish")
	}
}

func TestMachine_SelectSwitch(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	script := &registry.Script{
		Name:        "Manage_Licenses",
		Path:        "/scripts/Manage_Licenses.ps1",
		HasSwitches: true,
		Parameters: []registry.Parameter{
			{Name: "Upn", Prompt: "UPN (User Principal Name)", Required: true},
		},
	}

	effect, err := m.SelectSwitch(script, registry.SwitchListLicenses)
	if err != nil {
		t.Fatalf("SelectSwitch() error: %v", err)
	}
	if effect.Kind != EffectExecute {
		t.Fatalf("SelectSwitch() effect = %v, want EffectExecute", effect.Kind)
	}
	if effect.Request.Switch != registry.SwitchListLicenses {
		t.Errorf("request switch = %q", effect.Request.Switch)
	}
	// Switch invocations skip required-parameter validation.
	if err := effect.Request.Validate(); err != nil {
		t.Errorf("switch request Validate() error: %v", err)
	}
}

func TestMachine_SelectSwitchWithoutSwitches(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	if _, err := m.SelectSwitch(twoParamScript(), registry.SwitchListLicenses); err == nil {
		t.Fatal("SelectSwitch() on a switchless script should fail")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle after refused switch", m.State())
	}
}

func TestMachine_ExclusiveSlotRefusesSecondExecution(t *testing.T) {
	t.Parallel()

	slot := NewSlot()
	first := NewMachine(slot)
	second := NewMachine(slot)

	if _, err := first.Select(noParamScript()); err != nil {
		t.Fatalf("first Select() error: %v", err)
	}

	// A second session may collect and confirm, but not execute.
	if _, err := second.Select(twoParamScript()); err != nil {
		t.Fatalf("second Select() error: %v", err)
	}
	if _, err := second.Submit(map[string]string{"Upn": "ada@contoso.com"}); err != nil {
		t.Fatalf("second Submit() error: %v", err)
	}

	_, err := second.Confirm(DecisionExecute)
	if !errors.Is(err, ErrExecutionInFlight) {
		t.Fatalf("Confirm(execute) error = %v, want ErrExecutionInFlight", err)
	}
	if second.State() != StateConfirming {
		t.Errorf("second machine state = %v, want confirming after refusal", second.State())
	}

	// Finishing the first invocation frees the slot for the second.
	if _, err := first.Finish(&runner.Result{Outcome: runner.OutcomeSuccess}); err != nil {
		t.Fatalf("first Finish() error: %v", err)
	}
	if _, err := second.Confirm(DecisionExecute); err != nil {
		t.Errorf("Confirm(execute) after release error: %v", err)
	}
}

func TestMachine_FailMapsToCompletedFailure(t *testing.T) {
	t.Parallel()

	slot := NewSlot()
	m := NewMachine(slot)
	if _, err := m.Select(noParamScript()); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	cause := errors.New("interpreter vanished")
	effect, err := m.Fail(cause)
	if err != nil {
		t.Fatalf("Fail() error: %v", err)
	}
	if m.State() != StateCompleted {
		t.Errorf("state = %v, want completed", m.State())
	}
	if effect.Result.Outcome != runner.OutcomeFailure || !errors.Is(effect.Result.Err, cause) {
		t.Errorf("Fail() result = %+v", effect.Result)
	}
	if slot.Busy() {
		t.Error("slot busy after Fail()")
	}
}

func TestMachine_InvalidIntents(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)

	if _, err := m.Submit(nil); !errors.Is(err, ErrInvalidIntent) {
		t.Errorf("Submit() in idle error = %v, want ErrInvalidIntent", err)
	}
	if _, err := m.Confirm(DecisionExecute); !errors.Is(err, ErrInvalidIntent) {
		t.Errorf("Confirm() in idle error = %v, want ErrInvalidIntent", err)
	}
	if _, err := m.Cancel(); !errors.Is(err, ErrInvalidIntent) {
		t.Errorf("Cancel() in idle error = %v, want ErrInvalidIntent", err)
	}
	if _, err := m.Finish(nil); !errors.Is(err, ErrInvalidIntent) {
		t.Errorf("Finish() in idle error = %v, want ErrInvalidIntent", err)
	}

	var intentErr *IntentError
	_, err := m.Submit(nil)
	if !errors.As(err, &intentErr) {
		t.Fatalf("error type = %T, want *IntentError", err)
	}
	if intentErr.State != StateIdle {
		t.Errorf("IntentError.State = %v, want idle", intentErr.State)
	}
}
