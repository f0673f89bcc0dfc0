// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"testing"

	"github.com/BigZano/365Adm-TUI/internal/registry"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	script := &registry.Script{
		Name: "Sample",
		Parameters: []registry.Parameter{
			{Name: "Upn", Prompt: "UPN (User Principal Name)", Required: true},
			{Name: "Sku", Prompt: "SKU"},
			{Name: "Zone", Prompt: "Zone", Required: true},
		},
	}

	tests := []struct {
		name        string
		req         Request
		wantMissing []string
	}{
		{
			name: "all required present",
			req: Request{
				Script: script,
				Values: map[string]string{"Upn": "ada@contoso.com", "Zone": "EU"},
			},
		},
		{
			name: "whitespace counts as missing",
			req: Request{
				Script: script,
				Values: map[string]string{"Upn": "   ", "Zone": "EU"},
			},
			wantMissing: []string{"UPN (User Principal Name)"},
		},
		{
			name:        "multiple missing sorted by prompt",
			req:         Request{Script: script, Values: map[string]string{}},
			wantMissing: []string{"UPN (User Principal Name)", "Zone"},
		},
		{
			name: "switch invocation skips checks",
			req:  Request{Script: script, Switch: "ListLicenses"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if len(tt.wantMissing) == 0 {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrMissingRequired) {
				t.Fatalf("Validate() error = %v, want ErrMissingRequired", err)
			}
			var missing *MissingRequiredError
			if !errors.As(err, &missing) {
				t.Fatalf("error type = %T, want *MissingRequiredError", err)
			}
			if len(missing.Prompts) != len(tt.wantMissing) {
				t.Fatalf("Prompts = %v, want %v", missing.Prompts, tt.wantMissing)
			}
			for i := range missing.Prompts {
				if missing.Prompts[i] != tt.wantMissing[i] {
					t.Errorf("Prompts[%d] = %q, want %q", i, missing.Prompts[i], tt.wantMissing[i])
				}
			}
		})
	}
}

func TestResult_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "stderr wins",
			result: Result{Stdout: "some output", Stderr: "the real diagnostic"},
			want:   "the real diagnostic",
		},
		{
			name:   "stdout fallback",
			result: Result{Stdout: "error text on stdout", Stderr: "  \n "},
			want:   "error text on stdout",
		},
		{
			name:   "infrastructure error fallback",
			result: Result{Err: errors.New("spawn failed")},
			want:   "spawn failed",
		},
		{
			name:   "nothing available",
			result: Result{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.result.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	if OutcomeSuccess.String() != "success" || OutcomeFailure.String() != "failure" {
		t.Error("Outcome.String() renders unexpected names")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	if !ExitCode(0).IsSuccess() {
		t.Error("ExitCode(0).IsSuccess() = false")
	}
	if ExitCode(3).IsSuccess() {
		t.Error("ExitCode(3).IsSuccess() = true")
	}
	if ExitCode(3).String() != "3" {
		t.Errorf("ExitCode(3).String() = %q", ExitCode(3).String())
	}
}
