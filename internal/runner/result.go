// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BigZano/365Adm-TUI/internal/registry"
)

// Outcome classification constants.
const (
	// OutcomeSuccess means the child exited with code 0.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure means the child exited nonzero or could not be run.
	OutcomeFailure
)

// ErrMissingRequired is the sentinel error wrapped by MissingRequiredError.
var ErrMissingRequired = errors.New("missing required parameter values")

type (
	// Outcome is the derived classification of an execution result.
	Outcome int

	// Request pairs a script descriptor with resolved parameter values.
	// A Request is only valid when every required parameter has a non-empty
	// value; Validate enforces this before anything is spawned.
	Request struct {
		// Script is the descriptor of the script to execute.
		Script *registry.Script
		// Values maps parameter names to resolved string values.
		Values map[string]string
		// Switch, when set, selects the distinguished single-flag invocation
		// form (e.g. "ListLicenses") that bypasses parameter passing.
		Switch string
	}

	// MissingRequiredError reports required parameters that resolved empty.
	// It wraps ErrMissingRequired for errors.Is() compatibility.
	MissingRequiredError struct {
		// Prompts lists the humanized labels of the missing parameters.
		Prompts []string
	}

	// Result is the classified outcome of one execution.
	Result struct {
		// ExitCode is the child's exit status.
		ExitCode ExitCode
		// Stdout is the accumulated standard-output text.
		Stdout string
		// Stderr is the accumulated standard-error text.
		Stderr string
		// Outcome is the derived classification.
		Outcome Outcome
		// Err holds any infrastructure failure (spawn, stream, wait).
		Err error
	}
)

// String returns the human-readable outcome name.
func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Error implements the error interface.
func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required parameter values: %s", strings.Join(e.Prompts, ", "))
}

// Unwrap returns ErrMissingRequired so callers can use errors.Is.
func (e *MissingRequiredError) Unwrap() error { return ErrMissingRequired }

// Validate reports whether every required parameter of the request's script
// resolves to a non-empty value. Switch invocations skip parameter checks.
func (q Request) Validate() error {
	if q.Switch != "" {
		return nil
	}
	var missing []string
	for _, p := range q.Script.Parameters {
		if p.Required && strings.TrimSpace(q.Values[p.Name]) == "" {
			missing = append(missing, p.Prompt)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingRequiredError{Prompts: missing}
	}
	return nil
}

// Success reports whether the result is classified as a success.
func (r *Result) Success() bool { return r.Outcome == OutcomeSuccess }

// Message builds the diagnostic for a failed execution: the accumulated
// standard-error text, falling back to standard output when stderr is empty,
// falling back to the infrastructure error.
func (r *Result) Message() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(r.Stdout); msg != "" {
		return msg
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}
