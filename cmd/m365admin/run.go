// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/BigZano/365Adm-TUI/internal/issue"
	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/runner"
)

var (
	// runParams holds repeated --param Name=value flags.
	runParams []string
	// runValuesFile is a TOML file of parameter values.
	runValuesFile string
	// runListLicenses selects the distinguished switch invocation.
	runListLicenses bool

	// runCmd executes one script non-interactively.
	runCmd = &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script non-interactively",
		Long: `Run a discovered script without the interactive picker.

Values resolve in order: the script's declared defaults, then a --values
TOML file, then repeated --param flags. Every required parameter must end
up non-empty or nothing is executed.`,
		Args: cobra.ExactArgs(1),
		RunE: runScript,
	}
)

func init() {
	runCmd.Flags().StringArrayVar(&runParams, "param", nil, "parameter value as Name=value (repeatable)")
	runCmd.Flags().StringVar(&runValuesFile, "values", "", "TOML file of parameter values")
	runCmd.Flags().BoolVar(&runListLicenses, "list-licenses", false, "invoke the script's -ListLicenses switch instead of passing parameters")
}

func runScript(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	script, ok := a.registry.Get(args[0])
	if !ok {
		return scriptNotFoundError(args[0], a.registry.Names())
	}

	req := runner.Request{Script: script}
	if runListLicenses {
		if !script.HasSwitches {
			return fmt.Errorf("script '%s' declares no utility switches", script.Name)
		}
		req.Switch = registry.SwitchListLicenses
	} else {
		values, err := resolveValues(script)
		if err != nil {
			return err
		}
		req.Values = values
	}

	result := a.runner.Execute(cmd.Context(), req, nil)
	return reportResult(script, result)
}

// resolveValues layers the declared defaults, the --values file, and the
// --param flags, rejecting names the script does not declare.
func resolveValues(script *registry.Script) (map[string]string, error) {
	values := script.Defaults()

	if runValuesFile != "" {
		fromFile, err := loadValuesFile(runValuesFile)
		if err != nil {
			return nil, err
		}
		for name, value := range fromFile {
			if _, ok := script.Param(name); !ok {
				return nil, unknownParamError(script, name, runValuesFile)
			}
			values[name] = value
		}
	}

	for _, pair := range runParams {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid --param %q: expected Name=value", pair)
		}
		if _, ok := script.Param(name); !ok {
			return nil, unknownParamError(script, name, "--param")
		}
		values[name] = value
	}

	return values, nil
}

// loadValuesFile reads a flat TOML table of parameter values. Non-string
// values are rendered with their natural formatting.
func loadValuesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values file: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse values file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for name, value := range raw {
		values[name] = fmt.Sprint(value)
	}
	return values, nil
}

// reportResult prints the captured output and maps the classification to the
// process exit code.
func reportResult(script *registry.Script, result *runner.Result) error {
	if out := strings.TrimSpace(result.Stdout); out != "" {
		fmt.Println(out)
	}
	if errOut := strings.TrimSpace(result.Stderr); errOut != "" {
		fmt.Fprintln(os.Stderr, errOut)
	}

	if result.Success() {
		fmt.Println(SuccessStyle.Render("✓ " + registry.DisplayName(script.Name) + " succeeded"))
		return nil
	}

	var missing *runner.MissingRequiredError
	if errors.As(result.Err, &missing) {
		return issue.NewErrorContext().
			WithOperation("run " + script.Name).
			WithSuggestion("Provide the missing values with --param or --values").
			WithSuggestion("Run 'm365admin scripts' to see what the script needs").
			Wrap(missing).
			BuildError()
	}

	var notFound *runner.InterpreterNotFoundError
	if errors.As(result.Err, &notFound) {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(notFound.Error()))
		fmt.Fprintln(os.Stderr, notFound.Remediation())
		return &ExitError{Code: 1, Err: notFound}
	}

	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+registry.DisplayName(script.Name)+
		" failed (exit code "+result.ExitCode.String()+")"))
	code := result.ExitCode
	if code == 0 {
		code = 1
	}
	return &ExitError{Code: code, Err: result.Err}
}

// scriptNotFoundError builds the actionable error for an unknown script name.
func scriptNotFoundError(name string, available []string) error {
	builder := issue.NewErrorContext().
		WithOperation("run script").
		WithResource(name)
	if len(available) > 0 {
		builder = builder.WithSuggestion("Available: " + strings.Join(available, ", "))
	}
	return builder.
		WithSuggestion("Run 'm365admin scripts' to list discovered scripts").
		Wrap(fmt.Errorf("script '%s' not found", name)).
		BuildError()
}

// unknownParamError builds the actionable error for a value whose name the
// script does not declare.
func unknownParamError(script *registry.Script, name, source string) error {
	declared := make([]string, 0, len(script.Parameters))
	for _, p := range script.Parameters {
		declared = append(declared, p.Name)
	}
	return issue.NewErrorContext().
		WithOperation("run " + script.Name).
		WithResource(source).
		WithSuggestion("Declared parameters: " + strings.Join(declared, ", ")).
		Wrap(fmt.Errorf("script '%s' declares no parameter '%s'", script.Name, name)).
		BuildError()
}
