// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultInterpreter is the PowerShell binary resolved on the search path.
const DefaultInterpreter = "pwsh"

// defaultProgressEvery is how many captured lines pass between progress
// snapshots. Purely a presentation cadence; capture is always complete.
const defaultProgressEvery = 4

// scanBufferSize caps a single captured output line.
const scanBufferSize = 1024 * 1024

// ErrInterpreterNotFound is the sentinel error wrapped by InterpreterNotFoundError.
var ErrInterpreterNotFound = errors.New("interpreter not found")

// defaultBaseArgs put the interpreter in non-interactive, no-profile mode
// before the script path is appended.
var defaultBaseArgs = []string{"-NoProfile", "-NonInteractive", "-File"}

type (
	// InterpreterNotFoundError indicates the interpreter binary could not be
	// resolved on the search path. Nothing is spawned when this is returned.
	InterpreterNotFoundError struct {
		// Interpreter is the binary name that failed to resolve.
		Interpreter string
	}

	// Snapshot is a point-in-time copy of the accumulated output, published
	// periodically while the child runs so callers can display progress.
	Snapshot struct {
		Stdout string
		Stderr string
	}

	// ProgressFunc receives periodic output snapshots during execution.
	ProgressFunc func(Snapshot)

	// Runner executes scripts through an external interpreter.
	//
	// No execution timeout is enforced: a hung child blocks the invocation
	// until the context is cancelled. Cancelling the context (e.g. on
	// session teardown) kills the child to avoid process leakage.
	Runner struct {
		// Interpreter is the binary name or path (default: pwsh).
		Interpreter string
		// BaseArgs are passed before the script path
		// (default: -NoProfile -NonInteractive -File).
		BaseArgs []string
		// ProgressEvery is the line cadence for progress snapshots.
		ProgressEvery int
		// Logger receives execution diagnostics.
		Logger *log.Logger
	}

	// streamBuffer accumulates decoded lines from one output stream.
	streamBuffer struct {
		mu    sync.Mutex
		lines []string
	}
)

// Error implements the error interface.
func (e *InterpreterNotFoundError) Error() string {
	return fmt.Sprintf("interpreter '%s' not found on PATH", e.Interpreter)
}

// Unwrap returns ErrInterpreterNotFound so callers can use errors.Is.
func (e *InterpreterNotFoundError) Unwrap() error { return ErrInterpreterNotFound }

// Remediation returns the operator-facing hint for resolving the failure.
func (e *InterpreterNotFoundError) Remediation() string {
	return fmt.Sprintf(
		"Install PowerShell 7+ and ensure '%s' is on your PATH (https://aka.ms/powershell).",
		e.Interpreter)
}

// New creates a Runner with default interpreter settings.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Interpreter:   DefaultInterpreter,
		ProgressEvery: defaultProgressEvery,
		Logger:        logger,
	}
}

// Preflight resolves the interpreter binary against the search path.
// On failure it returns an InterpreterNotFoundError and nothing is spawned.
func (r *Runner) Preflight() (string, error) {
	name := r.interpreter()
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &InterpreterNotFoundError{Interpreter: name}
	}
	return path, nil
}

// Execute runs the request's script to completion and classifies the result.
// The request is validated first; a request with missing required values is
// never spawned. Stdout and stderr are drained concurrently and are fully
// consumed before the exit status is awaited, so no output is truncated.
// progress may be nil.
func (r *Runner) Execute(ctx context.Context, req Request, progress ProgressFunc) *Result {
	if err := req.Validate(); err != nil {
		return &Result{Outcome: OutcomeFailure, Err: err}
	}

	interpreterPath, err := r.Preflight()
	if err != nil {
		return &Result{Outcome: OutcomeFailure, Err: err}
	}

	argv := r.buildArgs(req)
	r.Logger.Info("executing script", "script", req.Script.Name, "interpreter", interpreterPath)
	r.Logger.Debug("child argv", "args", argv)

	cmd := exec.CommandContext(ctx, interpreterPath, argv...)
	// Stdin stays unset so the child reads from the null device and can
	// never block waiting on a prompt.

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return &Result{Outcome: OutcomeFailure, Err: fmt.Errorf("open stdout pipe: %w", err)}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return &Result{Outcome: OutcomeFailure, Err: fmt.Errorf("open stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &Result{Outcome: OutcomeFailure, Err: fmt.Errorf("start %s: %w", req.Script.Name, err)}
	}

	var stdout, stderr streamBuffer
	notify := r.progressNotifier(&stdout, &stderr, progress)

	var wg sync.WaitGroup
	wg.Add(2)
	go r.drain(stdoutPipe, &stdout, notify, &wg)
	go r.drain(stderrPipe, &stderr, notify, &wg)

	// Both streams must hit EOF before the exit status is observed,
	// guaranteeing complete capture.
	wg.Wait()
	waitErr := cmd.Wait()

	result := &Result{
		Stdout: stdout.text(),
		Stderr: stderr.text(),
	}
	if progress != nil {
		progress(Snapshot{Stdout: result.Stdout, Stderr: result.Stderr})
	}

	switch {
	case waitErr == nil:
		result.Outcome = OutcomeSuccess
	default:
		result.Outcome = OutcomeFailure
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = ExitCode(exitErr.ExitCode())
		} else {
			result.ExitCode = 1
			result.Err = waitErr
		}
	}

	r.Logger.Info("script finished",
		"script", req.Script.Name,
		"exit_code", result.ExitCode,
		"outcome", result.Outcome)
	return result
}

// buildArgs assembles the child argv: base interpreter flags, the script
// path, then either the distinguished switch flag or a -Name value pair per
// resolved parameter in descriptor order.
func (r *Runner) buildArgs(req Request) []string {
	base := r.BaseArgs
	if base == nil {
		base = defaultBaseArgs
	}

	argv := make([]string, 0, len(base)+1+2*len(req.Script.Parameters))
	argv = append(argv, base...)
	argv = append(argv, req.Script.Path)

	if req.Switch != "" {
		return append(argv, "-"+req.Switch)
	}

	for _, p := range req.Script.Parameters {
		value, ok := req.Values[p.Name]
		if !ok {
			continue
		}
		argv = append(argv, "-"+p.Name, value)
	}
	return argv
}

// drain reads one stream line by line until EOF, substituting the Unicode
// replacement character for invalid byte sequences rather than failing.
func (r *Runner) drain(stream io.Reader, buf *streamBuffer, notify func(), wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferSize)
	for scanner.Scan() {
		buf.append(strings.ToValidUTF8(scanner.Text(), "�"))
		notify()
	}
	if err := scanner.Err(); err != nil {
		// Read errors after the child dies are expected; log and move on.
		r.Logger.Debug("stream read ended", "err", err)
	}
}

// progressNotifier returns a callback invoked per captured line that
// publishes a combined snapshot every ProgressEvery lines.
func (r *Runner) progressNotifier(stdout, stderr *streamBuffer, progress ProgressFunc) func() {
	if progress == nil {
		return func() {}
	}
	every := r.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	var mu sync.Mutex
	var count int
	return func() {
		mu.Lock()
		count++
		publish := count%every == 0
		mu.Unlock()
		if publish {
			progress(Snapshot{Stdout: stdout.text(), Stderr: stderr.text()})
		}
	}
}

func (r *Runner) interpreter() string {
	if r.Interpreter != "" {
		return r.Interpreter
	}
	return DefaultInterpreter
}

func (b *streamBuffer) append(line string) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()
}

func (b *streamBuffer) text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}
