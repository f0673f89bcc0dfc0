// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Well-known failure modes of the launcher.
const (
	// InterpreterNotFoundId covers a PowerShell binary missing from PATH.
	InterpreterNotFoundId Id = iota + 1
	// ScriptsDirNotFoundId covers a missing or unreadable scripts directory.
	ScriptsDirNotFoundId
	// ScriptExecutionFailedId covers a script that exited nonzero.
	ScriptExecutionFailedId
	// ConfigLoadFailedId covers an invalid or unreadable config file.
	ConfigLoadFailedId
	// SSHServeFailedId covers a remote TUI server that could not start.
	SSHServeFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is markdown text rendered into a terminal help card.
	MarkdownMsg string

	// HttpLink is a documentation or reference URL.
	HttpLink string

	// Issue is one catalog entry: a rendered help card plus reference links.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external reference links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render produces the terminal-formatted help card for this issue.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# PowerShell interpreter not found

The launcher could not resolve the PowerShell binary on your PATH, so no
script was started.

## Things you can try
- Install PowerShell 7 or newer
- Verify the installation:
~~~
$ pwsh -NoProfile -Command '$PSVersionTable'
~~~
- Point the launcher at a custom binary with the ` + "`interpreter`" + ` config key`,
		extLinks: []HttpLink{"https://aka.ms/powershell"},
	}

	scriptsDirNotFoundIssue = &Issue{
		id: ScriptsDirNotFoundId,
		mdMsg: `
# No scripts directory found

The configured scripts directory does not exist or is not readable, so there
is nothing to launch.

## Things you can try
- Create the directory and drop your *.ps1 scripts into it
- Point the launcher somewhere else:
~~~
$ m365admin config init
# then edit scripts_dir in the generated config
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed

The script exited with a nonzero status. The captured standard-error output
(shown above) is the diagnostic; standard output is used when stderr is empty.

## Things you can try
- Re-run with the same values and watch the streamed output
- Run the script manually to reproduce:
~~~
$ pwsh -NoProfile -NonInteractive -File <script.ps1> -Name value
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The config file exists but failed CUE validation or could not be read.
Defaults are used until the file is fixed.

## Things you can try
- Check the file against the schema with ` + "`m365admin config show`" + `
- Regenerate a known-good file:
~~~
$ m365admin config init --force
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	sshServeFailedIssue = &Issue{
		id: SSHServeFailedId,
		mdMsg: `
# Remote TUI server failed to start

The SSH server for the remote admin TUI could not bind or accept sessions.

## Things you can try
- Check that the configured address/port is free
- Verify the host key path is writable (it is generated on first start)`,
	}

	issues = map[Id]*Issue{
		InterpreterNotFoundId:   interpreterNotFoundIssue,
		ScriptsDirNotFoundId:    scriptsDirNotFoundIssue,
		ScriptExecutionFailedId: scriptExecutionFailedIssue,
		ConfigLoadFailedId:      configLoadFailedIssue,
		SSHServeFailedId:        sshServeFailedIssue,
	}
)

// Get returns the catalog entry for an id, or nil when unknown.
func Get(id Id) *Issue {
	return issues[id]
}

// All returns every catalog entry in unspecified order.
func All() []*Issue {
	return maps.Values(issues)
}
