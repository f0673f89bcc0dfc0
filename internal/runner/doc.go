// SPDX-License-Identifier: MPL-2.0

// Package runner spawns the PowerShell interpreter for a resolved execution
// request, drains stdout and stderr concurrently while the child runs, and
// classifies the outcome from the exit status. The interpreter is resolved
// on the search path before anything is spawned.
package runner
