// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the launcher TUI to remote operators over SSH.
// Each connection gets its own session model; all sessions share one
// registry and one exclusive execution slot, so concurrent remote operators
// cannot run scripts simultaneously.
package sshserver
