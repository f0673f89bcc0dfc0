// SPDX-License-Identifier: MPL-2.0

// Package tui renders the interactive launcher: a script picker, the
// parameter form, the confirmation summary, and the live execution output.
// All workflow decisions live in the workflow state machine; this package
// only translates key presses into intents and effects into views.
package tui
