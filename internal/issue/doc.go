// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context: ActionableError carries
// the failed operation, the resource involved, and remediation suggestions;
// the issue catalog renders markdown help cards for the well-known failure
// modes of the launcher (missing interpreter, unreadable scripts directory,
// failed execution, broken configuration).
package issue
