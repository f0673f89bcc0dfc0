// SPDX-License-Identifier: MPL-2.0

// Package registry discovers PowerShell scripts in a directory and extracts
// their invocation metadata: a human description from the leading comment and
// the parameter contract from the param(...) block. Discovered scripts are
// exposed as immutable descriptors; a parse failure skips the single file and
// never fails discovery as a whole.
package registry
