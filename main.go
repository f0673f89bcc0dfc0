// SPDX-License-Identifier: MPL-2.0

// m365admin is an interactive launcher for Microsoft 365 PowerShell
// administration scripts. It discovers scripts, infers their parameters
// from the param(...) block, and runs them through pwsh.
package main

import (
	cmd "github.com/BigZano/365Adm-TUI/cmd/m365admin"
)

func main() {
	cmd.Execute()
}
