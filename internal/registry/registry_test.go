// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr)
}

func TestRegistry_Discover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "Create_User.ps1", "# Creates a new tenant user account\nparam(\n    [string]$DisplayName\n)\n")
	writeScript(t, dir, "Export_Report.PS1", "# Exports the monthly usage report\nparam()\n")
	writeScript(t, dir, "notes.txt", "not a script")
	if err := os.Mkdir(filepath.Join(dir, "nested.ps1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	reg := New(dir, testLogger())
	scripts := reg.Discover()

	if len(scripts) != 2 {
		t.Fatalf("Discover() found %d scripts, want 2: %+v", len(scripts), scripts)
	}
	// Extension matching is case-insensitive; directories and other files
	// are ignored.
	wantNames := []string{"Create_User", "Export_Report"}
	for i, name := range reg.Names() {
		if name != wantNames[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, name, wantNames[i])
		}
	}
}

func TestRegistry_Discover_MissingDir(t *testing.T) {
	t.Parallel()

	reg := New(filepath.Join(t.TempDir(), "does-not-exist"), testLogger())
	if scripts := reg.Discover(); scripts != nil {
		t.Errorf("Discover() on a missing directory = %+v, want empty", scripts)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistry_Rediscover_ReplacesSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "First.ps1", "# The original script before the rescan\nparam()\n")

	reg := New(dir, testLogger())
	reg.Discover()
	first, ok := reg.Get("First")
	if !ok {
		t.Fatal("Get(First) not found after discovery")
	}

	writeScript(t, dir, "Second.ps1", "# A script added between discoveries\nparam()\n")
	if err := os.Remove(filepath.Join(dir, "First.ps1")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	reg.Discover()
	if _, ok := reg.Get("First"); ok {
		t.Error("Get(First) still present after the file was removed")
	}
	second, ok := reg.Get("Second")
	if !ok {
		t.Fatal("Get(Second) not found after re-discovery")
	}
	if first.Equal(second) {
		t.Error("descriptors from different files compare equal")
	}
}

func TestRegistry_Rediscover_UnchangedDirYieldsEqualDescriptors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "Stable.ps1", "# A script that never changes between scans\nparam(\n    [string]$Upn\n)\n")

	reg := New(dir, testLogger())
	reg.Discover()
	before, _ := reg.Get("Stable")

	reg.Discover()
	after, _ := reg.Get("Stable")

	if before == after {
		t.Fatal("re-discovery should build fresh descriptors")
	}
	if !before.Equal(after) {
		t.Errorf("descriptors differ across scans of an unchanged directory:\n%+v\n%+v", before, after)
	}
}

func TestRegistry_DescriptionOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "Tuned.ps1", "# The extracted description nobody will see\nparam()\n")

	reg := New(dir, testLogger())
	reg.SetDescriptionOverrides(map[string]string{"Tuned": "Curated description"})
	reg.Discover()

	script, ok := reg.Get("Tuned")
	if !ok {
		t.Fatal("Get(Tuned) not found")
	}
	if script.Description != "Curated description" {
		t.Errorf("Description = %q, want override", script.Description)
	}
}

func TestRegistry_ParameterDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "Export_Mailboxes.ps1", `# Exports mailbox statistics to a report file
param(
    [string]$OutputPath,
    [string]$MailboxType = "All"
)
`)

	reg := New(dir, testLogger())
	reg.SetParameterDefaults(map[string]string{"OutputPath": "/reports"})
	reg.Discover()

	script, ok := reg.Get("Export_Mailboxes")
	if !ok {
		t.Fatal("Get(Export_Mailboxes) not found")
	}

	outputPath, _ := script.Param("OutputPath")
	if outputPath.Default != "/reports" {
		t.Errorf("OutputPath default = %q, want the launcher-supplied value", outputPath.Default)
	}
	// Declared defaults always win over launcher-supplied ones.
	mailboxType, _ := script.Param("MailboxType")
	if mailboxType.Default != "All" {
		t.Errorf("MailboxType default = %q, want the declared All", mailboxType.Default)
	}
}

func TestScript_DefaultsAndSecret(t *testing.T) {
	t.Parallel()

	script := &Script{
		Name: "Sample",
		Parameters: []Parameter{
			{Name: "Upn", Required: true},
			{Name: "TempPassword", Secret: true},
			{Name: "Sku", Default: "E5"},
		},
	}

	defaults := script.Defaults()
	if len(defaults) != 3 || defaults["Sku"] != "E5" || defaults["Upn"] != "" {
		t.Errorf("Defaults() = %+v", defaults)
	}

	if !script.IsSecret("TempPassword") {
		t.Error("IsSecret(TempPassword) = false, want true")
	}
	if script.IsSecret("Upn") || script.IsSecret("Unknown") {
		t.Error("IsSecret() true for a non-secret or unknown name")
	}
}
