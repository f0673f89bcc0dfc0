// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"os"
	"regexp"
	"strings"
)

// descriptionScanLimit bounds how many leading lines are inspected for the
// description comment.
const descriptionScanLimit = 30

var (
	// paramBlockRe captures the top-level param( ... ) region up to the first
	// closing parenthesis at column 0. Indented closers belong to inner
	// attributes (multi-line ValidateSet and the like) and must not
	// terminate the block.
	paramBlockRe = regexp.MustCompile(`(?is)param\s*\((.*?)\n\)`)

	// sectionBoundaryRe marks commas that are immediately followed by an
	// opening bracket. Splitting on these tolerates defaults that contain
	// plain commas; a default containing the exact ", [" sequence is a known
	// limitation of this grammar.
	sectionBoundaryRe = regexp.MustCompile(`,\s*\[`)

	// mandatoryRe matches an explicit [Parameter(... Mandatory=$true/$false ...)]
	// attribute and captures the boolean literal.
	mandatoryRe = regexp.MustCompile(`(?i)\[Parameter\([^)]*Mandatory\s*=\s*\$(\w+)`)

	// tripleRe extracts the [type]$name = "default" triple. The default
	// portion is optional; sections that do not match are discarded.
	tripleRe = regexp.MustCompile(`\[(\w+)\]\s*\$(\w+)(?:\s*=\s*"?([^",\n]*)"?)?`)
)

// parseScript extracts a full descriptor from one script file. A read failure
// is returned to the caller so discovery can log and skip the file.
func parseScript(path, name string, overrides map[string]string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(raw)

	description, ok := overrides[name]
	if !ok {
		description = extractDescription(content, name)
	}

	hasSwitches := strings.Contains(content, "-ListLicenses") || strings.Contains(content, "switch]")
	switchDesc := ""
	if hasSwitches {
		switchDesc = SwitchHint
	}

	return &Script{
		Name:              name,
		Path:              path,
		Description:       description,
		Parameters:        extractParameters(content),
		HasSwitches:       hasSwitches,
		SwitchDescription: switchDesc,
	}, nil
}

// extractDescription returns the first meaningful comment within the leading
// lines of the script. A comment qualifies when its stripped text is longer
// than 10 characters and is not composed entirely of separator characters.
// Scanning stops at the first non-comment, non-blank line; comment-block
// openers (<#) do not stop the scan.
func extractDescription(content, name string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > descriptionScanLimit {
		lines = lines[:descriptionScanLimit]
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		// Skip shebang and empty lines.
		if stripped == "" || strings.HasPrefix(stripped, "#!") {
			continue
		}

		if strings.HasPrefix(stripped, "#") {
			desc := strings.TrimSpace(strings.TrimLeft(stripped, "#"))
			if len(desc) > 10 && !isSeparatorLine(desc) {
				return desc
			}
			continue
		}

		if !strings.HasPrefix(stripped, "<#") {
			break
		}
	}

	return "PowerShell script: " + name
}

// isSeparatorLine reports whether text contains nothing but dashes and equals.
func isSeparatorLine(text string) bool {
	trimmed := strings.TrimSpace(strings.NewReplacer("-", "", "=", "").Replace(text))
	return trimmed == ""
}

// extractParameters parses the param(...) block into prompted parameters.
// Switch-typed declarations are dropped; they are surfaced through the
// descriptor's HasSwitches flag instead.
func extractParameters(content string) []Parameter {
	block := paramBlockRe.FindStringSubmatch(content)
	if block == nil {
		return nil
	}

	var params []Parameter
	for _, section := range splitSections(block[1]) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		mandatory := mandatoryRe.FindStringSubmatch(section)
		explicitRequired := mandatory != nil && strings.EqualFold(mandatory[1], "true")

		triple := tripleRe.FindStringSubmatch(section)
		if triple == nil {
			continue
		}
		paramType, paramName, defaultValue := triple[1], triple[2], strings.TrimSpace(triple[3])

		if strings.EqualFold(paramType, "switch") {
			continue
		}

		required := explicitRequired
		if mandatory == nil {
			required = defaultValue == ""
		}

		params = append(params, Parameter{
			Name:     paramName,
			Prompt:   promptFor(paramName),
			Default:  defaultValue,
			Required: required,
			Secret:   strings.Contains(strings.ToLower(paramName), "password"),
		})
	}

	return params
}

// splitSections splits a param block's contents into per-parameter sections
// on commas immediately followed by an opening bracket. The bracket itself is
// kept with the following section.
func splitSections(block string) []string {
	boundaries := sectionBoundaryRe.FindAllStringIndex(block, -1)
	if boundaries == nil {
		return []string{block}
	}

	sections := make([]string, 0, len(boundaries)+1)
	start := 0
	for _, b := range boundaries {
		sections = append(sections, block[start:b[0]])
		start = b[1] - 1 // keep the '[' with the next section
	}
	sections = append(sections, block[start:])
	return sections
}
