// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"regexp"
	"strings"
)

var (
	// strippedWordsRe removes the standalone words "script" and "ps1" from
	// display names.
	strippedWordsRe = regexp.MustCompile(`(?i)\b(script|ps1)\b`)

	// promptOverrides maps the spaced form of a parameter name to a richer
	// domain prompt. Matching is exact; unmatched forms pass through.
	promptOverrides = map[string]string{
		"Upn":                 "UPN (User Principal Name)",
		"Sku":                 "SKU",
		"Mfa":                 "MFA",
		"Display Name":        "Display Name (Full Name)",
		"User Principal Name": "User Principal Name (Email)",
		"Usage Location":      "Usage Location (2-letter country code)",
		"Password":            "Password (min 8 characters)",
		"License Index":       "License Index (0 to skip, or number from list)",
		"Target User Email":   "Target User Email",
		"Mailbox Type":        "Mailbox Type (All, UserMailbox, SharedMailbox, etc.)",
	}

	// acronyms maps lowercased words to their canonical rendering, preserving
	// domain abbreviations through title-casing.
	acronyms = map[string]string{
		"mfa":   "MFA",
		"mg":    "Mg",
		"upn":   "UPN",
		"sku":   "SKU",
		"graph": "Graph",
	}
)

// promptFor humanizes a parameter name: a space is inserted before every
// interior capital, then the spaced form is checked against the override
// table of domain abbreviations.
func promptFor(paramName string) string {
	spaced := strings.TrimSpace(spaceBeforeCaps(paramName))
	if override, ok := promptOverrides[spaced]; ok {
		return override
	}
	return spaced
}

// DisplayName formats a script name for presentation: separators and the
// words "script"/"ps1" are stripped, capitalization boundaries become word
// breaks, and each word is title-cased except acronym-table matches, then
// the words are concatenated without separators.
func DisplayName(scriptName string) string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(scriptName)
	name = strippedWordsRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	name = spaceBeforeCaps(name)

	var b strings.Builder
	for _, word := range strings.Fields(name) {
		lower := strings.ToLower(word)
		if canonical, ok := acronyms[lower]; ok {
			b.WriteString(canonical)
			continue
		}
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}

// spaceBeforeCaps inserts a space before each capital letter that is not at
// the start of the string. Consecutive capitals each get their own word
// break (UPNValue → U P N Value); title-casing reassembles acronym-table
// words from lowercase forms instead.
func spaceBeforeCaps(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
