// SPDX-License-Identifier: MPL-2.0

// Package config loads launcher settings from defaults, an optional CUE
// config file validated against an embedded schema, and M365_* environment
// variables, in that order of precedence.
package config
