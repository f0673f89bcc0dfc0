// SPDX-License-Identifier: MPL-2.0

// Package workflow models one script invocation as an explicit finite-state
// machine: parameter values are collected and confirmed (with a retry loop),
// then the resolved request is executed exactly once. Entry into the
// Executing state is guarded by a single-slot gate shared by the whole
// application, so at most one script runs at a time. The machine is pure:
// intents go in, the next state and a side-effect request come out, which
// keeps it unit-testable without any rendering surface.
package workflow
