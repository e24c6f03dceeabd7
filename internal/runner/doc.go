// SPDX-License-Identifier: MPL-2.0

// Package runner executes planned invocations and the shell commands their
// bodies issue.
//
// Two shells are available:
//   - native: the host shell (bash, falling back to sh; PowerShell or cmd on Windows),
//     optionally attached to a pseudo-terminal
//   - virtual: an embedded POSIX shell interpreter (mvdan/sh)
//
// Context is handed to every task body. It carries the dispatch-wide run
// settings (echo, hide, pty, warn) and mirrors or captures command output.
// Executor adapts task bodies to the planner's Executor interface.
package runner
