// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error instead
// of returning it: environment variables (MustSetenv, MustUnsetenv, SetHomeDir),
// the working directory (MustChdir) and fixture files (MustMkdirAll,
// MustWriteFile).
package testutil
