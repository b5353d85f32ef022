// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for packwrap tests.
//
// The fake pack200/unpack200 tool re-executes the test binary: a test package
// declares
//
//	func TestHelperProcess(t *testing.T) { testutil.RunFakeTool() }
//
// and injects FakeToolCommand into the invoker. File helpers (MustWriteFile,
// MustWriteJar) fail the test immediately on error.
package testutil
