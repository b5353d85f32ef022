// SPDX-License-Identifier: MPL-2.0

// Package runtime runs assembled pack200 and unpack200 command lines as child
// processes.
//
// An Invoker executes exactly one process per call and blocks until it exits.
// The outcome is returned as an explicit *Result instead of a panic or a bare
// error: a zero (or otherwise accepted) exit code is success, and every other
// outcome carries a *CommandFailedError with the exit code and the underlying
// cause. Context cancellation kills the child; there is no timeout and no retry.
package runtime
