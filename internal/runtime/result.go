// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

// FailureMessage is the user-facing message of every failed invocation.
const FailureMessage = "Command is failed."

// ErrCommandFailed is the sentinel error wrapped by CommandFailedError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Result is the outcome of one process invocation.
	Result struct {
		// ExitCode is the exit status of the process, or ExitCodeLaunchFailure
		// if it could not be started.
		ExitCode ExitCode
		// Error is nil on success and a *CommandFailedError otherwise.
		Error error
	}

	// CommandFailedError reports a process that exited with an unaccepted
	// status or could not be run. errors.Is matches ErrCommandFailed and,
	// through Cause, the underlying exec error.
	CommandFailedError struct {
		Executable string
		ExitCode   ExitCode
		Cause      error
	}
)

// NewSuccessResult creates a Result with exit code 0.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewFailureResult creates a Result carrying a CommandFailedError.
func NewFailureResult(executable string, code ExitCode, cause error) *Result {
	return &Result{
		ExitCode: code,
		Error:    &CommandFailedError{Executable: executable, ExitCode: code, Cause: cause},
	}
}

// Success reports whether the invocation succeeded.
func (r *Result) Success() bool {
	return r != nil && r.Error == nil && r.ExitCode.IsSuccess()
}

// Err returns the failure, or nil on success. A nil Result is a failure.
func (r *Result) Err() error {
	if r == nil {
		return &CommandFailedError{ExitCode: ExitCodeLaunchFailure, Cause: errors.New("no result")}
	}
	return r.Error
}

// Error implements the error interface.
func (e *CommandFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", FailureMessage, e.Executable, e.Cause)
	}
	return fmt.Sprintf("%s %s exited with status %s", FailureMessage, e.Executable, e.ExitCode)
}

// Is reports whether target is ErrCommandFailed.
func (e *CommandFailedError) Is(target error) bool { return target == ErrCommandFailed }

// Unwrap returns the underlying cause.
func (e *CommandFailedError) Unwrap() error { return e.Cause }
