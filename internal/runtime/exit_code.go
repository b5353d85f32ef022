// SPDX-License-Identifier: MPL-2.0

package runtime

import "strconv"

// ExitCodeLaunchFailure is reported when the process could not be started or
// waited on, so no real exit status exists.
const ExitCodeLaunchFailure ExitCode = 1

// ExitCode is the exit status of a pack200 or unpack200 process.
type ExitCode int

// IsSuccess returns true if the exit code is zero.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
