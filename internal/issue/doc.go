// SPDX-License-Identifier: MPL-2.0

// Package issue turns packwrap failures into messages a user can act on.
//
// ActionableError carries the failed operation, the file or tool involved and
// suggestions. The issue catalog holds longer Markdown guidance that the CLI
// renders with glamour when a command fails.
package issue
