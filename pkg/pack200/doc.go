// SPDX-License-Identifier: MPL-2.0

// Package pack200 turns packwrap options into the argument vectors of the
// external pack200 and unpack200 tools.
//
// A Builder takes a Variant (pack, repack or unpack) and an Options value and
// produces an immutable CommandLine. Every flag is emitted by its own helper
// following fixed inclusion rules: zero values are never emitted, conflicting
// boolean pairs suppress each other, and an auxiliary pack200 properties file
// is only passed on when it exists on disk. Token order is fixed per variant so
// that command lines are reproducible in logs and tests.
//
// The builder never fails. Required fields are checked separately by
// Options.Validate before a command line is built.
package pack200
