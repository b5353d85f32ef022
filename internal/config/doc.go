// SPDX-License-Identifier: MPL-2.0

// Package config loads packwrap configuration using Viper with CUE as the file format.
//
// Two files are merged on top of the built-in defaults, lowest precedence first:
// the user configuration (~/.config/packwrap/config.cue or the platform
// equivalent) and the project file packwrap.cue in the working directory. An
// explicit --config path replaces the project file lookup. Environment variables
// prefixed with PACKWRAP_ override both (PACKWRAP_PACK_SEGMENT_LIMIT sets
// pack.segment_limit).
//
// Every file is validated against the embedded config_schema.cue (#Config)
// before it is merged, so type errors are reported with their CUE path.
package config
