// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory in tests.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom user config directory. Intended for
// tests, where os.UserHomeDir() does not reliably follow HOME.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
