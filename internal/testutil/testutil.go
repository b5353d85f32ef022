// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustMkdirAll creates path with all parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if the operation fails.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustWriteJar writes a JAR with a manifest and one payload entry to path and
// returns path.
func MustWriteJar(t testing.TB, path string, payload []byte) string {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := writeJar(path, payload); err != nil {
		t.Fatalf("failed to write JAR %s: %v", path, err)
	}
	return path
}
