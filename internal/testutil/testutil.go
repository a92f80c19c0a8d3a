// Package testutil contains common utility functions for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes contents to a file with the given name in a
// test-scoped temporary directory, and returns its path.
func WriteFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}
