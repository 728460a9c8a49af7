package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeNinja is a shell script standing in for the build executor. It records
// its arguments one per line, prints "ran" and exits with a fixed code.
type FakeNinja struct {
	Binary   string
	ArgsFile string
}

// NewFakeNinja writes the script into a fresh temp dir. Tests using it are
// skipped on Windows.
func NewFakeNinja(t *testing.T, exitCode int) FakeNinja {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script executor not available on windows")
	}
	dir := t.TempDir()
	f := FakeNinja{
		Binary:   filepath.Join(dir, "ninja"),
		ArgsFile: filepath.Join(dir, "args"),
	}
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > '%s'\necho ran\nexit %d\n", f.ArgsFile, exitCode)
	require.NoError(t, os.WriteFile(f.Binary, []byte(script), 0o755)) //nolint:gosec // must be executable
	return f
}

// Args returns the recorded arguments, failing the test if it never ran.
func (f FakeNinja) Args(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.ArgsFile)
	require.NoError(t, err, "fake ninja was not invoked")
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// Ran reports whether the script was invoked.
func (f FakeNinja) Ran() bool {
	_, err := os.Stat(f.ArgsFile)
	return err == nil
}
