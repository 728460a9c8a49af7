// Package testing contains fixture and assertion helpers shared by the
// package tests: source trees, a fake ninja executable, and file checks.
package testing

const (
	testDirPermissions  = 0o750
	testFilePermissions = 0o600
)
