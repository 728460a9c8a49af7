package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions checks file system state below a base directory.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists validates that a regular file exists.
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	stat, err := os.Stat(fullPath)
	switch {
	case err != nil:
		fa.t.Errorf("Expected file to exist: %s (%v)", fullPath, err)
	case stat.IsDir():
		fa.t.Errorf("Expected file but found directory: %s", fullPath)
	}
	return fa
}

// AssertFileNotExists validates that nothing exists at the path.
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if _, err := os.Stat(fullPath); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains every snippet.
func (fa *FileAssertions) AssertFileContains(relativePath string, snippets ...string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		fa.t.Errorf("Failed to read %s: %v", fullPath, err)
		return fa
	}
	for _, s := range snippets {
		if !strings.Contains(string(data), s) {
			fa.t.Errorf("Expected %s to contain %q", fullPath, s)
		}
	}
	return fa
}

// AssertNoTempFiles validates that no leftover temporary files (".tmp"
// infix, as written by atomic replacement) remain in the directory.
func (fa *FileAssertions) AssertNoTempFiles(relativeDir string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativeDir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		fa.t.Errorf("Failed to read directory %s: %v", fullPath, err)
		return fa
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			fa.t.Errorf("Unexpected temporary file %s in %s", e.Name(), fullPath)
		}
	}
	return fa
}
