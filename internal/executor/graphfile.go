package executor

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultGraphFile is the build description file name inside the destination root.
const DefaultGraphFile = "build.ninja"

// WriteGraph atomically replaces dir/name with graph and returns the absolute
// path written. Readers see either the previous description or the new one.
func WriteGraph(dir, name string, graph []byte) (string, error) {
	if name == "" {
		name = DefaultGraphFile
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGraphWriteFailed, err)
	}
	target := filepath.Join(absDir, name)

	tmp, err := os.CreateTemp(absDir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGraphWriteFailed, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(graph); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrGraphWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrGraphWriteFailed, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrGraphWriteFailed, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: %w", ErrGraphWriteFailed, err)
	}
	return target, nil
}
