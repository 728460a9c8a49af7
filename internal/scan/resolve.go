package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ResolveRoot returns the absolute path of p with every symlink resolved.
// Paths that do not exist yet resolve their deepest existing ancestor and keep
// the missing tail as given, so a destination can be resolved before it is
// created.
func ResolveRoot(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	// ENOTDIR: an ancestor is a file; resolve it and let the caller's
	// mkdir report the problem.
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
		return "", err
	}

	parent, base := filepath.Dir(abs), filepath.Base(abs)
	if parent == abs {
		return abs, nil
	}
	if _, lerr := os.Lstat(abs); lerr == nil {
		// dangling symlink
		return "", err
	}
	resolvedParent, perr := ResolveRoot(parent)
	if perr != nil {
		return "", perr
	}
	return filepath.Join(resolvedParent, base), nil
}
