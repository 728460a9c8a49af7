// Package scan enumerates source documents by extension.
package scan

import (
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
)

// Option configures a scan.
type Option func(*options)

type options struct {
	foldCase bool
}

// WithFoldCase matches the extension case-insensitively (".ORG" matches ".org").
func WithFoldCase() Option {
	return func(o *options) { o.foldCase = true }
}

// Scan returns a lazy sequence of the regular files under root whose name ends
// in ext. Symlinks to regular files are yielded under their link path;
// symlinked directories are not descended into. The walk runs while the caller ranges over the sequence; ranging
// again walks the tree again. A walk error is yielded once and ends the sequence.
// Yielded paths are root joined with the file's relative path.
func Scan(root, ext string, opts ...Option) iter.Seq2[string, error] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !hasExt(d.Name(), ext, o.foldCase) || !isRegularFile(path, d) {
				return nil
			}
			if !yield(path, nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			slog.Debug("Source walk failed", logfields.Path(root), logfields.Error(err))
			yield("", err)
		}
	}
}

// isRegularFile follows a symlinked entry once. Dangling links and links to
// directories are skipped.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("Skipping unresolvable symlink", logfields.Path(path), logfields.Error(err))
		return false
	}
	return info.Mode().IsRegular()
}

// Collect drains a scan into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var paths []string
	for path, err := range seq {
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func hasExt(name, ext string, foldCase bool) bool {
	if len(name) <= len(ext) {
		return false
	}
	suffix := name[len(name)-len(ext):]
	if foldCase {
		return strings.EqualFold(suffix, ext)
	}
	return suffix == ext
}
