package watch

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Filter decides which filesystem events are worth a rebuild.
type Filter struct {
	// Extensions of the documents the graph is built from.
	Extensions []string
	FoldCase   bool
}

// Relevant reports whether ev may change the generated graph. Directory
// events are judged by the caller, which knows whether the path is a directory.
func (f Filter) Relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || shouldIgnore(ev.Name) {
		return false
	}
	// Removes and renames may concern directories full of documents.
	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		return true
	}
	return f.matches(ev.Name)
}

func (f Filter) matches(path string) bool {
	base := filepath.Base(path)
	for _, ext := range f.Extensions {
		if len(base) <= len(ext) {
			continue
		}
		suffix := base[len(base)-len(ext):]
		if suffix == ext || (f.FoldCase && strings.EqualFold(suffix, ext)) {
			return true
		}
	}
	return false
}

// shouldIgnore returns true for paths that never affect the graph.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including emacs lock files (.#name)
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
