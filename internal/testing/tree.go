package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SiteLayout is a source tree next to a Hugo-style destination.
type SiteLayout struct {
	Root string
	Src  string // <root>/org
	Dest string // <root>/hugo/content/posts
	Site string // <root>/hugo
}

// NewSiteLayout creates the source directory of a fresh layout under
// t.TempDir() and fills it with files. The destination is left absent.
func NewSiteLayout(t *testing.T, files map[string]string) SiteLayout {
	t.Helper()
	// resolved so paths compare equal to the ones the build service reports
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	l := SiteLayout{
		Root: root,
		Src:  filepath.Join(root, "org"),
		Dest: filepath.Join(root, "hugo", "content", "posts"),
		Site: filepath.Join(root, "hugo"),
	}
	require.NoError(t, os.MkdirAll(l.Src, testDirPermissions))
	WriteTree(t, l.Src, files)
	return l
}

// WriteTree writes files (slash-separated relative path to body) below root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), testDirPermissions))
		require.NoError(t, os.WriteFile(p, []byte(body), testFilePermissions))
	}
}
