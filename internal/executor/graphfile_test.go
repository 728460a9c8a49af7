package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	testingpkg "git.home.luguber.info/inful/orgbuilder/internal/testing"
)

func TestWriteGraph_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteGraph(dir, "", []byte("first\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DefaultGraphFile), path)

	path, err = WriteGraph(dir, "", []byte("second\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second\n", string(data))

	testingpkg.NewFileAssertions(t, dir).
		AssertFileExists(DefaultGraphFile).
		AssertNoTempFiles(".")
}

func TestWriteGraph_CustomName(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteGraph(dir, "site.ninja", []byte("x"))
	require.NoError(t, err)
	require.Equal(t, "site.ninja", filepath.Base(path))
}

func TestWriteGraph_MissingDirectory(t *testing.T) {
	base := t.TempDir()
	_, err := WriteGraph(filepath.Join(base, "nope"), "", []byte("x"))
	require.ErrorIs(t, err, ErrGraphWriteFailed)
	testingpkg.NewFileAssertions(t, base).AssertFileNotExists("nope")
}
