package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	testingpkg "git.home.luguber.info/inful/orgbuilder/internal/testing"
)

func TestNinjaRunner_Args(t *testing.T) {
	r := &NinjaRunner{}
	require.Equal(t, []string{"-C", "/d", "-f", "/d/build.ninja"},
		r.Args(Invocation{Dir: "/d", GraphFile: "/d/build.ninja"}))
	require.Equal(t, []string{"-C", "/d", "-f", "/d/build.ninja", "-j", "4"},
		r.Args(Invocation{Dir: "/d", GraphFile: "/d/build.ninja", Parallelism: 4}))
}

func TestNinjaRunner_Success(t *testing.T) {
	ninja := testingpkg.NewFakeNinja(t, 0)
	dest := t.TempDir()
	var stdout bytes.Buffer

	wd, err := os.Getwd()
	require.NoError(t, err)

	code, err := (&NinjaRunner{Binary: ninja.Binary}).Run(context.Background(), Invocation{
		Dir:       dest,
		GraphFile: filepath.Join(dest, DefaultGraphFile),
		Stdout:    &stdout,
		Stderr:    &bytes.Buffer{},
	})
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "ran\n", stdout.String())

	require.Equal(t, []string{"-C", dest, "-f", filepath.Join(dest, DefaultGraphFile)}, ninja.Args(t))

	after, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, wd, after, "working directory must not change")
}

func TestNinjaRunner_PropagatesExitCode(t *testing.T) {
	ninja := testingpkg.NewFakeNinja(t, 3)
	dest := t.TempDir()

	code, err := (&NinjaRunner{Binary: ninja.Binary}).Run(context.Background(), Invocation{
		Dir:       dest,
		GraphFile: filepath.Join(dest, DefaultGraphFile),
		Stdout:    &bytes.Buffer{},
		Stderr:    &bytes.Buffer{},
	})
	require.ErrorIs(t, err, ErrExecutorFailed)
	require.Equal(t, 3, code)
}

func TestNinjaRunner_BinaryNotFound(t *testing.T) {
	code, err := (&NinjaRunner{Binary: filepath.Join(t.TempDir(), "missing-ninja")}).
		Run(context.Background(), Invocation{Dir: "/", GraphFile: "/build.ninja"})
	require.ErrorIs(t, err, ErrBinaryNotFound)
	require.Equal(t, -1, code)
}

func TestNoopRunner(t *testing.T) {
	code, err := NoopRunner{}.Run(context.Background(), Invocation{GraphFile: "/x/build.ninja"})
	require.NoError(t, err)
	require.Zero(t, code)
}
