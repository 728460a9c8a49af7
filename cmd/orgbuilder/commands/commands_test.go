package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/ninja"
	testingpkg "git.home.luguber.info/inful/orgbuilder/internal/testing"
)

type cliEnv struct {
	testingpkg.SiteLayout
	config string
	ninja  testingpkg.FakeNinja
}

// newCLIEnv lays out a source tree, a Hugo destination and a config whose
// executor is a fake ninja exiting with exitCode.
func newCLIEnv(t *testing.T, exitCode int) *cliEnv {
	t.Helper()
	env := &cliEnv{
		SiteLayout: testingpkg.NewSiteLayout(t, map[string]string{
			"index.org":        "* home",
			"my notes/a b.org": "* spaced",
			"readme.md":        "plain",
		}),
		ninja: testingpkg.NewFakeNinja(t, exitCode),
	}
	env.config = filepath.Join(env.Root, "orgbuilder.yaml")
	testingpkg.WriteTree(t, env.Root, map[string]string{
		"orgbuilder.yaml": "executor:\n  binary: " + env.ninja.Binary + "\nconvert:\n  scripts_dir: /opt/orgbuilder\n",
	})
	return env
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("orgbuilder"), kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return kctx.Run(&Global{}, &cli)
}

func TestBuildCmd_RunsExecutorInDestination(t *testing.T) {
	env := newCLIEnv(t, 0)

	require.NoError(t, run(t, "-c", env.config, "build", env.Src, env.Dest, "-j", "2"))

	graphPath := filepath.Join(env.Dest, "build.ninja")
	testingpkg.NewFileAssertions(t, env.Dest).AssertFileContains("build.ninja",
		"build "+ninja.Escape(filepath.Join(env.Dest, "my notes", "a b.md"))+": org2md",
		`(xb/publish \"`+env.Src+`\" \"$in_\" \"`+env.Site+`\" \"$out_\" )`,
	)
	require.Equal(t, []string{"-C", env.Dest, "-f", graphPath, "-j", "2"}, env.ninja.Args(t))
}

func TestBuildCmd_PropagatesExecutorExitCode(t *testing.T) {
	env := newCLIEnv(t, 3)

	err := run(t, "-c", env.config, "build", env.Src, env.Dest)
	require.Error(t, err)
	require.Equal(t, 3, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuildCmd_DryRunSkipsExecutor(t *testing.T) {
	env := newCLIEnv(t, 0)

	require.NoError(t, run(t, "-c", env.config, "build", "--dry-run", env.Src, env.Dest))
	require.FileExists(t, filepath.Join(env.Dest, "build.ninja"))
	require.False(t, env.ninja.Ran())
}

func TestBuildCmd_MissingMarker(t *testing.T) {
	env := newCLIEnv(t, 0)

	err := run(t, "-c", env.config, "build", env.Src, filepath.Join(env.Root, "out"))
	require.Error(t, err)
	require.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	require.False(t, env.ninja.Ran())
}

func TestGenerateCmd_ObsidianPostProcess(t *testing.T) {
	env := newCLIEnv(t, 0)

	require.NoError(t, run(t, "-c", env.config, "generate", "--obsidian", env.Src, env.Dest))

	testingpkg.NewFileAssertions(t, env.Dest).
		AssertFileContains("build.ninja", `&& /opt/orgbuilder/obs_postproc.py "$out_"`)
	require.False(t, env.ninja.Ran())
}

func TestEdgesCmd_ListsGeneratedEdges(t *testing.T) {
	env := newCLIEnv(t, 0)
	require.NoError(t, run(t, "-c", env.config, "generate", env.Src, env.Dest))

	f, err := os.Open(filepath.Join(env.Dest, "build.ninja"))
	require.NoError(t, err)
	defer f.Close()
	builds, err := ninja.ParseBuilds(f)
	require.NoError(t, err)
	require.Len(t, builds, 3)

	require.NoError(t, run(t, "-c", env.config, "edges", "--rule", "copy", env.Dest))
}

func TestEdgesCmd_MissingGraph(t *testing.T) {
	env := newCLIEnv(t, 0)
	err := run(t, "-c", env.config, "edges", t.TempDir())
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, "init", "-o", dir))
	require.FileExists(t, filepath.Join(dir, "orgbuilder.yaml"))
	require.Error(t, run(t, "init", "-o", dir))
	require.NoError(t, run(t, "init", "-o", dir, "--force"))
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv("ORGBUILDER_LOG_LEVEL", "warn")
	require.Equal(t, "WARN", parseLogLevel(false).String())
	require.Equal(t, "DEBUG", parseLogLevel(true).String())

	t.Setenv("ORGBUILDER_LOG_LEVEL", "")
	require.Equal(t, "INFO", parseLogLevel(false).String())
}
