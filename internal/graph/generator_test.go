package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/ninja"
)

type fixture struct {
	src  string
	dest string
	site string
}

func newFixture(t *testing.T, files ...string) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		src:  filepath.Join(base, "org"),
		dest: filepath.Join(base, "hugo", "content", "posts"),
		site: filepath.Join(base, "hugo"),
	}
	require.NoError(t, os.MkdirAll(f.src, 0o750))
	for _, name := range files {
		p := filepath.Join(f.src, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte("content of "+name+"\n"), 0o600))
	}
	return f
}

func (f fixture) options() Options {
	return Options{
		SourceRoot:      f.src,
		DestinationRoot: f.dest,
		SiteRoot:        f.site,
		PrimaryExt:      ".org",
		PassThroughExt:  ".md",
		TargetExt:       ".md",
		ScriptsDir:      "/opt/orgbuilder",
	}
}

func (f fixture) out(rel string) string { return filepath.Join(f.dest, filepath.FromSlash(rel)) }
func (f fixture) in(rel string) string  { return filepath.Join(f.src, filepath.FromSlash(rel)) }

func generate(t *testing.T, opts Options) (string, []ninja.Build, *Report) {
	t.Helper()
	var buf bytes.Buffer
	report, err := NewGenerator(opts).Generate(&buf)
	require.NoError(t, err)
	builds, err := ninja.ParseBuilds(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return buf.String(), builds, report
}

func buildsByOutput(builds []ninja.Build) map[string][]ninja.Build {
	m := make(map[string][]ninja.Build)
	for _, b := range builds {
		m[b.Output] = append(m[b.Output], b)
	}
	return m
}

func TestGenerate_EveryPrimaryGetsOneConvertEdge(t *testing.T) {
	f := newFixture(t, "index.org", "notes/a.org", "notes/deep/b.org", "notes/c.txt")
	_, builds, report := generate(t, f.options())

	require.Equal(t, 3, report.Convert)
	require.Equal(t, 0, report.Copy)
	byOut := buildsByOutput(builds)
	for _, rel := range []string{"index", "notes/a", "notes/deep/b"} {
		edges := byOut[f.out(rel+".md")]
		require.Len(t, edges, 1, rel)
		require.Equal(t, string(RuleConvert), edges[0].Rule)
		require.Equal(t, []string{f.in(rel + ".org")}, edges[0].Inputs)
		in, _ := edges[0].Var(VarIn)
		out, _ := edges[0].Var(VarOut)
		require.Equal(t, f.in(rel+".org"), in)
		require.Equal(t, f.out(rel+".md"), out)
	}
}

func TestGenerate_PrimaryWinsOverPassThrough(t *testing.T) {
	f := newFixture(t, "notes/a.org", "notes/a.md")
	_, builds, report := generate(t, f.options())

	require.Len(t, builds, 1)
	require.Equal(t, string(RuleConvert), builds[0].Rule)
	require.Equal(t, f.out("notes/a.md"), builds[0].Output)
	require.Equal(t, []string{f.in("notes/a.md")}, report.SkippedPassThrough)
	require.Equal(t, 0, report.Copy)
}

func TestGenerate_LonePassThroughIsCopied(t *testing.T) {
	f := newFixture(t, "readme.md")
	_, builds, report := generate(t, f.options())

	require.Len(t, builds, 1)
	require.Equal(t, string(RuleCopy), builds[0].Rule)
	require.Equal(t, f.out("readme.md"), builds[0].Output)
	require.Equal(t, []string{f.in("readme.md")}, builds[0].Inputs)
	require.Empty(t, builds[0].Vars)
	require.Equal(t, 1, report.Copy)
	require.Empty(t, report.SkippedPassThrough)
}

func TestGenerate_RulesAndPostProcess(t *testing.T) {
	f := newFixture(t, "a.org")
	opts := f.options()
	opts.PostProcess = "/opt/orgbuilder/obs_postproc.py"
	text, _, _ := generate(t, opts)

	require.Contains(t, text, "rule org2md\n  command = emacs -nw --batch")
	require.Contains(t, text, `\"`+f.src+`\" \"$in_\" \"`+f.site+`\" \"$out_\" )" && /opt/orgbuilder/obs_postproc.py "$out_"`)
	require.Contains(t, text, "rule copy\n  command = cp $in $out\n")

	// rules come before any build statement
	require.Less(t, strings.Index(text, "rule copy"), strings.Index(text, "build "))
}

func TestGenerate_HeaderRecordsRevision(t *testing.T) {
	f := newFixture(t, "a.org")
	opts := f.options()

	text, _, _ := generate(t, opts)
	require.True(t, strings.HasPrefix(text, "# Generated by orgbuilder from "+f.src+".\n"))

	opts.Revision = "main@0123abcd"
	text, _, _ = generate(t, opts)
	require.True(t, strings.HasPrefix(text, "# Generated by orgbuilder from "+f.src+" at main@0123abcd.\n"))
}

func TestGenerate_PrimaryEdgesPrecedeCopyEdges(t *testing.T) {
	f := newFixture(t, "a.md", "b.org", "z/c.md", "z/d.org")
	_, builds, _ := generate(t, f.options())

	require.Len(t, builds, 4)
	require.Equal(t, string(RuleConvert), builds[0].Rule)
	require.Equal(t, string(RuleConvert), builds[1].Rule)
	require.Equal(t, string(RuleCopy), builds[2].Rule)
	require.Equal(t, string(RuleCopy), builds[3].Rule)
}

func TestGenerate_EscapesSpaces(t *testing.T) {
	f := newFixture(t, "my notes/a b.org", "my notes/c d.md")
	text, builds, _ := generate(t, f.options())

	require.Contains(t, text, "build "+ninja.Escape(f.out("my notes/a b.md"))+": org2md "+ninja.Escape(f.in("my notes/a b.org"))+"\n")
	require.Contains(t, text, "  "+VarIn+" = "+ninja.Escape(f.in("my notes/a b.org"))+"\n")

	byOut := buildsByOutput(builds)
	require.Len(t, byOut[f.out("my notes/a b.md")], 1)
	require.Len(t, byOut[f.out("my notes/c d.md")], 1)
}

func TestGenerate_Idempotent(t *testing.T) {
	f := newFixture(t, "a.org", "b/c.org", "b/c.md", "d.md", "e f/g.org")
	first, _, _ := generate(t, f.options())
	second, _, _ := generate(t, f.options())
	require.Equal(t, first, second)
}

func TestGenerate_UnrelatedEdgesStableAcrossChanges(t *testing.T) {
	f := newFixture(t, "a.org", "b.md")
	_, before, _ := generate(t, f.options())

	require.NoError(t, os.MkdirAll(f.in("zzz"), 0o750))
	require.NoError(t, os.WriteFile(f.in("zzz/new.org"), nil, 0o600))
	_, after, _ := generate(t, f.options())

	beforeByOut, afterByOut := buildsByOutput(before), buildsByOutput(after)
	require.Len(t, afterByOut, 3)
	for out, edges := range beforeByOut {
		require.Equal(t, edges, afterByOut[out], out)
	}
}

func TestGenerate_PrimaryCollisionPolicies(t *testing.T) {
	f := newFixture(t, "notes/a.org", "notes/a.ORG", "notes/a.md")
	opts := f.options()
	opts.FoldCase = true

	t.Run("warn emits both edges and reports", func(t *testing.T) {
		opts := opts
		opts.Collisions = CollisionWarn
		_, builds, report := generate(t, opts)

		edges := buildsByOutput(builds)[f.out("notes/a.md")]
		require.Len(t, edges, 2)
		require.Len(t, report.Collisions, 1)
		require.Equal(t, f.out("notes/a.md"), report.Collisions[0].Output)
		require.ElementsMatch(t, []string{f.in("notes/a.org"), f.in("notes/a.ORG")}, report.Collisions[0].Inputs)
		require.Equal(t, []string{f.in("notes/a.md")}, report.SkippedPassThrough)
	})

	t.Run("ignore emits both edges", func(t *testing.T) {
		opts := opts
		opts.Collisions = CollisionIgnore
		_, builds, report := generate(t, opts)
		require.Len(t, buildsByOutput(builds)[f.out("notes/a.md")], 2)
		require.Len(t, report.Collisions, 1)
	})

	t.Run("fail rejects the graph", func(t *testing.T) {
		opts := opts
		opts.Collisions = CollisionFail
		var buf bytes.Buffer
		report, err := NewGenerator(opts).Generate(&buf)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrPrimaryCollision)
		require.True(t, ferrors.HasCategory(err, ferrors.CategoryGraph))
		require.NotNil(t, report)
		require.Len(t, report.Collisions, 1)
		require.Equal(t, 0, report.Copy)
	})
}

func TestGenerate_NoCollisionWithoutFoldCase(t *testing.T) {
	f := newFixture(t, "a.org", "A.md")
	_, builds, report := generate(t, f.options())

	require.Len(t, builds, 2)
	require.Empty(t, report.Collisions)
	require.Empty(t, report.SkippedPassThrough)
}

func TestGenerate_FoldCaseShadowsPassThrough(t *testing.T) {
	f := newFixture(t, "readme.org", "README.md")
	opts := f.options()
	opts.FoldCase = true
	_, builds, report := generate(t, opts)

	require.Len(t, builds, 1)
	require.Equal(t, string(RuleConvert), builds[0].Rule)
	require.Equal(t, []string{f.in("README.md")}, report.SkippedPassThrough)
}

func TestGenerate_MissingSourceRoot(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.SourceRoot = filepath.Join(f.src, "missing")

	var buf bytes.Buffer
	_, err := NewGenerator(opts).Generate(&buf)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	require.True(t, os.IsNotExist(errorsCause(err)))
}

func errorsCause(err error) error {
	classified, ok := ferrors.AsClassified(err)
	if !ok {
		return err
	}
	return classified.Cause()
}

func TestParseCollisionPolicy(t *testing.T) {
	p, err := ParseCollisionPolicy("")
	require.NoError(t, err)
	require.Equal(t, CollisionWarn, p)

	for _, name := range []string{"ignore", "warn", "fail"} {
		p, err := ParseCollisionPolicy(name)
		require.NoError(t, err)
		require.Equal(t, CollisionPolicy(name), p)
	}

	_, err = ParseCollisionPolicy("overwrite")
	require.Error(t, err)
}
