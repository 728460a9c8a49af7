package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
)

type recordingRunner struct {
	code  int
	err   error
	calls []Invocation
}

func (r *recordingRunner) Run(_ context.Context, inv Invocation) (int, error) {
	r.calls = append(r.calls, inv)
	return r.code, r.err
}

func TestInvoke_WritesGraphAndRuns(t *testing.T) {
	dest := t.TempDir()
	runner := &recordingRunner{}

	code, err := Invoke(context.Background(), runner, []byte("# graph\n"), dest, Options{Parallelism: 2})
	require.NoError(t, err)
	require.Zero(t, code)

	require.Len(t, runner.calls, 1)
	inv := runner.calls[0]
	require.Equal(t, filepath.Join(dest, DefaultGraphFile), inv.GraphFile)
	require.Equal(t, dest, inv.Dir)
	require.Equal(t, 2, inv.Parallelism)

	data, err := os.ReadFile(inv.GraphFile)
	require.NoError(t, err)
	require.Equal(t, "# graph\n", string(data))
}

func TestInvoke_ExecutorFailureCarriesExitCode(t *testing.T) {
	runner := &recordingRunner{code: 5, err: ErrExecutorFailed}

	code, err := Invoke(context.Background(), runner, []byte("x"), t.TempDir(), Options{})
	require.Equal(t, 5, code)
	require.ErrorIs(t, err, ErrExecutorFailed)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryExecutor, ce.Category())
	require.Equal(t, 5, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInvoke_BinaryNotFoundIsConfigError(t *testing.T) {
	runner := &recordingRunner{code: -1, err: ErrBinaryNotFound}

	code, err := Invoke(context.Background(), runner, []byte("x"), t.TempDir(), Options{})
	require.Equal(t, 1, code)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInvoke_GraphWriteFailureSkipsRunner(t *testing.T) {
	runner := &recordingRunner{}
	_, err := Invoke(context.Background(), runner, []byte("x"),
		filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrGraphWriteFailed))
	require.Empty(t, runner.calls)
}
