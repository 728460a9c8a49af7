package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
	"git.home.luguber.info/inful/orgbuilder/internal/metrics"
)

// Options tune Invoke.
type Options struct {
	GraphFile   string
	Parallelism int
	Stdout      io.Writer
	Stderr      io.Writer
	Recorder    metrics.Recorder
}

// Invoke writes graph into destRoot and runs the executor against it. The
// returned exit code is the executor's own; a non-zero code comes with an
// executor-category ClassifiedError carrying the same code.
func Invoke(ctx context.Context, runner Runner, graph []byte, destRoot string, opts Options) (int, error) {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	graphPath, err := WriteGraph(destRoot, opts.GraphFile, graph)
	if err != nil {
		return 1, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write build description").
			Fatal().
			WithContext(ferrors.ContextPath, destRoot).
			Build()
	}
	slog.Info("Build description written", logfields.Path(graphPath))

	start := time.Now()
	code, err := runner.Run(ctx, Invocation{
		Dir:         filepath.Dir(graphPath),
		GraphFile:   graphPath,
		Parallelism: opts.Parallelism,
		Stdout:      opts.Stdout,
		Stderr:      opts.Stderr,
	})
	elapsed := time.Since(start)
	recorder.ObserveExecutorDuration(elapsed)
	recorder.IncExecutorExit(code)

	attrs := []any{logfields.ExitCode(code), logfields.DurationMS(float64(elapsed.Milliseconds()))}
	switch {
	case err == nil:
		slog.Info("Build executor finished", attrs...)
		return code, nil
	case errors.Is(err, ErrBinaryNotFound):
		return 1, ferrors.WrapError(err, ferrors.CategoryConfig, "build executor not found").
			Fatal().
			UserAction().
			WithHint("Install ninja or set executor.binary in the configuration").
			Build()
	case code < 0:
		return 1, ferrors.WrapError(err, ferrors.CategoryExecutor, "build executor could not be started").
			WithContext(ferrors.ContextExitCode, 1).
			Build()
	default:
		slog.Warn("Build executor failed", attrs...)
		return code, ferrors.ExecutorError("build executor failed", code).WithCause(err).Build()
	}
}
