package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
)

// Invocation describes one executor run. Dir and GraphFile are absolute.
type Invocation struct {
	Dir       string
	GraphFile string
	// Parallelism bounds concurrent jobs; zero leaves the executor's default.
	Parallelism int
	Stdout      io.Writer
	Stderr      io.Writer
}

// Runner abstracts how the build executor is started. This allows swapping
// the external ninja binary for a no-op in dry runs and tests.
//
// Run returns the executor's exit code. A non-zero exit code comes with an
// error wrapping ErrExecutorFailed; a failure to start returns -1.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// NinjaRunner invokes a ninja-compatible binary.
type NinjaRunner struct {
	// Binary is a name looked up on PATH or a path. Empty means "ninja".
	Binary string
}

// Args returns the command line (without the binary) for inv.
func (n *NinjaRunner) Args(inv Invocation) []string {
	args := []string{"-C", inv.Dir, "-f", inv.GraphFile}
	if inv.Parallelism > 0 {
		args = append(args, "-j", strconv.Itoa(inv.Parallelism))
	}
	return args
}

func (n *NinjaRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	binary := n.Binary
	if binary == "" {
		binary = "ninja"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return -1, fmt.Errorf("%w: %s: %w", ErrBinaryNotFound, binary, err)
	}

	cmd := exec.CommandContext(ctx, resolved, n.Args(inv)...)
	cmd.Stdout = orDefault(inv.Stdout, os.Stdout)
	cmd.Stderr = orDefault(inv.Stderr, os.Stderr)
	slog.Debug("Invoking build executor", slog.String("binary", resolved), slog.Any("args", cmd.Args[1:]))

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// killed by a signal, e.g. context cancellation
			code = 1
		}
		return code, fmt.Errorf("%w: exit status %d", ErrExecutorFailed, code)
	}
	return -1, fmt.Errorf("%w: %w", ErrExecutorFailed, err)
}

// NoopRunner performs no build; useful for dry runs and tests.
type NoopRunner struct{}

func (NoopRunner) Run(_ context.Context, inv Invocation) (int, error) {
	slog.Info("Dry run: build executor not started", logfields.Path(inv.GraphFile))
	return 0, nil
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
