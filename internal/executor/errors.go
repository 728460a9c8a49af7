package executor

import "errors"

var (
	// ErrBinaryNotFound indicates the executor binary was not found on PATH.
	ErrBinaryNotFound = errors.New("build executor binary not found")
	// ErrExecutorFailed indicates the executor exited with a non-zero status.
	ErrExecutorFailed = errors.New("build executor failed")
	// ErrGraphWriteFailed indicates the build description could not be persisted.
	ErrGraphWriteFailed = errors.New("build description write failed")
)
