// Package errors provides foundational, type-safe error primitives used across orgbuilder.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, filesystem, graph, executor, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, user action)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// Example usage:
//
//	err := errors.FileSystemError("cannot create destination root").
//		WithContext("path", destRoot).
//		WithCause(originalErr).
//		Build()
package errors
