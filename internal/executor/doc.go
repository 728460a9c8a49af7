// Package executor hands a generated build description to the external build
// executor (ninja by default).
//
// The description is written atomically to a fixed name inside the
// destination root, then the executor runs against it with explicit absolute
// paths. The process working directory is never changed, so invocations can
// run side by side and in tests.
package executor
