// Package build provides the canonical run pipeline for orgbuilder.
//
// A run resolves the site root, creates the destination root, generates the
// build description into memory and hands it to the build executor. All
// execution paths (build, generate, watch) route through Service so run IDs,
// logging and metrics stay uniform.
//
// The package also defines sentinel errors for classifying run failures.
// They are wrapped with context at the call site.
package build
