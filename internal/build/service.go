package build

import (
	"context"
	"io"
	"time"

	"git.home.luguber.info/inful/orgbuilder/internal/graph"
)

// Service is the canonical interface for executing runs. The CLI commands and
// the watcher are thin wrappers over it.
type Service interface {
	// Run generates the build description, writes it into the destination
	// root and runs the build executor against it.
	Run(ctx context.Context, req Request) (*Result, error)
	// Generate stops after the build description is written.
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Request contains the inputs of one run.
type Request struct {
	// SourceDir is the org-mode document tree.
	SourceDir string
	// OutputDir is the destination root; it must contain the site marker segment.
	OutputDir string

	Options Options
}

// Options modify a run beyond the configuration.
type Options struct {
	// Obsidian chains the Obsidian post-processing script after every conversion.
	Obsidian bool
	// Parallelism overrides executor.parallelism when positive.
	Parallelism int
	// DryRun writes the build description but does not start the executor.
	DryRun bool
	// GraphWriter, when set, receives the description instead of the graph file.
	// Only honoured by Generate.
	GraphWriter io.Writer

	Stdout io.Writer
	Stderr io.Writer
}

// Result contains the outcome of a run.
type Result struct {
	RunID  string
	Status Status

	SourceRoot      string
	DestinationRoot string
	SiteRoot        string
	// Revision is the source tree's commit, empty outside a repository.
	Revision string
	// GraphPath is empty when the description went to Options.GraphWriter.
	GraphPath string

	Report *graph.Report
	// ExitCode is the build executor's exit code; zero when it did not run.
	ExitCode int

	StartTime time.Time
	Duration  time.Duration
}

// Status represents the outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	// StatusFailed means the run aborted before or while starting the executor.
	StatusFailed Status = "failed"
	// StatusExecutorFailed means the executor ran and exited non-zero.
	StatusExecutorFailed Status = "executor_failed"
)

// IsSuccess reports whether the run completed successfully.
func (s Status) IsSuccess() bool { return s == StatusSuccess }
