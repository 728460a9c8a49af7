package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// RunOutcomeLabel is the final status of one generate/execute run.
type RunOutcomeLabel string

const (
	RunOutcomeSuccess        RunOutcomeLabel = "success"
	RunOutcomeFailed         RunOutcomeLabel = "failed"
	RunOutcomeExecutorFailed RunOutcomeLabel = "executor_failed"
)

// Recorder defines observability hooks for graph generation and executor runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	AddEdges(rule string, n int)
	AddSkippedPassThrough(n int)
	AddPrimaryCollisions(n int)
	ObserveExecutorDuration(d time.Duration)
	IncExecutorExit(code int)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) AddEdges(string, int)                       {}
func (NoopRecorder) AddSkippedPassThrough(int)                  {}
func (NoopRecorder) AddPrimaryCollisions(int)                   {}
func (NoopRecorder) ObserveExecutorDuration(time.Duration)      {}
func (NoopRecorder) IncExecutorExit(int)                        {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
