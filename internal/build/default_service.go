package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/orgbuilder/internal/config"
	"git.home.luguber.info/inful/orgbuilder/internal/executor"
	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/git"
	"git.home.luguber.info/inful/orgbuilder/internal/graph"
	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
	"git.home.luguber.info/inful/orgbuilder/internal/metrics"
	"git.home.luguber.info/inful/orgbuilder/internal/notify"
	"git.home.luguber.info/inful/orgbuilder/internal/observability"
	"git.home.luguber.info/inful/orgbuilder/internal/scan"
	"git.home.luguber.info/inful/orgbuilder/internal/site"
)

const (
	stagePrepare  = "prepare"
	stageGenerate = "generate"
	stageExecute  = "execute"
)

// DefaultService is the standard implementation of Service.
type DefaultService struct {
	cfg       *config.Config
	runner    executor.Runner
	recorder  metrics.Recorder
	publisher notify.Publisher
	newRunID  func() string
}

// NewService creates a DefaultService that runs the configured executor binary.
func NewService(cfg *config.Config) *DefaultService {
	return &DefaultService{
		cfg:       cfg,
		runner:    &executor.NinjaRunner{Binary: cfg.Executor.Binary},
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		newRunID:  func() string { return uuid.NewString() },
	}
}

// WithRunner replaces the executor runner (for testing).
func (s *DefaultService) WithRunner(r executor.Runner) *DefaultService {
	s.runner = r
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithPublisher sets where run events are announced.
func (s *DefaultService) WithPublisher(p notify.Publisher) *DefaultService {
	if p == nil {
		p = notify.NoopPublisher{}
	}
	s.publisher = p
	return s
}

// Run executes the complete pipeline.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	return s.run(ctx, req, true)
}

// Generate writes the build description without running the executor.
func (s *DefaultService) Generate(ctx context.Context, req Request) (*Result, error) {
	return s.run(ctx, req, false)
}

func (s *DefaultService) run(ctx context.Context, req Request, execute bool) (*Result, error) {
	result := &Result{
		RunID:     s.newRunID(),
		StartTime: time.Now(),
	}
	ctx = observability.WithRunID(ctx, result.RunID)

	err := s.pipeline(ctx, req, execute, result)
	result.Duration = time.Since(result.StartTime)
	s.recorder.ObserveRunDuration(result.Duration)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		s.recorder.IncRunOutcome(metrics.RunOutcomeSuccess)
		observability.InfoContext(ctx, "Run completed",
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
	case result.ExitCode != 0:
		result.Status = StatusExecutorFailed
		s.recorder.IncRunOutcome(metrics.RunOutcomeExecutorFailed)
	default:
		result.Status = StatusFailed
		s.recorder.IncRunOutcome(metrics.RunOutcomeFailed)
		observability.ErrorContext(ctx, "Run failed", logfields.Error(err))
	}
	s.announce(ctx, result, err)
	return result, err
}

func (s *DefaultService) announce(ctx context.Context, result *Result, runErr error) {
	ev := notify.Event{
		RunID:           result.RunID,
		Status:          string(result.Status),
		SourceRoot:      result.SourceRoot,
		DestinationRoot: result.DestinationRoot,
		SiteRoot:        result.SiteRoot,
		GraphPath:       result.GraphPath,
		Revision:        result.Revision,
		ExitCode:        result.ExitCode,
		DurationMS:      result.Duration.Milliseconds(),
	}
	if result.Report != nil {
		ev.Convert = result.Report.Convert
		ev.Copy = result.Report.Copy
		ev.Skipped = len(result.Report.SkippedPassThrough)
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		observability.WarnContext(ctx, "Could not publish run event", logfields.Error(err))
	}
}

func (s *DefaultService) pipeline(ctx context.Context, req Request, execute bool, result *Result) error {
	// Stage 1: resolve roots and prepare the destination
	ctx = observability.WithStage(ctx, stagePrepare)
	if err := s.timed(stagePrepare, func() error { return s.prepare(req, result) }); err != nil {
		return err
	}
	ctx = observability.WithRoots(ctx, result.SourceRoot, result.DestinationRoot)
	s.describeSource(ctx, result)
	observability.InfoContext(ctx, "Starting run",
		logfields.SiteRoot(result.SiteRoot), slog.String("revision", result.Revision))

	// Stage 2: generate the description into memory
	ctx = observability.WithStage(ctx, stageGenerate)
	var buf bytes.Buffer
	if err := s.timed(stageGenerate, func() error {
		report, err := s.generator(req, result).Generate(&buf)
		result.Report = report
		return err
	}); err != nil {
		return err
	}

	if !execute {
		return s.writeOnly(ctx, req, result, buf.Bytes())
	}

	// Stage 3: persist and execute
	ctx = observability.WithStage(ctx, stageExecute)
	runner := s.runner
	if req.Options.DryRun {
		runner = executor.NoopRunner{}
	}
	parallelism := s.cfg.Executor.Parallelism
	if req.Options.Parallelism > 0 {
		parallelism = req.Options.Parallelism
	}
	return s.timed(stageExecute, func() error {
		code, err := executor.Invoke(ctx, runner, buf.Bytes(), result.DestinationRoot, executor.Options{
			GraphFile:   s.cfg.Executor.GraphFile,
			Parallelism: parallelism,
			Stdout:      req.Options.Stdout,
			Stderr:      req.Options.Stderr,
			Recorder:    s.recorder,
		})
		if err == nil || ferrors.HasCategory(err, ferrors.CategoryExecutor) {
			result.GraphPath = filepath.Join(result.DestinationRoot, s.cfg.Executor.GraphFile)
			result.ExitCode = code
		}
		return err
	})
}

func (s *DefaultService) writeOnly(ctx context.Context, req Request, result *Result, graphBytes []byte) error {
	if w := req.Options.GraphWriter; w != nil {
		if _, err := w.Write(graphBytes); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "write build description").Fatal().Build()
		}
		return nil
	}
	path, err := executor.WriteGraph(result.DestinationRoot, s.cfg.Executor.GraphFile, graphBytes)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write build description").
			Fatal().
			WithContext(ferrors.ContextPath, result.DestinationRoot).
			Build()
	}
	result.GraphPath = path
	observability.InfoContext(ctx, "Build description written", logfields.Path(path))
	return nil
}

// prepare resolves every root, following symlinks, before anything touches
// the filesystem. The destination root is created before scanning so an
// unusable output location aborts the run early.
func (s *DefaultService) prepare(req Request, result *Result) error {
	src, err := scan.ResolveRoot(req.SourceDir)
	if err != nil {
		return ferrors.WrapError(fmt.Errorf("%w: %w", ErrSourceRoot, err), ferrors.CategoryValidation, "resolve source root").
			WithContext(ferrors.ContextPath, req.SourceDir).
			Build()
	}
	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		cause := statErr
		if cause == nil {
			cause = fmt.Errorf("%s is not a directory", src)
		}
		return ferrors.WrapError(fmt.Errorf("%w: %w", ErrSourceRoot, cause), ferrors.CategoryFileSystem, "source root is not a readable directory").
			Fatal().
			WithContext(ferrors.ContextPath, src).
			Build()
	}
	dest, err := scan.ResolveRoot(req.OutputDir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "resolve destination root").
			WithContext(ferrors.ContextPath, req.OutputDir).
			Build()
	}
	siteRoot, err := site.ResolveSiteRoot(dest, s.cfg.Site.Marker)
	if err != nil {
		return err
	}
	result.SourceRoot, result.DestinationRoot, result.SiteRoot = src, dest, siteRoot

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return ferrors.WrapError(fmt.Errorf("%w: %w", ErrDestinationUncreatable, err), ferrors.CategoryFileSystem, "cannot create destination root").
			Fatal().
			WithContext(ferrors.ContextPath, dest).
			Build()
	}
	return nil
}

// describeSource records the source revision. A tree outside version control
// is normal and leaves the revision empty.
func (s *DefaultService) describeSource(ctx context.Context, result *Result) {
	rev, err := git.Describe(result.SourceRoot)
	switch {
	case err == nil:
		result.Revision = rev.String()
	case errors.Is(err, git.ErrNotRepository):
	default:
		observability.DebugContext(ctx, "Could not describe source revision", logfields.Error(err))
	}
}

func (s *DefaultService) generator(req Request, result *Result) *graph.Generator {
	policy, _ := graph.ParseCollisionPolicy(s.cfg.Graph.PrimaryCollisions)
	return graph.NewGenerator(graph.Options{
		SourceRoot:      result.SourceRoot,
		DestinationRoot: result.DestinationRoot,
		SiteRoot:        result.SiteRoot,
		Revision:        result.Revision,
		PrimaryExt:      s.cfg.Scan.PrimaryExt,
		PassThroughExt:  s.cfg.Scan.PassThroughExt,
		TargetExt:       s.cfg.Scan.TargetExt,
		ConvertTemplate: s.cfg.Convert.Command,
		ScriptsDir:      s.cfg.Convert.ScriptsDir,
		PostProcess:     s.cfg.PostProcessCommand(req.Options.Obsidian),
		CopyCommand:     s.cfg.Copy.Command,
		FoldCase:        s.cfg.Scan.FoldCase,
		Collisions:      policy,
		Recorder:        s.recorder,
	})
}

func (s *DefaultService) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.recorder.ObserveStageDuration(stage, time.Since(start))
	if err != nil {
		s.recorder.IncStageResult(stage, metrics.ResultFailed)
		slog.Debug("Stage failed", logfields.Stage(stage), logfields.Error(err))
		return err
	}
	s.recorder.IncStageResult(stage, metrics.ResultSuccess)
	return nil
}
