package graph

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
	"git.home.luguber.info/inful/orgbuilder/internal/metrics"
	"git.home.luguber.info/inful/orgbuilder/internal/ninja"
	"git.home.luguber.info/inful/orgbuilder/internal/scan"
)

// Options configure a Generator. All roots must be absolute.
type Options struct {
	SourceRoot      string
	DestinationRoot string
	SiteRoot        string
	// Revision, when known, is recorded in the header comment.
	Revision string

	PrimaryExt     string
	PassThroughExt string
	TargetExt      string

	// ConvertTemplate is expanded with RenderConvertCommand.
	ConvertTemplate string
	ScriptsDir      string
	// PostProcess, when set, is chained after every conversion.
	PostProcess string
	CopyCommand string

	// FoldCase matches extensions and compares claimed outputs
	// case-insensitively, for case-insensitive destination filesystems.
	FoldCase   bool
	Collisions CollisionPolicy

	Recorder metrics.Recorder
}

// Generator writes build descriptions.
type Generator struct {
	opts     Options
	mapper   Mapper
	recorder metrics.Recorder
}

// NewGenerator returns a Generator, filling unset options with defaults.
func NewGenerator(opts Options) *Generator {
	if opts.ConvertTemplate == "" {
		opts.ConvertTemplate = DefaultConvertTemplate
	}
	if opts.CopyCommand == "" {
		opts.CopyCommand = DefaultCopyCommand
	}
	if opts.Collisions == "" {
		opts.Collisions = CollisionWarn
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{
		opts: opts,
		mapper: Mapper{
			SourceRoot:      opts.SourceRoot,
			DestinationRoot: opts.DestinationRoot,
			PrimaryExt:      opts.PrimaryExt,
			TargetExt:       opts.TargetExt,
		},
		recorder: recorder,
	}
}

// Generate streams the complete build description to w.
//
// The returned report is non-nil whenever scanning got under way, including
// when the collision policy rejects the graph. Callers must treat anything
// written to w as incomplete when an error is returned.
func (g *Generator) Generate(w io.Writer) (*Report, error) {
	start := time.Now()
	report := &Report{}
	nw := ninja.NewWriter(w)

	g.writeRules(nw)

	claims := newClaimSet(g.opts.FoldCase)
	if err := g.primaryPass(nw, claims, report); err != nil {
		return report, err
	}
	report.Collisions = claims.collisions()
	if err := g.checkCollisions(report.Collisions); err != nil {
		return report, err
	}
	if err := g.passThroughPass(nw, claims, report); err != nil {
		return report, err
	}

	if err := nw.Err(); err != nil {
		return report, ferrors.WrapError(err, ferrors.CategoryGraph, "write build description").Fatal().Build()
	}

	report.Duration = time.Since(start)
	g.recorder.AddEdges(string(RuleConvert), report.Convert)
	g.recorder.AddEdges(string(RuleCopy), report.Copy)
	g.recorder.AddSkippedPassThrough(len(report.SkippedPassThrough))
	g.recorder.AddPrimaryCollisions(len(report.Collisions))

	slog.Info("Build description generated",
		logfields.Edges(report.Edges()),
		slog.Int("convert", report.Convert),
		slog.Int("copy", report.Copy),
		slog.Int("skipped_passthrough", len(report.SkippedPassThrough)),
		slog.Int("collisions", len(report.Collisions)),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (g *Generator) writeRules(nw *ninja.Writer) {
	source := g.opts.SourceRoot
	if g.opts.Revision != "" {
		source += " at " + g.opts.Revision
	}
	nw.Comment(fmt.Sprintf("Generated by orgbuilder from %s.\nDo not edit: this file is rewritten on every run.", source))
	nw.Newline()

	convert := RenderConvertCommand(g.opts.ConvertTemplate, CommandVars{
		SourceRoot: g.opts.SourceRoot,
		SiteRoot:   g.opts.SiteRoot,
		ScriptsDir: g.opts.ScriptsDir,
	}, g.opts.PostProcess)
	nw.Rule(string(RuleConvert),
		ninja.Variable{Name: "command", Value: convert},
		ninja.Variable{Name: "description", Value: string(RuleConvert) + " $in"},
	)
	nw.Rule(string(RuleCopy),
		ninja.Variable{Name: "command", Value: g.opts.CopyCommand},
		ninja.Variable{Name: "description", Value: string(RuleCopy) + " $in"},
	)
}

// primaryPass is phase one: it must finish before passThroughPass starts,
// because the claimed set it fills decides which copies are dropped.
func (g *Generator) primaryPass(nw *ninja.Writer, claims *claimSet, report *Report) error {
	for path, err := range scan.Scan(g.opts.SourceRoot, g.opts.PrimaryExt, g.scanOptions()...) {
		if err != nil {
			return scanError(err, g.opts.SourceRoot, KindPrimary)
		}
		edge, err := g.mapper.Map(path, KindPrimary)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryGraph, "map primary document").
				Fatal().
				WithContext(ferrors.ContextPath, path).
				Build()
		}

		claims.claim(edge)
		in, out := edge.Escaped()
		nw.Build(out, string(edge.Rule), []string{in},
			ninja.Variable{Name: VarIn, Value: in},
			ninja.Variable{Name: VarOut, Value: out},
		)
		report.Convert++
		slog.Debug("Convert edge", logfields.Input(edge.Input), logfields.Output(edge.Output))
	}
	return nil
}

// passThroughPass is phase two.
func (g *Generator) passThroughPass(nw *ninja.Writer, claims *claimSet, report *Report) error {
	for path, err := range scan.Scan(g.opts.SourceRoot, g.opts.PassThroughExt, g.scanOptions()...) {
		if err != nil {
			return scanError(err, g.opts.SourceRoot, KindPassThrough)
		}
		edge, err := g.mapper.Map(path, KindPassThrough)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryGraph, "map pass-through document").
				Fatal().
				WithContext(ferrors.ContextPath, path).
				Build()
		}

		if claims.claimed(edge.Output) {
			report.SkippedPassThrough = append(report.SkippedPassThrough, edge.Input)
			slog.Debug("Pass-through document shadowed by converted output",
				logfields.Input(edge.Input), logfields.Output(edge.Output))
			continue
		}

		in, out := edge.Escaped()
		nw.Build(out, string(edge.Rule), []string{in})
		report.Copy++
		slog.Debug("Copy edge", logfields.Input(edge.Input), logfields.Output(edge.Output))
	}
	return nil
}

func (g *Generator) checkCollisions(collisions []Collision) error {
	if len(collisions) == 0 {
		return nil
	}
	switch g.opts.Collisions {
	case CollisionIgnore:
		return nil
	case CollisionFail:
		outputs := make([]string, 0, len(collisions))
		for _, c := range collisions {
			outputs = append(outputs, c.Output)
		}
		return ferrors.WrapError(fmt.Errorf("%w: %s", ErrPrimaryCollision, strings.Join(outputs, ", ")),
			ferrors.CategoryGraph, fmt.Sprintf("%d output path(s) claimed by more than one document", len(collisions))).
			Fatal().
			UserAction().
			WithContext("collisions", collisions).
			WithHint("Rename one of the colliding documents, or set graph.primary_collisions to warn").
			Build()
	default:
		for _, c := range collisions {
			slog.Warn("Several documents convert to the same output; the executor keeps the last one",
				logfields.Output(c.Output), slog.Any("inputs", c.Inputs))
		}
		return nil
	}
}

func (g *Generator) scanOptions() []scan.Option {
	if g.opts.FoldCase {
		return []scan.Option{scan.WithFoldCase()}
	}
	return nil
}

func scanError(err error, root string, kind Kind) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "scan source tree").
		Fatal().
		WithContext(ferrors.ContextPath, root).
		WithContext("kind", kind.String()).
		Build()
}

// claimSet records the outputs claimed by primary documents.
type claimSet struct {
	fold   cases.Caser
	folded bool
	owners map[string][]Edge
	order  []string
}

func newClaimSet(foldCase bool) *claimSet {
	return &claimSet{
		fold:   cases.Fold(),
		folded: foldCase,
		owners: make(map[string][]Edge),
	}
}

func (c *claimSet) key(output string) string {
	if !c.folded {
		return output
	}
	return c.fold.String(norm.NFC.String(output))
}

func (c *claimSet) claim(edge Edge) {
	k := c.key(edge.Output)
	if _, ok := c.owners[k]; !ok {
		c.order = append(c.order, k)
	}
	c.owners[k] = append(c.owners[k], edge)
}

func (c *claimSet) claimed(output string) bool {
	_, ok := c.owners[c.key(output)]
	return ok
}

func (c *claimSet) collisions() []Collision {
	var out []Collision
	for _, k := range c.order {
		edges := c.owners[k]
		if len(edges) < 2 {
			continue
		}
		col := Collision{Output: edges[len(edges)-1].Output}
		for _, e := range edges {
			col.Inputs = append(col.Inputs, e.Input)
		}
		out = append(out, col)
	}
	return out
}
