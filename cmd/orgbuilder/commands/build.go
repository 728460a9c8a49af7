package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/orgbuilder/internal/build"
	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SourceFlags `embed:""`

	Obsidian bool `help:"Post-process every converted file with the Obsidian script"`
	Jobs     int  `short:"j" help:"Maximum concurrent conversions (default: ninja's own)"`
	DryRun   bool `name:"dry-run" help:"Write the build description but do not run ninja"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	recorder, flush := runMetrics(cfg)
	defer flush()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pub := newPublisher(cfg)
	defer func() { _ = pub.Close() }()

	svc := build.NewService(cfg).WithRecorder(recorder).WithPublisher(pub)
	res, err := svc.Run(ctx, build.Request{
		SourceDir: b.Source,
		OutputDir: b.Output,
		Options: build.Options{
			Obsidian:    b.Obsidian,
			Parallelism: b.Jobs,
			DryRun:      b.DryRun,
		},
	})
	if err != nil {
		return err
	}

	slog.Info("Build finished",
		logfields.RunID(res.RunID),
		logfields.Edges(res.Report.Edges()),
		logfields.Path(res.GraphPath))
	return nil
}
