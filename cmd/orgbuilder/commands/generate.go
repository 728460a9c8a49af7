package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/orgbuilder/internal/build"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	SourceFlags `embed:""`

	Obsidian bool `help:"Post-process every converted file with the Obsidian script"`
	Stdout   bool `help:"Print the build description instead of writing it into the output directory"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	recorder, flush := runMetrics(cfg)
	defer flush()

	opts := build.Options{Obsidian: g.Obsidian}
	if g.Stdout {
		opts.GraphWriter = os.Stdout
	}
	pub := newPublisher(cfg)
	defer func() { _ = pub.Close() }()

	res, err := build.NewService(cfg).WithRecorder(recorder).WithPublisher(pub).Generate(context.Background(), build.Request{
		SourceDir: g.Source,
		OutputDir: g.Output,
		Options:   opts,
	})
	if err != nil {
		return err
	}

	if !g.Stdout {
		fmt.Printf("Wrote %s (%d convert, %d copy, %d shadowed)\n",
			res.GraphPath, res.Report.Convert, res.Report.Copy, len(res.Report.SkippedPassThrough))
	}
	return nil
}
