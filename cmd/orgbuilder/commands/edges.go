package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/ninja"
)

// EdgesCmd implements the 'edges' command.
type EdgesCmd struct {
	Output string `arg:"" name:"output-dir" help:"Directory holding the build description" type:"path"`
	Rule   string `help:"Only list edges using this rule"`
}

func (e *EdgesCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	path := filepath.Join(e.Output, cfg.Executor.GraphFile)
	f, err := os.Open(path)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "open build description").
			WithContext(ferrors.ContextPath, path).
			WithHint("Run 'orgbuilder generate' first").
			Build()
	}
	defer func() { _ = f.Close() }()

	builds, err := ninja.ParseBuilds(f)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "parse build description").
			WithContext(ferrors.ContextPath, path).
			Build()
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, b := range builds {
		if e.Rule != "" && b.Rule != e.Rule {
			continue
		}
		for _, in := range b.Inputs {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Rule, in, b.Output)
		}
	}
	return tw.Flush()
}
