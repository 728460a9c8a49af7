package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/orgbuilder/cmd/orgbuilder/commands"
	"git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("orgbuilder"),
		kong.Description("Generate a ninja build description that converts an org-mode tree into a Hugo content tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, &cli)
	if err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
