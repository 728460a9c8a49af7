package graph

import "strings"

// Placeholders accepted in convert command templates.
const (
	PlaceholderSourceRoot = "{source_root}"
	PlaceholderSiteRoot   = "{site_root}"
	PlaceholderScriptsDir = "{scripts_dir}"
	PlaceholderIn         = "{in}"
	PlaceholderOut        = "{out}"
)

// Per-edge variables carrying the input and output paths. They replace
// ninja's $in and $out in the convert command, because ninja shell-quotes
// those when they contain spaces and the converter would read the quotes
// literally.
const (
	VarIn  = "in_"
	VarOut = "out_"
)

// DefaultConvertTemplate runs the org-mode publisher in a batch Emacs.
const DefaultConvertTemplate = `emacs -nw --batch -l "{scripts_dir}/init-tiny.el" -l "{scripts_dir}/publish.el" ` +
	`--eval "(xb/publish \"{source_root}\" \"{in}\" \"{site_root}\" \"{out}\" )"`

// DefaultCopyCommand copies a pass-through document verbatim.
const DefaultCopyCommand = "cp $in $out"

// CommandVars are the run-wide values substituted into a convert template.
type CommandVars struct {
	SourceRoot string
	SiteRoot   string
	ScriptsDir string
}

// RenderConvertCommand expands a convert template. The run-wide roots are
// substituted literally; {in} and {out} become references to the per-edge
// variables. A non-empty postProcess command is chained after conversion and
// receives the output path.
func RenderConvertCommand(template string, vars CommandVars, postProcess string) string {
	r := strings.NewReplacer(
		PlaceholderSourceRoot, vars.SourceRoot,
		PlaceholderSiteRoot, vars.SiteRoot,
		PlaceholderScriptsDir, vars.ScriptsDir,
		PlaceholderIn, "$"+VarIn,
		PlaceholderOut, "$"+VarOut,
	)
	cmd := r.Replace(template)
	if postProcess = strings.TrimSpace(postProcess); postProcess != "" {
		cmd += " && " + postProcess + ` "$` + VarOut + `"`
	}
	return cmd
}
