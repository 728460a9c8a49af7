package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/orgbuilder/internal/ninja"
)

// Kind classifies a source document.
type Kind int

const (
	// KindPrimary documents are in the authoring format and need conversion.
	KindPrimary Kind = iota
	// KindPassThrough documents are already in the target format and are copied.
	KindPassThrough
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindPassThrough:
		return "passthrough"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule is the name of a rule declared in the generated description.
type Rule string

const (
	RuleConvert Rule = "org2md"
	RuleCopy    Rule = "copy"
)

// Edge maps one source document to one output file.
type Edge struct {
	Input  string
	Output string
	Rule   Rule
	Kind   Kind
}

// Escaped returns the input and output paths as build statement tokens.
func (e Edge) Escaped() (input, output string) {
	return ninja.Escape(e.Input), ninja.Escape(e.Output)
}

// Mapper computes edges. It holds no state between calls, so identical
// inputs always map to identical edges.
type Mapper struct {
	SourceRoot      string
	DestinationRoot string
	PrimaryExt      string
	TargetExt       string
}

// Map computes the edge for a document of the given kind found under SourceRoot.
func (m Mapper) Map(path string, kind Kind) (Edge, error) {
	rel, err := filepath.Rel(m.SourceRoot, path)
	if err != nil {
		return Edge{}, fmt.Errorf("relative path of %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Edge{}, fmt.Errorf("%s is outside source root %s", path, m.SourceRoot)
	}

	edge := Edge{
		Input: filepath.Join(m.SourceRoot, rel),
		Kind:  kind,
	}
	switch kind {
	case KindPrimary:
		edge.Rule = RuleConvert
		rel = m.replaceExt(rel)
	case KindPassThrough:
		edge.Rule = RuleCopy
	default:
		return Edge{}, fmt.Errorf("unknown document kind %s", kind)
	}
	edge.Output = filepath.Join(m.DestinationRoot, rel)
	return edge, nil
}

// replaceExt swaps the primary extension (matched case-insensitively) for the
// target extension, falling back to replacing the last extension.
func (m Mapper) replaceExt(rel string) string {
	n := len(m.PrimaryExt)
	if n > 0 && len(rel) > n && strings.EqualFold(rel[len(rel)-n:], m.PrimaryExt) {
		return rel[:len(rel)-n] + m.TargetExt
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + m.TargetExt
}
