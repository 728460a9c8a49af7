package ninja

import (
	"fmt"
	"io"
	"strings"
)

// Variable is a name = value binding written under a rule or build statement.
type Variable struct {
	Name  string
	Value string
}

// Writer streams a build description. The first write error is kept and all
// later calls become no-ops, so callers can emit a whole graph and check Err once.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Comment writes each line of text as a '#' comment.
func (w *Writer) Comment(text string) {
	for line := range strings.SplitSeq(text, "\n") {
		w.printf("# %s\n", line)
	}
}

// Newline writes an empty line.
func (w *Writer) Newline() {
	w.printf("\n")
}

// Rule declares a rule with its bindings (typically command and description),
// followed by a blank line.
func (w *Writer) Rule(name string, vars ...Variable) {
	w.printf("rule %s\n", name)
	w.variables(vars)
	w.Newline()
}

// Build writes a build statement. output and inputs must already be escaped.
func (w *Writer) Build(output, rule string, inputs []string, vars ...Variable) {
	if len(inputs) > 0 {
		w.printf("build %s: %s %s\n", output, rule, strings.Join(inputs, " "))
	} else {
		w.printf("build %s: %s\n", output, rule)
	}
	w.variables(vars)
	w.Newline()
}

func (w *Writer) variables(vars []Variable) {
	for _, v := range vars {
		w.printf("  %s = %s\n", v.Name, v.Value)
	}
}
