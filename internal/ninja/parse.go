package ninja

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedBuild indicates a build statement that does not match "build <out>: <rule> <in...>".
var ErrMalformedBuild = errors.New("malformed build statement")

// Build is a parsed build statement with unescaped paths.
type Build struct {
	Output string
	Rule   string
	Inputs []string
	Vars   []Variable
}

// Var returns the unescaped value of a variable bound on the statement.
func (b Build) Var(name string) (string, bool) {
	for _, v := range b.Vars {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// ParseBuilds reads the build statements of a description. Rules, comments and
// top-level bindings are skipped.
func ParseBuilds(r io.Reader) ([]Build, error) {
	var (
		builds  []Build
		current *Build
		lineNo  int
	)
	flush := func() {
		if current != nil {
			builds = append(builds, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		// Trailing whitespace may be escaped ("$ "), so only the left side is trimmed.
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if blank := strings.TrimSpace(line); blank == "" || strings.HasPrefix(blank, "#") {
			continue
		}
		trimmed := strings.TrimLeft(line, " \t")

		if len(trimmed) < len(line) {
			if current != nil {
				name, value, ok := strings.Cut(trimmed, "=")
				if !ok {
					return nil, fmt.Errorf("%w: line %d: expected binding, got %q", ErrMalformedBuild, lineNo, trimmed)
				}
				current.Vars = append(current.Vars, Variable{
					Name:  strings.TrimSpace(name),
					Value: Unescape(strings.TrimLeft(value, " ")),
				})
			}
			continue
		}

		flush()
		if !strings.HasPrefix(trimmed, "build ") {
			continue
		}
		b, err := parseBuildLine(strings.TrimPrefix(trimmed, "build "))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		current = &b
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return builds, nil
}

func parseBuildLine(rest string) (Build, error) {
	tokens := splitTokens(rest)
	if len(tokens) < 2 || !strings.HasSuffix(tokens[0], ":") || strings.HasSuffix(tokens[0], "$:") {
		return Build{}, fmt.Errorf("%w: %q", ErrMalformedBuild, rest)
	}
	b := Build{
		Output: Unescape(strings.TrimSuffix(tokens[0], ":")),
		Rule:   tokens[1],
	}
	for _, tok := range tokens[2:] {
		b.Inputs = append(b.Inputs, Unescape(tok))
	}
	return b, nil
}

// splitTokens splits on unescaped spaces, keeping escape sequences intact.
func splitTokens(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '$' && i+1 < len(s):
			cur.WriteByte(c)
			cur.WriteByte(s[i+1])
			i++
		case c == ' ':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
