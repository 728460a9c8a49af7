package ninja

import "strings"

var spaceEscaper = strings.NewReplacer(" ", "$ ")

// Escape makes path safe to use as a positional token in a build statement by
// replacing every space with "$ ". Paths that already contain '$' are not
// supported.
func Escape(path string) string {
	return spaceEscaper.Replace(path)
}

// Unescape reverses ninja escaping in a token or variable value: "$ " becomes
// a space, "$$" a dollar and "$:" a colon. Variable references are left as-is.
func Unescape(token string) string {
	if !strings.Contains(token, "$") {
		return token
	}
	var b strings.Builder
	b.Grow(len(token))
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c == '$' && i+1 < len(token) {
			switch next := token[i+1]; next {
			case ' ', '$', ':':
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
