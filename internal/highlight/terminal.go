package highlight

import "strings"

const (
	ansiMatch = "\033[1;33m"
	ansiReset = "\033[0m"
)

// ANSI renders spans for a colour terminal, matches in bold yellow.
func ANSI(s Spans) string {
	return wrap(s, ansiMatch, ansiReset)
}

// Bracket renders spans for plain output, matches wrapped in [ ].
func Bracket(s Spans) string {
	return wrap(s, "[", "]")
}

func wrap(s Spans, open, closeTag string) string {
	var b strings.Builder
	for _, sp := range s {
		if sp.Highlighted {
			b.WriteString(open)
			b.WriteString(sp.Text)
			b.WriteString(closeTag)
			continue
		}
		b.WriteString(sp.Text)
	}
	return b.String()
}
