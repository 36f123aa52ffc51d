package render

import (
	"fmt"
	"io"
	"strings"

	"zotsearch/internal/highlight"
)

// Styler turns spans into terminal text.
type Styler func(highlight.Spans) string

// WriteText prints views as a numbered plain-text list.
func WriteText(w io.Writer, views []View, style Styler) error {
	if style == nil {
		style = highlight.Bracket
	}
	var b strings.Builder
	for i, v := range views {
		fmt.Fprintf(&b, "%d. %s\n", i+1, style(v.Title))
		line := func(s highlight.Spans) {
			if !s.Empty() {
				fmt.Fprintf(&b, "   %s\n", style(s))
			}
		}
		line(v.Authors)
		line(v.Source)
		line(v.Identifier)
		if v.Cover != nil && v.Cover.URL != "" {
			fmt.Fprintf(&b, "   cover: %s\n", v.Cover.URL)
		}
		for _, s := range v.Snippets {
			fmt.Fprintf(&b, "   p.%s: %s\n", s.Page, style(s.Text))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
