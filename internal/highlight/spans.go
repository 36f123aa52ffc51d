// Package highlight turns backend search fragments into structured spans.
//
// The search backend wraps every matched term in a marker element. Instead of
// passing those fragments to the page as raw markup, they are parsed once into
// a list of (text, highlighted) spans that templates render with escaping.
package highlight

import "strings"

// Span is a run of text that is either a search match or plain text.
type Span struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// Spans is an ordered list of spans forming one display value.
type Spans []Span

// Text returns s as a single plain span. An empty string yields nil.
func Text(s string) Spans {
	if s == "" {
		return nil
	}
	return Spans{{Text: s}}
}

// Marked returns s as a single highlighted span.
func Marked(s string) Spans {
	if s == "" {
		return nil
	}
	return Spans{{Text: s, Highlighted: true}}
}

// Plain returns the text with all highlighting dropped.
func (s Spans) Plain() string {
	var b strings.Builder
	for _, sp := range s {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// HasHighlight reports whether any span is a match.
func (s Spans) HasHighlight() bool {
	for _, sp := range s {
		if sp.Highlighted && sp.Text != "" {
			return true
		}
	}
	return false
}

// Empty reports whether the spans carry no text at all.
func (s Spans) Empty() bool {
	for _, sp := range s {
		if sp.Text != "" {
			return false
		}
	}
	return true
}

// Append adds spans to the end of s, merging neighbours with the same flag.
// Like the builtin append it may reuse the storage of s.
func (s Spans) Append(more ...Span) Spans {
	for _, sp := range more {
		if sp.Text == "" {
			continue
		}
		if n := len(s); n > 0 && s[n-1].Highlighted == sp.Highlighted {
			s[n-1].Text += sp.Text
			continue
		}
		s = append(s, sp)
	}
	return s
}

// Concat joins several span lists without a separator.
func Concat(parts ...Spans) Spans {
	var out Spans
	for _, p := range parts {
		out = out.Append(p...)
	}
	return out
}

// Join joins non-empty span lists with a plain separator.
func Join(sep string, parts ...Spans) Spans {
	var out Spans
	first := true
	for _, p := range parts {
		if p.Empty() {
			continue
		}
		if !first {
			out = out.Append(Span{Text: sep})
		}
		out = out.Append(p...)
		first = false
	}
	return out
}
