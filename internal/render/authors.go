// Package render builds display models for search results: author lists,
// citation fragments and per-type document views.
package render

import (
	"zotsearch/internal/biblio"
	"zotsearch/internal/highlight"
)

// DefaultMaxAuthors is how many authors are listed before truncating.
const DefaultMaxAuthors = 8

type authorName struct {
	spans       highlight.Spans
	highlighted bool
}

func formatAuthor(a biblio.Author) authorName {
	parts := a.Parts()
	ss := make([]highlight.Spans, 0, len(parts))
	for _, p := range parts {
		ss = append(ss, highlight.Parse(string(p)))
	}
	spans := highlight.Join(" ", ss...)
	return authorName{spans: spans, highlighted: spans.HasHighlight()}
}

// FormatAuthors renders an author list. Up to max names are joined with ", ".
// Longer lists keep the first max-1 names and the last one; authors in between
// are dropped unless they contain a search match, in which case they are
// spliced in between ellipses. max <= 0 selects DefaultMaxAuthors.
func FormatAuthors(authors []biblio.Author, max int) highlight.Spans {
	if len(authors) == 0 {
		return nil
	}
	if max <= 0 {
		max = DefaultMaxAuthors
	}

	names := make([]authorName, len(authors))
	for i, a := range authors {
		names[i] = formatAuthor(a)
	}

	if len(names) <= max {
		return joinNames(names, ", ")
	}

	out := joinNames(names[:max-1], ", ")
	if max > 1 {
		out = out.Append(highlight.Span{Text: ", "})
	}
	last := len(names) - 1
	for _, n := range names[max-1 : last] {
		if !n.highlighted {
			continue
		}
		out = out.Append(highlight.Span{Text: "..., "})
		out = out.Append(n.spans...)
		out = out.Append(highlight.Span{Text: ", ..., "})
	}
	return out.Append(names[last].spans...)
}

// joinNames keeps empty names in place so positions stay stable.
func joinNames(names []authorName, sep string) highlight.Spans {
	var out highlight.Spans
	for i, n := range names {
		if i > 0 {
			out = out.Append(highlight.Span{Text: sep})
		}
		out = out.Append(n.spans...)
	}
	return out
}
