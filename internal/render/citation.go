package render

import (
	"zotsearch/internal/biblio"
	"zotsearch/internal/highlight"
)

// VolumeIssuePages builds the "2020;5(2):10-20" fragment. Missing fields are
// skipped along with their separators.
func VolumeIssuePages(m biblio.Metadata) highlight.Spans {
	var out highlight.Spans

	year := highlight.Parse(string(m.Issued.Year()))
	out = out.Append(year...)

	if vol := highlight.Parse(string(m.Volume)); !vol.Empty() {
		if !year.Empty() {
			out = out.Append(highlight.Span{Text: ";"})
		}
		out = out.Append(vol...)
	}

	if issue := highlight.Parse(string(m.Issue)); !issue.Empty() {
		out = out.Append(highlight.Span{Text: "("})
		out = out.Append(issue...)
		out = out.Append(highlight.Span{Text: ")"})
	}

	if page := highlight.Parse(string(m.Page)); !page.Empty() {
		if !out.Empty() {
			out = out.Append(highlight.Span{Text: ":"})
		}
		out = out.Append(page...)
	}

	return out
}
