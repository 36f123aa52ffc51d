package render

import (
	"strings"

	"zotsearch/internal/biblio"
	"zotsearch/internal/highlight"
)

// Kind selects the template a document is shown with.
type Kind string

const (
	KindArticle  Kind = "article"
	KindBook     Kind = "book"
	KindFallback Kind = "fallback"
)

// Cover describes the image block of a result card.
type Cover struct {
	URL         string `json:"url,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Snippet is a matched page from the document's attachments.
type Snippet struct {
	Page string          `json:"page,omitempty"`
	Text highlight.Spans `json:"text"`
}

// View is the display model of one search result.
type View struct {
	ItemID  string          `json:"item_id,omitempty"`
	Kind    Kind            `json:"kind"`
	Title   highlight.Spans `json:"title"`
	Authors highlight.Spans `json:"authors,omitempty"`
	// Source is the container title (or publisher) followed by the citation.
	Source highlight.Spans `json:"source,omitempty"`
	// IdentifierRow is set for templates that always reserve a DOI/ISBN row,
	// even when Identifier is empty.
	IdentifierRow bool            `json:"identifier_row,omitempty"`
	Identifier    highlight.Spans `json:"identifier,omitempty"`
	Abstract      highlight.Spans `json:"abstract,omitempty"`
	Cover         *Cover          `json:"cover,omitempty"`
	Snippets      []Snippet       `json:"snippets,omitempty"`
}

// Renderer turns documents into views. It holds no mutable state and is safe
// for concurrent use.
type Renderer struct {
	coverBase  string
	maxAuthors int
}

// NewRenderer returns a renderer building cover URLs under coverBase and
// truncating author lists at maxAuthors (<= 0 for the default).
func NewRenderer(coverBase string, maxAuthors int) *Renderer {
	if maxAuthors <= 0 {
		maxAuthors = DefaultMaxAuthors
	}
	return &Renderer{coverBase: coverBase, maxAuthors: maxAuthors}
}

// KindOf maps a CSL type to a template. The backend may return the type
// wrapped in highlight markup when the query matched it.
func KindOf(m biblio.Metadata) Kind {
	switch strings.TrimSpace(highlight.Parse(string(m.Type)).Plain()) {
	case biblio.TypeArticleJournal:
		return KindArticle
	case biblio.TypeBook:
		return KindBook
	default:
		return KindFallback
	}
}

// Render builds the view for doc.
func (r *Renderer) Render(doc biblio.Document) View {
	m := doc.Metadata
	v := View{
		ItemID: doc.ItemID,
		Kind:   KindOf(m),
		Title:  highlight.Parse(string(m.Title)),
	}

	switch v.Kind {
	case KindArticle:
		v.Authors = FormatAuthors(m.Author, r.maxAuthors)
		v.Source = highlight.Join(" ", highlight.Parse(string(m.ContainerTitle)), VolumeIssuePages(m))
		v.IdentifierRow = true
		v.Identifier = prefixed("doi:", m.DOI)
		v.Abstract = highlight.Parse(string(m.Abstract))
		v.Cover = r.cover(doc, true)
		v.Snippets = snippets(doc)
	case KindBook:
		v.Authors = FormatAuthors(m.Author, r.maxAuthors)
		v.Source = highlight.Join(" ", highlight.Parse(string(m.Publisher)), VolumeIssuePages(m))
		v.IdentifierRow = true
		v.Identifier = prefixed("ISBN:", m.ISBN)
		v.Cover = r.cover(doc, false)
		v.Snippets = snippets(doc)
	default:
		v.Source = highlight.Parse(string(m.ContainerTitle))
	}
	return v
}

// RenderAll renders docs in order.
func (r *Renderer) RenderAll(docs []biblio.Document) []View {
	views := make([]View, 0, len(docs))
	for _, d := range docs {
		views = append(views, r.Render(d))
	}
	return views
}

func (r *Renderer) cover(doc biblio.Document, placeholder bool) *Cover {
	if u := CoverURL(r.coverBase, doc.CoverHash); u != "" {
		return &Cover{URL: u}
	}
	if placeholder {
		return &Cover{Placeholder: true}
	}
	return nil
}

func prefixed(prefix string, value biblio.Text) highlight.Spans {
	spans := highlight.Parse(string(value))
	if spans.Empty() {
		return nil
	}
	return highlight.Concat(highlight.Text(prefix), spans)
}

func snippets(doc biblio.Document) []Snippet {
	if len(doc.Fulltext) == 0 {
		return nil
	}
	out := make([]Snippet, 0, len(doc.Fulltext))
	for _, hit := range doc.Fulltext {
		text := highlight.Parse(string(hit.Fulltext.Text))
		if text.Empty() {
			continue
		}
		out = append(out, Snippet{
			Page: highlight.Parse(string(hit.Fulltext.Page)).Plain(),
			Text: text,
		})
	}
	return out
}
