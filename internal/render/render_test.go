package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zotsearch/internal/biblio"
	"zotsearch/internal/highlight"
)

func names(ns ...string) []biblio.Author {
	out := make([]biblio.Author, len(ns))
	for i, n := range ns {
		out[i] = biblio.Author{Family: biblio.Text(n)}
	}
	return out
}

func mark(s string) string { return `<span class="highlight">` + s + `</span>` }

func TestFormatAuthors_UnderLimit(t *testing.T) {
	got := FormatAuthors(names("A", "B", "C"), 8)
	assert.Equal(t, "A, B, C", got.Plain())
	assert.False(t, got.HasHighlight())
}

func TestFormatAuthors_ExactlyAtLimit(t *testing.T) {
	got := FormatAuthors(names("A", "B", "C", "D", "E", "F", "G", "H"), 8)
	assert.Equal(t, "A, B, C, D, E, F, G, H", got.Plain())
}

func TestFormatAuthors_NameParts(t *testing.T) {
	authors := []biblio.Author{
		{Given: "Ada", Family: "Lovelace"},
		{Literal: "The Consortium"},
		{Literal: "L", Given: "G", Family: "F"},
		{},
		{Family: "Turing"},
	}
	got := FormatAuthors(authors, 0)
	assert.Equal(t, "Ada Lovelace, The Consortium, L G F, , Turing", got.Plain())
}

func TestFormatAuthors_HighlightedMiddleSurvives(t *testing.T) {
	authors := names("A", "B", "C", "D", "E", "F", "G", mark("H"), "I")
	got := FormatAuthors(authors, 8)

	plain := got.Plain()
	assert.True(t, strings.HasPrefix(plain, "A, B, C, D, E, F, G, "), plain)
	assert.Contains(t, plain, "..., H, ..., I")
	assert.Equal(t, "A, B, C, D, E, F, G, ..., H, ..., I", plain)
	assert.True(t, got.HasHighlight())
	assert.Contains(t, got, highlight.Span{Text: "H", Highlighted: true})
}

func TestFormatAuthors_TruncatedWithoutHighlight(t *testing.T) {
	authors := names("A", "B", "C", "D", "E", "F", "G", "H", "I", "J")
	got := FormatAuthors(authors, 8)
	assert.Equal(t, "A, B, C, D, E, F, G, J", got.Plain())
}

func TestFormatAuthors_HighlightedLastIsAppended(t *testing.T) {
	authors := names("A", "B", "C", "D", mark("E"))
	got := FormatAuthors(authors, 3)
	assert.Equal(t, "A, B, E", got.Plain())
	assert.True(t, got.HasHighlight())
}

func TestFormatAuthors_HighlightInGivenName(t *testing.T) {
	authors := []biblio.Author{
		{Family: "A"}, {Family: "B"}, {Family: "C"},
		{Given: biblio.Text(mark("Grace")), Family: "Hopper"},
		{Family: "E"},
	}
	got := FormatAuthors(authors, 3)
	assert.Equal(t, "A, B, ..., Grace Hopper, ..., E", got.Plain())
}

func TestFormatAuthors_Empty(t *testing.T) {
	assert.Nil(t, FormatAuthors(nil, 8))
	assert.Nil(t, FormatAuthors([]biblio.Author{}, 8))
}

func TestVolumeIssuePages(t *testing.T) {
	full := biblio.Metadata{
		Issued: &biblio.Date{DateParts: [][]biblio.Text{{"2020"}}},
		Volume: "5",
		Issue:  "2",
		Page:   "10-20",
	}

	tests := []struct {
		name string
		meta biblio.Metadata
		want string
	}{
		{"all fields", full, "2020;5(2):10-20"},
		{"empty", biblio.Metadata{}, ""},
		{"no year", biblio.Metadata{Volume: "5", Issue: "2", Page: "10-20"}, "5(2):10-20"},
		{"year and page", biblio.Metadata{Issued: full.Issued, Page: "7"}, "2020:7"},
		{"page only", biblio.Metadata{Page: "7"}, "7"},
		{"issue only", biblio.Metadata{Issue: "3"}, "(3)"},
		{"year and issue", biblio.Metadata{Issued: full.Issued, Issue: "3"}, "2020(3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VolumeIssuePages(tt.meta).Plain())
		})
	}
}

func TestVolumeIssuePages_KeepsHighlight(t *testing.T) {
	got := VolumeIssuePages(biblio.Metadata{Volume: biblio.Text(mark("42"))})
	assert.Equal(t, highlight.Spans{{Text: "42", Highlighted: true}}, got)
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "", CoverURL("http://localhost:8000", ""))
	assert.Equal(t, "", CoverURL("http://localhost:8000", "  "))
	assert.Equal(t, "http://localhost:8000/_api/cover/abc123", CoverURL("http://localhost:8000/", "abc123"))
	assert.Equal(t, "/_api/cover/a%2Fb", CoverURL("", "a/b"))
}

func articleDoc() biblio.Document {
	return biblio.Document{
		ItemID: "item-1",
		Metadata: biblio.Metadata{
			Type:           biblio.TypeArticleJournal,
			Title:          biblio.Text("Deep " + mark("Learning")),
			ContainerTitle: "Nature",
			Author:         names("LeCun", "Bengio", "Hinton"),
			Volume:         "521",
			Issue:          "7553",
			Page:           "436-444",
			Issued:         &biblio.Date{DateParts: [][]biblio.Text{{"2015", "5"}}},
			DOI:            "10.1038/nature14539",
			Abstract:       "Representation <b>learning</b>",
		},
		CoverHash: "abcd",
	}
}

func TestRender_Article(t *testing.T) {
	r := NewRenderer("http://backend:8000", 0)
	v := r.Render(articleDoc())

	assert.Equal(t, KindArticle, v.Kind)
	assert.Equal(t, "Deep Learning", v.Title.Plain())
	assert.True(t, v.Title.HasHighlight())
	assert.Equal(t, "LeCun, Bengio, Hinton", v.Authors.Plain())
	assert.Equal(t, "Nature 2015;521(7553):436-444", v.Source.Plain())
	assert.True(t, v.IdentifierRow)
	assert.Equal(t, "doi:10.1038/nature14539", v.Identifier.Plain())
	assert.Equal(t, "Representation learning", v.Abstract.Plain())
	require.NotNil(t, v.Cover)
	assert.Equal(t, "http://backend:8000/_api/cover/abcd", v.Cover.URL)
}

func TestRender_ArticleWithoutDOIKeepsRow(t *testing.T) {
	doc := articleDoc()
	doc.Metadata.DOI = ""
	doc.CoverHash = ""

	v := NewRenderer("", 0).Render(doc)
	assert.True(t, v.IdentifierRow)
	assert.True(t, v.Identifier.Empty())
	require.NotNil(t, v.Cover)
	assert.True(t, v.Cover.Placeholder)
	assert.Empty(t, v.Cover.URL)
}

func TestRender_Book(t *testing.T) {
	doc := biblio.Document{
		Metadata: biblio.Metadata{
			Type:      biblio.TypeBook,
			Title:     "Structure and Interpretation of Computer Programs",
			Author:    []biblio.Author{{Given: "Harold", Family: "Abelson"}, {Given: "Gerald Jay", Family: "Sussman"}},
			Publisher: "MIT Press",
			Issued:    &biblio.Date{DateParts: [][]biblio.Text{{"1985"}}},
			ISBN:      "978-0-262-01077-1",
		},
	}
	v := NewRenderer("http://backend", 0).Render(doc)

	assert.Equal(t, KindBook, v.Kind)
	assert.Equal(t, "Harold Abelson, Gerald Jay Sussman", v.Authors.Plain())
	assert.Equal(t, "MIT Press 1985", v.Source.Plain())
	assert.Equal(t, "ISBN:978-0-262-01077-1", v.Identifier.Plain())
	assert.Nil(t, v.Cover, "books without a cover hash request no image")
	assert.Empty(t, v.Abstract)
}

func TestRender_UnknownTypeFallsBack(t *testing.T) {
	for _, typ := range []biblio.Text{"", "thesis", "webpage"} {
		doc := articleDoc()
		doc.Metadata.Type = typ

		v := NewRenderer("http://backend", 0).Render(doc)
		assert.Equal(t, KindFallback, v.Kind)
		assert.Equal(t, "Deep Learning", v.Title.Plain())
		assert.Equal(t, "Nature", v.Source.Plain())
		assert.Nil(t, v.Authors)
		assert.Nil(t, v.Cover)
		assert.False(t, v.IdentifierRow)
		assert.Nil(t, v.Snippets)
	}
}

func TestKindOf_HighlightedType(t *testing.T) {
	m := biblio.Metadata{Type: biblio.Text(mark("book"))}
	assert.Equal(t, KindBook, KindOf(m))
}

func TestRender_Snippets(t *testing.T) {
	doc := articleDoc()
	hit := biblio.FulltextHit{ID: "abcd-00003"}
	hit.Fulltext.Page = "3"
	hit.Fulltext.Text = biblio.Text("…deep " + mark("learning") + "…")
	empty := biblio.FulltextHit{ID: "abcd-00004"}
	doc.Fulltext = []biblio.FulltextHit{hit, empty}

	v := NewRenderer("", 0).Render(doc)
	require.Len(t, v.Snippets, 1)
	assert.Equal(t, "3", v.Snippets[0].Page)
	assert.True(t, v.Snippets[0].Text.HasHighlight())
}

func TestRenderAllKeepsOrder(t *testing.T) {
	a := articleDoc()
	b := articleDoc()
	b.ItemID = "item-2"
	views := NewRenderer("", 0).RenderAll([]biblio.Document{a, b})
	require.Len(t, views, 2)
	assert.Equal(t, "item-1", views[0].ItemID)
	assert.Equal(t, "item-2", views[1].ItemID)
}

func TestWriteText(t *testing.T) {
	views := NewRenderer("http://backend", 0).RenderAll([]biblio.Document{articleDoc()})
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, views, nil))

	out := buf.String()
	assert.Contains(t, out, "1. Deep [Learning]\n")
	assert.Contains(t, out, "   LeCun, Bengio, Hinton\n")
	assert.Contains(t, out, "   doi:10.1038/nature14539\n")
	assert.Contains(t, out, "   cover: http://backend/_api/cover/abcd\n")
}
