package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"zotsearch/internal/biblio"
)

func TestWriteCSLStripsMarkup(t *testing.T) {
	docs := []biblio.Document{{
		ItemID: "ABCD",
		Tags:   []string{"papers/graphs", "reading"},
		Metadata: biblio.Metadata{
			Type:           biblio.TypeArticleJournal,
			Title:          `On <span class="highlight">graphs</span> &amp; trees`,
			ContainerTitle: "Nature",
			Author: []biblio.Author{
				{Given: `<span class="highlight">Ada</span>`, Family: "Lovelace"},
				{Literal: "The Team"},
			},
			DOI:    "10.1/x",
			Volume: "5",
			Issue:  "2",
			Page:   "10-20",
			Issued: &biblio.Date{DateParts: [][]biblio.Text{{"2020", "3"}}},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSL(&buf, docs))
	out := buf.String()
	assert.NotContains(t, out, "<span")
	assert.NotContains(t, out, "&amp;")

	var items []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "ABCD", item["id"])
	assert.Equal(t, "article-journal", item["type"])
	assert.Equal(t, "On graphs & trees", item["title"])
	assert.Equal(t, "10.1/x", item["DOI"])
	assert.Equal(t, "papers/graphs, reading", item["keyword"])

	authors := item["author"].([]any)
	require.Len(t, authors, 2)
	assert.Equal(t, "Ada", authors[0].(map[string]any)["given"])
	assert.Equal(t, "The Team", authors[1].(map[string]any)["literal"])

	issued := item["issued"].(map[string]any)
	assert.Equal(t, []any{[]any{2020, 3}}, issued["date-parts"])
}

func TestToCSLItemOmitsAbsentFields(t *testing.T) {
	item := ToCSLItem(biblio.Document{ItemID: "X", Metadata: biblio.Metadata{Title: "T"}})
	assert.Nil(t, item.Issued)
	assert.Nil(t, item.Author)

	var buf bytes.Buffer
	require.NoError(t, WriteCSL(&buf, []biblio.Document{{ItemID: "X", Metadata: biblio.Metadata{Title: "T"}}}))
	assert.Contains(t, buf.String(), "id: X")
	assert.Contains(t, buf.String(), "title: T")
	assert.NotContains(t, buf.String(), "issued")
	assert.NotContains(t, buf.String(), "author")
}
