package biblio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendPayload = `{
  "count": 2,
  "data": [
    {
      "item_id": "I3NlY3Rpb24",
      "metadata": {
        "type": "article-journal",
        "title": "Deep <span class=\"highlight\">Learning</span>",
        "container-title": "Nature",
        "author": [{"given": "Yann", "family": "LeCun"}, {"literal": "DeepMind"}],
        "volume": 521,
        "issue": "7553",
        "page": "436-444",
        "issued": {"date-parts": [["2015", 5, 28]]},
        "DOI": "10.1038/nature14539"
      },
      "tags": ["ML", "ML/Reviews"],
      "fulltext": [
        {"id": "abcd-00003", "fingerprint": "abcd", "total_pages": "9",
         "fulltext": {"page": "3", "text": "…<span class=\"highlight\">learning</span> …", "guessed_lang": "en"}}
      ],
      "cover_hash": "abcd0009"
    },
    {
      "item_id": "Ym9vaw",
      "metadata": {"type": "book", "title": "SICP", "issued": {"literal": "1985"}},
      "tags": [],
      "fulltext": [],
      "cover_hash": null
    }
  ]
}`

func TestDecodeSearchResponse(t *testing.T) {
	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(backendPayload), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Count)

	doc := resp.Data[0]
	assert.Equal(t, Text(TypeArticleJournal), doc.Metadata.Type)
	assert.Equal(t, Text("521"), doc.Metadata.Volume)
	assert.Equal(t, Text("7553"), doc.Metadata.Issue)
	assert.Equal(t, Text("2015"), doc.Metadata.Issued.Year())
	require.Len(t, doc.Metadata.Author, 2)
	assert.Equal(t, []Text{"Yann", "LeCun"}, doc.Metadata.Author[0].Parts())
	assert.Equal(t, []Text{"DeepMind"}, doc.Metadata.Author[1].Parts())
	require.Len(t, doc.Fulltext, 1)
	assert.Equal(t, Text("3"), doc.Fulltext[0].Fulltext.Page)
	assert.True(t, doc.HasCover())

	book := resp.Data[1]
	assert.False(t, book.HasCover())
	assert.Equal(t, Text(""), book.Metadata.Issued.Year())
	assert.Equal(t, Text("1985"), book.Metadata.Issued.Literal)
}

func TestTextRejectsObjects(t *testing.T) {
	var m Metadata
	err := json.Unmarshal([]byte(`{"title": {"nested": true}}`), &m)
	assert.Error(t, err)
}

func TestYearOnNilDate(t *testing.T) {
	var d *Date
	assert.Equal(t, Text(""), d.Year())
	assert.Equal(t, Text(""), (&Date{DateParts: [][]Text{{}}}).Year())
}

func TestAuthorPartsAllAbsent(t *testing.T) {
	assert.Empty(t, Author{}.Parts())
}

func TestQueryNormalize(t *testing.T) {
	q := NewQuery("  ｄｅｅｐ　learning ")
	assert.Equal(t, "deep learning", q.Q)
	assert.False(t, q.Empty())
	assert.True(t, NewQuery(" \t").Empty())

	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":"deep learning"}`, string(b))
}
