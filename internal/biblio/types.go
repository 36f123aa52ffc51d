// Package biblio defines the records returned by the bibliographic search
// backend. Metadata follows CSL-JSON as exported by Zotero.
package biblio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Document types the renderer knows about.
const (
	TypeArticleJournal = "article-journal"
	TypeBook           = "book"
)

// Text is a CSL scalar. The backend returns highlighted copies of metadata in
// which numbers may come back as strings, so both forms are accepted.
type Text string

// UnmarshalJSON accepts a JSON string, number, bool or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("biblio: expected scalar, got %s", data[:1])
	default:
		*t = Text(data)
		return nil
	}
}

// String returns the raw value, markup included.
func (t Text) String() string { return string(t) }

// Author is a CSL name.
type Author struct {
	Literal Text `json:"literal,omitempty" yaml:"literal,omitempty"`
	Given   Text `json:"given,omitempty" yaml:"given,omitempty"`
	Family  Text `json:"family,omitempty" yaml:"family,omitempty"`
}

// Parts returns the non-empty name parts in display order.
func (a Author) Parts() []Text {
	parts := make([]Text, 0, 3)
	for _, p := range []Text{a.Literal, a.Given, a.Family} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Date is a CSL date variable.
type Date struct {
	DateParts [][]Text `json:"date-parts,omitempty"`
	Literal   Text     `json:"literal,omitempty"`
	Raw       Text     `json:"raw,omitempty"`
}

// Year returns the first element of the first date part, or "".
func (d *Date) Year() Text {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	return d.DateParts[0][0]
}

// Metadata is the CSL-JSON item stored for a library entry.
type Metadata struct {
	Type           Text     `json:"type,omitempty"`
	Title          Text     `json:"title,omitempty"`
	ContainerTitle Text     `json:"container-title,omitempty"`
	Author         []Author `json:"author,omitempty"`
	DOI            Text     `json:"DOI,omitempty"`
	ISBN           Text     `json:"ISBN,omitempty"`
	Publisher      Text     `json:"publisher,omitempty"`
	Volume         Text     `json:"volume,omitempty"`
	Issue          Text     `json:"issue,omitempty"`
	Page           Text     `json:"page,omitempty"`
	Issued         *Date    `json:"issued,omitempty"`
	Abstract       Text     `json:"abstract,omitempty"`
}

// FulltextHit is one matched page of an attachment.
type FulltextHit struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint,omitempty"`
	TotalPages  Text   `json:"total_pages,omitempty"`
	Fulltext    struct {
		Page        Text   `json:"page"`
		Text        Text   `json:"text"`
		GuessedLang string `json:"guessed_lang,omitempty"`
	} `json:"fulltext"`
}

// Document is one search result entry.
type Document struct {
	ItemID    string        `json:"item_id"`
	Metadata  Metadata      `json:"metadata"`
	Tags      []string      `json:"tags,omitempty"`
	Fulltext  []FulltextHit `json:"fulltext,omitempty"`
	CoverHash string        `json:"cover_hash,omitempty"`
}

// HasCover reports whether a cover image can be requested for d.
func (d Document) HasCover() bool {
	return strings.TrimSpace(d.CoverHash) != ""
}

// SearchResponse is the body returned by the search endpoint.
type SearchResponse struct {
	Count int        `json:"count"`
	Data  []Document `json:"data"`
}
