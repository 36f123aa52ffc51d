// Package export writes search results in formats reference managers read.
package export

import (
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"zotsearch/internal/biblio"
	"zotsearch/internal/highlight"
)

// CSLItem is a CSL-YAML entry, consumable by Pandoc and Zotero.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type,omitempty"`
	Title          string    `yaml:"title,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate holds date-parts; numeric parts are written as integers.
type CSLDate struct {
	DateParts [][]any `yaml:"date-parts,omitempty"`
	Literal   string  `yaml:"literal,omitempty"`
}

// WriteCSL writes docs as a CSL-YAML list to w with highlight markup removed.
func WriteCSL(w io.Writer, docs []biblio.Document) error {
	items := make([]CSLItem, len(docs))
	for i, d := range docs {
		items[i] = ToCSLItem(d)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ToCSLItem converts one result document.
func ToCSLItem(d biblio.Document) CSLItem {
	m := d.Metadata
	item := CSLItem{
		ID:             d.ItemID,
		Type:           plain(m.Type),
		Title:          plain(m.Title),
		ContainerTitle: plain(m.ContainerTitle),
		DOI:            plain(m.DOI),
		ISBN:           plain(m.ISBN),
		Publisher:      plain(m.Publisher),
		Volume:         plain(m.Volume),
		Issue:          plain(m.Issue),
		Page:           plain(m.Page),
		Abstract:       plain(m.Abstract),
		Keyword:        strings.Join(d.Tags, ", "),
	}
	for _, a := range m.Author {
		item.Author = append(item.Author, CSLName{
			Family:  plain(a.Family),
			Given:   plain(a.Given),
			Literal: plain(a.Literal),
		})
	}
	item.Issued = cslDate(m.Issued)
	return item
}

func cslDate(d *biblio.Date) *CSLDate {
	if d == nil {
		return nil
	}
	out := &CSLDate{Literal: plain(d.Literal)}
	for _, part := range d.DateParts {
		row := make([]any, 0, len(part))
		for _, p := range part {
			s := plain(p)
			if n, err := strconv.Atoi(s); err == nil {
				row = append(row, n)
			} else {
				row = append(row, s)
			}
		}
		out.DateParts = append(out.DateParts, row)
	}
	if len(out.DateParts) == 0 && out.Literal == "" {
		return nil
	}
	return out
}

func plain(t biblio.Text) string {
	return strings.TrimSpace(highlight.Parse(string(t)).Plain())
}
