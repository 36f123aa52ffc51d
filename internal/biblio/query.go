package biblio

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Query is the body sent to the search endpoint.
type Query struct {
	Q string `json:"q"`
}

// NewQuery builds a normalised query from user input.
func NewQuery(s string) Query {
	return Query{Q: s}.Normalize()
}

// Normalize applies NFKC and trims surrounding space. The indexer stores
// page text in NFKC, so full-width and compatibility forms match.
func (q Query) Normalize() Query {
	return Query{Q: strings.TrimSpace(norm.NFKC.String(q.Q))}
}

// Empty reports whether there is nothing to search for.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Q) == ""
}
