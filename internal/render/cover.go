package render

import (
	"net/url"
	"strings"
)

// CoverPath is the backend route serving cover images.
const CoverPath = "/_api/cover/"

// CoverURL returns the image URL for a cover hash, or "" when there is none.
func CoverURL(base, hash string) string {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + CoverPath + url.PathEscape(hash)
}
