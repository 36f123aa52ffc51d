package highlight

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// MarkerClass is the class the backend puts on its highlight elements.
const MarkerClass = "highlight"

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// markerPolicy keeps only <span class="highlight"> and drops everything else,
// including the contents of script and style elements.
func markerPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^` + MarkerClass + `$`)).OnElements("span")
		policy = p
	})
	return policy
}

// Parse converts a backend fragment into spans. Text inside a marker element
// is highlighted; any other markup is discarded and entities are decoded.
func Parse(fragment string) Spans {
	if fragment == "" {
		return nil
	}
	if !strings.ContainsAny(fragment, "<&") {
		return Text(fragment)
	}

	clean := markerPolicy().Sanitize(fragment)
	z := html.NewTokenizer(strings.NewReader(clean))

	var (
		out   Spans
		stack []bool
		depth int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF at the end of the fragment; a strings.Reader has no other failures.
			return out
		case html.TextToken:
			out = out.Append(Span{Text: string(z.Text()), Highlighted: depth > 0})
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "span" {
				continue
			}
			marker := hasAttr && isMarker(z)
			stack = append(stack, marker)
			if marker {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) != "span" || len(stack) == 0 {
				continue
			}
			if stack[len(stack)-1] {
				depth--
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func isMarker(z *html.Tokenizer) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, c := range strings.Fields(string(val)) {
				if c == MarkerClass {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}
