// Package security holds the HTML sanitization policy applied to
// admin-authored content before it is persisted.
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from HTML bodies (blog posts, news items,
// content blocks). Allow-list based: anything not explicitly permitted is
// removed, including script/iframe/style tags and on* event attributes.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "b", "i",
		"h1", "h2", "h3", "h4",
	)

	// Links open in a new tab and never leak a referrer.
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AllowURLSchemes("https", "http", "mailto")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	// Images by absolute URL only; schemes restricted above.
	p.AllowAttrs("src", "alt").OnElements("img")

	return &Sanitizer{policy: p}
}

// Sanitize returns the safe subset of rawHTML. Idempotent; empty in, empty out.
func (s *Sanitizer) Sanitize(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}
