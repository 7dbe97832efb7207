package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	highlightClass = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
	footnoteClass  = regexp.MustCompile(`^footnote-(ref|backref)$`)
)

// newPolicy starts from the user generated content policy and admits only
// what the renderer itself emits: chroma token classes and footnote links.
// Raw HTML from article sources never reaches this point unfiltered because
// goldmark omits it, and anything that slips through is dropped here.
func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(highlightClass).OnElements("pre", "code", "span")
	policy.AllowAttrs("tabindex").Matching(regexp.MustCompile(`^0$`)).OnElements("pre")
	policy.AllowAttrs("class").Matching(footnoteClass).OnElements("a")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^footnotes$`)).OnElements("div")
	policy.AllowAttrs("role").Matching(regexp.MustCompile(`^doc-(noteref|backlink|endnotes)$`)).OnElements("a", "div")
	return policy
}
