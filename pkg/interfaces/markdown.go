package interfaces

import "html/template"

// MarkdownRenderer converts an article body into HTML that is safe to embed
// as-is. Implementations never fail: malformed input degrades to best-effort
// output instead of an error.
type MarkdownRenderer interface {
	Render(markdown string) template.HTML
}
