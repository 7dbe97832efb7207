// Package markdown renders article bodies into HTML that can be embedded in a
// page without further escaping. Rendering covers tables, fenced code,
// footnotes, strikethrough and superscript, highlights fenced code through
// chroma CSS classes, applies typographic substitutions, and filters every
// piece of raw HTML out of the result.
package markdown
