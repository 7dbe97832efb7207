package markdown

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// StyleExists reports whether chroma ships a style registered under name.
func StyleExists(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Stylesheet writes the CSS rules matching the classes emitted for highlighted
// code blocks. Unknown style names fall back to chroma's default style.
func Stylesheet(w io.Writer, style string) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(w, lookupStyle(style)); err != nil {
		return fmt.Errorf("markdown: write stylesheet %q: %w", style, err)
	}
	return nil
}

// Stylesheet writes the CSS for the renderer's configured style.
func (r *Renderer) Stylesheet(w io.Writer) error {
	return Stylesheet(w, r.style)
}

func lookupStyle(name string) *chroma.Style {
	if style, ok := styles.Registry[name]; ok {
		return style
	}
	return styles.Fallback
}
