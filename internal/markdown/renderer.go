package markdown

import (
	"bytes"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultStyle is the chroma style used for the highlight stylesheet.
const DefaultStyle = "github"

// Options configures a Renderer.
type Options struct {
	// Style names the chroma style served by Stylesheet. Markup only carries
	// classes, so the style never changes rendered HTML.
	Style string
	// LineNumbers prefixes highlighted code lines with their number.
	LineNumbers bool
	Logger      interfaces.Logger
}

// Renderer converts markdown into sanitized HTML. A single instance is safe
// for concurrent use: the goldmark engine and the sanitizer policy are built
// once and only read afterwards.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
	style  string
	logger interfaces.Logger
}

var _ interfaces.MarkdownRenderer = (*Renderer)(nil)

// NewRenderer constructs a Renderer using opts.
func NewRenderer(opts Options) *Renderer {
	style := strings.TrimSpace(opts.Style)
	if style == "" {
		style = DefaultStyle
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Renderer{
		engine: newGoldmarkEngine(opts.LineNumbers),
		policy: newPolicy(),
		style:  style,
		logger: logger,
	}
}

// Render converts markdown into HTML. It never fails; should the engine
// report an error the escaped source is returned inside a pre block.
func (r *Renderer) Render(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		r.logger.Warn("markdown.render.degraded", "error", err)
		buf.Reset()
		buf.WriteString("<pre>")
		template.HTMLEscape(&buf, []byte(markdown))
		buf.WriteString("</pre>\n")
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// Style returns the configured chroma style name.
func (r *Renderer) Style() string {
	return r.style
}

func newGoldmarkEngine(lineNumbers bool) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParser(newParser()),
		goldmark.WithExtensions(
			extension.NewTable(
				extension.WithTableCellAlignMethod(extension.TableCellAlignAttribute),
			),
			extension.Strikethrough,
			extension.Footnote,
			extension.Typographer,
			Superscript,
			highlighting.NewHighlighting(
				highlighting.WithGuessLanguage(false),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WithLineNumbers(lineNumbers),
				),
			),
		),
	)
}

// newParser mirrors goldmark's default parser minus the indented code block
// parser, so four leading spaces never turn prose into code. Fenced blocks are
// the only code block syntax.
func newParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(blockParsers()...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

func blockParsers() []util.PrioritizedValue {
	return []util.PrioritizedValue{
		util.Prioritized(parser.NewSetextHeadingParser(), 100),
		util.Prioritized(parser.NewThematicBreakParser(), 200),
		util.Prioritized(parser.NewListParser(), 300),
		util.Prioritized(parser.NewListItemParser(), 400),
		util.Prioritized(parser.NewATXHeadingParser(), 600),
		util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
		util.Prioritized(parser.NewBlockquoteParser(), 800),
		util.Prioritized(parser.NewHTMLBlockParser(), 900),
		util.Prioritized(parser.NewParagraphParser(), 1000),
	}
}
