package markdown

import (
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// SuperscriptNode wraps text raised with a caret: "2^10" or "^(in words)".
type SuperscriptNode struct {
	gast.BaseInline
}

// KindSuperscript is the NodeKind of SuperscriptNode.
var KindSuperscript = gast.NewNodeKind("Superscript")

// Kind implements ast.Node.
func (n *SuperscriptNode) Kind() gast.NodeKind {
	return KindSuperscript
}

// Dump implements ast.Node.
func (n *SuperscriptNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// superscriptOpener marks an unclosed "^(" while the rest of the line is
// parsed. It becomes a SuperscriptNode at the matching ")" or falls back to
// literal text when the block ends first.
type superscriptOpener struct {
	gast.BaseInline
	Segment text.Segment
}

var kindSuperscriptOpener = gast.NewNodeKind("SuperscriptOpener")

func (n *superscriptOpener) Kind() gast.NodeKind {
	return kindSuperscriptOpener
}

func (n *superscriptOpener) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

var openersKey = parser.NewContextKey()

type superscriptParser struct{}

var _ parser.CloseBlocker = (*superscriptParser)(nil)

func (p *superscriptParser) Trigger() []byte {
	return []byte{'^', ')'}
}

// Parse handles "^word" directly. "^(" pushes an opener so the group body is
// parsed as ordinary inline markdown, and the next ")" closes it.
func (p *superscriptParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, segment := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	if line[0] == ')' {
		return p.close(parent, block, pc)
	}
	if len(line) < 2 {
		return nil
	}

	if line[1] == '(' {
		if len(line) < 3 || line[2] == ')' {
			return nil
		}
		opener := &superscriptOpener{Segment: text.NewSegment(segment.Start, segment.Start+2)}
		pushOpener(pc, opener)
		block.Advance(2)
		return opener
	}

	end := 1
	for end < len(line) && !util.IsSpace(line[end]) && line[end] != '^' && line[end] != ')' {
		end++
	}
	if end == 1 {
		return nil
	}
	node := &SuperscriptNode{}
	node.AppendChild(node, gast.NewTextSegment(text.NewSegment(segment.Start+1, segment.Start+end)))
	block.Advance(end)
	return node
}

func (p *superscriptParser) close(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	opener := popOpener(pc)
	if opener == nil || opener.Parent() != parent {
		if opener != nil {
			pushOpener(pc, opener)
		}
		return nil
	}

	parser.ProcessDelimiters(opener, pc)
	node := &SuperscriptNode{}
	for child := opener.NextSibling(); child != nil; {
		next := child.NextSibling()
		parent.RemoveChild(parent, child)
		node.AppendChild(node, child)
		child = next
	}
	parent.RemoveChild(parent, opener)
	block.Advance(1)
	return node
}

// CloseBlock turns openers left without a ")" back into literal text.
func (p *superscriptParser) CloseBlock(parent gast.Node, block text.Reader, pc parser.Context) {
	openers, _ := pc.Get(openersKey).([]*superscriptOpener)
	for _, opener := range openers {
		if owner := opener.Parent(); owner != nil {
			owner.ReplaceChild(owner, opener, gast.NewTextSegment(opener.Segment))
		}
	}
	pc.Set(openersKey, nil)
}

func pushOpener(pc parser.Context, opener *superscriptOpener) {
	openers, _ := pc.Get(openersKey).([]*superscriptOpener)
	pc.Set(openersKey, append(openers, opener))
}

func popOpener(pc parser.Context) *superscriptOpener {
	openers, _ := pc.Get(openersKey).([]*superscriptOpener)
	if len(openers) == 0 {
		return nil
	}
	last := openers[len(openers)-1]
	pc.Set(openersKey, openers[:len(openers)-1])
	return last
}

type superscriptHTMLRenderer struct{}

func (r *superscriptHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSuperscript, r.renderSuperscript)
	reg.Register(kindSuperscriptOpener, r.renderOpener)
}

func (r *superscriptHTMLRenderer) renderOpener(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("^(")
	}
	return gast.WalkSkipChildren, nil
}

func (r *superscriptHTMLRenderer) renderSuperscript(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<sup>")
	} else {
		_, _ = w.WriteString("</sup>")
	}
	return gast.WalkContinue, nil
}

type superscript struct{}

// Superscript is a goldmark extension for caret superscripts.
var Superscript goldmark.Extender = &superscript{}

func (e *superscript) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&superscriptParser{}, 600),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&superscriptHTMLRenderer{}, 600),
	))
}
