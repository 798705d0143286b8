package preview

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"gitlab.com/tozd/go/errors"
)

// Raw HTML in documents is passed through unescaped, both in the block tree
// and in HTML output. Content from untrusted repositories can inject markup.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// BlockKind identifies a document block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockCode
	BlockList
	BlockQuote
	BlockRule
	BlockHTML
	BlockTable
)

// Alignment of a table column.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Block is one node of the rendered document tree.
type Block struct {
	Kind BlockKind
	// Level is the heading level (1-6).
	Level int
	// Lines holds inline content for paragraphs, headings, code and HTML.
	Lines [][]Segment
	// Info is the fenced code language.
	Info string

	Ordered bool
	Start   int
	// Items holds list items, each a sequence of blocks.
	Items [][]Block
	// Children holds blockquote content.
	Children []Block

	// Rows holds table cells; the first row is the header.
	Rows  [][][]Segment
	Align []Alignment
}

// Document is a parsed markdown text.
type Document struct {
	Blocks []Block
	source []byte
}

// ParseDocument parses markdown into a block tree.
func ParseDocument(content string) *Document {
	src := []byte(content)
	root := markdown.Parser().Parse(text.NewReader(src))

	c := converter{src: src}
	return &Document{Blocks: c.blocks(root), source: src}
}

// HTML renders the document to HTML with raw HTML left unescaped.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(d.source, &buf); err != nil {
		return "", errors.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

type converter struct {
	src []byte
}

func (c converter) blocks(parent ast.Node) []Block {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b, ok := c.block(n); ok {
			out = append(out, b)
		}
	}
	return out
}

func (c converter) block(n ast.Node) (Block, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		return Block{Kind: BlockHeading, Level: node.Level, Lines: c.inlines(node, StyleHeading)}, true
	case *ast.Paragraph, *ast.TextBlock:
		return Block{Kind: BlockParagraph, Lines: c.inlines(node, StylePlain)}, true
	case *ast.FencedCodeBlock:
		lang := string(node.Language(c.src))
		return Block{Kind: BlockCode, Info: lang, Lines: c.codeLines(node, lang)}, true
	case *ast.CodeBlock:
		return Block{Kind: BlockCode, Lines: c.codeLines(node, "")}, true
	case *ast.List:
		b := Block{Kind: BlockList, Ordered: node.IsOrdered(), Start: node.Start}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			b.Items = append(b.Items, c.blocks(item))
		}
		return b, true
	case *ast.Blockquote:
		return Block{Kind: BlockQuote, Children: c.blocks(node)}, true
	case *ast.ThematicBreak:
		return Block{Kind: BlockRule}, true
	case *ast.HTMLBlock:
		return Block{Kind: BlockHTML, Lines: c.htmlLines(node)}, true
	case *extast.Table:
		return c.table(node), true
	}
	return Block{}, false
}

func (c converter) rawLines(n ast.Node) []string {
	segs := n.Lines()
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(c.src)), "\r\n"))
	}
	return lines
}

func (c converter) codeLines(n ast.Node, lang string) [][]Segment {
	raw := c.rawLines(n)
	if len(raw) == 0 {
		return nil
	}

	if lang != "" {
		if view := highlight(strings.Join(raw, "\n")+"\n", lang); view.Highlighted {
			out := make([][]Segment, len(view.Lines))
			for i, line := range view.Lines {
				for _, tok := range line.Tokens {
					out[i] = append(out[i], Segment{Text: tok.Text, Style: StyleToken, Token: tok.Type})
				}
			}
			return out
		}
	}

	out := make([][]Segment, len(raw))
	for i, line := range raw {
		out[i] = []Segment{{Text: line, Style: StyleCodeBlock}}
	}
	return out
}

func (c converter) htmlLines(n *ast.HTMLBlock) [][]Segment {
	raw := c.rawLines(n)
	if n.HasClosure() {
		raw = append(raw, strings.TrimRight(string(n.ClosureLine.Value(c.src)), "\r\n"))
	}
	out := make([][]Segment, len(raw))
	for i, line := range raw {
		out[i] = []Segment{{Text: line, Style: StyleHTML}}
	}
	return out
}

func (c converter) table(n *extast.Table) Block {
	b := Block{Kind: BlockTable}
	for _, a := range n.Alignments {
		b.Align = append(b.Align, alignmentOf(a))
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		style := StylePlain
		if _, ok := row.(*extast.TableHeader); ok {
			style = StyleStrong
		}
		var cells [][]Segment
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, flatten(c.inlines(cell, style)))
		}
		b.Rows = append(b.Rows, cells)
	}
	return b
}

func alignmentOf(a extast.Alignment) Alignment {
	switch a {
	case extast.AlignLeft:
		return AlignLeft
	case extast.AlignCenter:
		return AlignCenter
	case extast.AlignRight:
		return AlignRight
	}
	return AlignNone
}

// inlines converts the inline children of n into lines, breaking at soft and
// hard line breaks so the author's wrapping is kept.
func (c converter) inlines(n ast.Node, style Style) [][]Segment {
	w := lineWriter{}
	c.inline(&w, n, style)
	return w.finish()
}

func (c converter) inline(w *lineWriter, parent ast.Node, style Style) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			w.add(string(node.Value(c.src)), style)
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.newline()
			}
		case *ast.String:
			w.add(string(node.Value), style)
		case *ast.CodeSpan:
			w.add(c.plainText(node), StyleCode)
		case *ast.Emphasis:
			inner := StyleEmphasis
			if node.Level >= 2 {
				inner = StyleStrong
			}
			c.inline(w, node, inner)
		case *extast.Strikethrough:
			c.inline(w, node, StyleStrike)
		case *ast.Link:
			c.inline(w, node, StyleLink)
			if dest := string(node.Destination); dest != "" {
				w.add(" (", StylePlain)
				w.add(dest, StyleLink)
				w.add(")", StylePlain)
			}
		case *ast.Image:
			w.add("[image: "+c.plainText(node)+"]", StylePlain)
			if dest := string(node.Destination); dest != "" {
				w.add(" (", StylePlain)
				w.add(dest, StyleLink)
				w.add(")", StylePlain)
			}
		case *ast.AutoLink:
			w.add(string(node.URL(c.src)), StyleLink)
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				w.add(string(seg.Value(c.src)), StyleHTML)
			}
		case *extast.TaskCheckBox:
			if node.IsChecked {
				w.add("[x] ", style)
			} else {
				w.add("[ ] ", style)
			}
		default:
			c.inline(w, node, style)
		}
	}
}

func (c converter) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Value(c.src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

type lineWriter struct {
	lines   [][]Segment
	current []Segment
}

func (w *lineWriter) add(text string, style Style) {
	if text == "" {
		return
	}
	// Raw HTML spans can contain newlines.
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		if i > 0 {
			w.newline()
		}
		if part == "" {
			continue
		}
		if n := len(w.current); n > 0 && w.current[n-1].Style == style {
			w.current[n-1].Text += part
			continue
		}
		w.current = append(w.current, Segment{Text: part, Style: style})
	}
}

func (w *lineWriter) newline() {
	w.lines = append(w.lines, w.current)
	w.current = nil
}

func (w *lineWriter) finish() [][]Segment {
	if len(w.current) > 0 {
		w.lines = append(w.lines, w.current)
		w.current = nil
	}
	return w.lines
}

func flatten(lines [][]Segment) []Segment {
	var out []Segment
	for i, line := range lines {
		if i > 0 {
			out = append(out, Segment{Text: " ", Style: StylePlain})
		}
		out = append(out, line...)
	}
	return out
}
