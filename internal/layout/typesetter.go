package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Typesetter lays markdown out into positioned lines. The same instance
// backs both duration estimates and the live display so that both see the
// same content height.
type Typesetter struct {
	metrics Metrics
	md      goldmark.Markdown
}

func NewTypesetter(metrics Metrics) *Typesetter {
	return &Typesetter{
		metrics: metrics,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Metrics reports the geometry rules in use.
func (t *Typesetter) Metrics() Metrics {
	return t.metrics
}

// Layout typesets content at fontLevel for a view width pixels wide.
func (t *Typesetter) Layout(content string, fontLevel, width int) Document {
	base := clampLevel(fontLevel)
	src := []byte(content)
	root := t.md.Parser().Parse(text.NewReader(src))
	column := t.metrics.contentWidth(width)
	w := &writer{
		metrics: t.metrics,
		src:     src,
		base:    base,
		width:   column,
		y:       t.metrics.Padding,
	}
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		w.block(node, blockContext{kind: KindParagraph})
	}
	return Document{
		Lines:     w.lines,
		Height:    w.y + t.metrics.Padding,
		Width:     width,
		Left:      max(t.metrics.Padding, (width-column)/2),
		FontLevel: base,
	}
}

// Measure implements Measurer.
func (t *Typesetter) Measure(content string, fontLevel, width int) (int, error) {
	return t.Layout(content, fontLevel, width).Height, nil
}

type blockContext struct {
	indent int
	inList bool
	kind   BlockKind
}

type writer struct {
	metrics Metrics
	src     []byte
	base    int
	width   int
	y       int
	lines   []Line
}

func (w *writer) block(node ast.Node, ctx blockContext) {
	switch n := node.(type) {
	case *ast.Heading:
		level := HeadingLevel(w.base, n.Level)
		w.emit(w.inline(n), Line{Kind: KindHeading, HeadingLevel: n.Level, FontLevel: level, Indent: ctx.indent}, "", true)
		w.y += headingMargin(n.Level)
	case *ast.Paragraph, *ast.TextBlock:
		body := w.inline(n)
		if strings.TrimSpace(body) == "" {
			return
		}
		w.emit(body, Line{Kind: ctx.kind, FontLevel: w.base, Indent: ctx.indent}, "", true)
		if !ctx.inList {
			w.y += marginBlock
		}
	case *ast.List:
		index := n.Start
		if index == 0 {
			index = 1
		}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if n.IsOrdered() {
				marker = fmt.Sprintf("%d. ", index)
				index++
			}
			w.listItem(item, marker, ctx)
		}
		if !ctx.inList {
			w.y += marginBlock
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		segments := n.Lines()
		for i := 0; i < segments.Len(); i++ {
			seg := segments.At(i)
			raw := strings.TrimRight(string(seg.Value(w.src)), "\r\n")
			w.emit(raw, Line{Kind: KindCode, FontLevel: w.base, Indent: ctx.indent}, "", false)
		}
		w.y += marginBlock
	case *ast.Blockquote:
		inner := blockContext{indent: ctx.indent + w.metrics.QuoteIndent, inList: ctx.inList, kind: KindQuote}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			w.block(child, inner)
		}
	case *ast.ThematicBreak:
		cols := w.metrics.columns(w.width-ctx.indent, w.base)
		w.emit(strings.Repeat("─", cols), Line{Kind: KindRule, FontLevel: w.base, Indent: ctx.indent}, "", false)
		w.y += marginBlock
	case *east.Table:
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, w.inline(cell))
			}
			w.emit(strings.Join(cells, " | "), Line{Kind: KindTable, FontLevel: w.base, Indent: ctx.indent}, "", true)
		}
		w.y += marginBlock
	case *ast.HTMLBlock:
		return
	default:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			w.block(child, ctx)
		}
	}
}

func (w *writer) listItem(item ast.Node, marker string, ctx blockContext) {
	inner := blockContext{indent: ctx.indent + w.metrics.ListIndent, inList: true, kind: KindListItem}
	first := true
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			prefix := strings.Repeat(" ", runewidth.StringWidth(marker))
			if first {
				prefix = marker
			}
			w.emit(w.inline(child), Line{Kind: KindListItem, FontLevel: w.base, Indent: inner.indent}, prefix, true)
		default:
			w.block(child, inner)
		}
		first = false
	}
}

// emit wraps body to the available columns and appends one Line per row.
// Continuation rows are padded to align under the prefix.
func (w *writer) emit(body string, proto Line, prefix string, wordWrap bool) {
	cols := w.metrics.columns(w.width-proto.Indent, proto.FontLevel)
	prefixWidth := runewidth.StringWidth(prefix)
	limit := cols - prefixWidth
	if limit < 1 {
		limit = 1
	}
	wrapped := body
	if wordWrap {
		wrapped = wordwrap.String(wrapped, limit)
	}
	wrapped = wrap.String(wrapped, limit)
	height := w.metrics.lineHeight(proto.FontLevel)
	pad := strings.Repeat(" ", prefixWidth)
	for i, row := range strings.Split(wrapped, "\n") {
		line := proto
		if i == 0 {
			line.Text = prefix + row
		} else {
			line.Text = pad + row
		}
		line.Y = w.y
		line.Height = height
		w.lines = append(w.lines, line)
		w.y += height
	}
}

func (w *writer) inline(node ast.Node) string {
	var b strings.Builder
	w.appendInline(&b, node)
	return strings.TrimSpace(b.String())
}

func (w *writer) appendInline(b *strings.Builder, node ast.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(w.src))
			switch {
			case c.HardLineBreak():
				b.WriteByte('\n')
			case c.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.Label(w.src))
		case *ast.RawHTML:
		case *east.TaskCheckBox:
			if c.IsChecked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		default:
			w.appendInline(b, c)
		}
	}
}
