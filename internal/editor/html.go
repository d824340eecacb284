package editor

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var errBadSelection = errors.New("editor: selection out of range")

var fontSizeValues = map[FontSize]string{
	SizeSmall:  "3",
	SizeMedium: "4",
	SizeLarge:  "5",
}

// parseFragment converts an HTML fragment into the block model. The
// parser is tolerant: unknown elements contribute only their text, and
// an empty fragment yields a single empty paragraph.
func parseFragment(fragment string) ([]block, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("editor: failed to parse content: %w", err)
	}

	p := &fragmentParser{}
	for _, n := range nodes {
		p.walkTop(n)
	}
	p.flush()

	if len(p.blocks) == 0 {
		p.blocks = []block{{}}
	}
	for i := range p.blocks {
		p.blocks[i].coalesce()
	}
	return p.blocks, nil
}

type fragmentParser struct {
	blocks []block
	open   *block
}

// walkTop handles nodes at fragment top level. Bare text and inline
// elements accumulate into an implicit paragraph; block elements flush.
func (p *fragmentParser) walkTop(n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		p.inline(n, run{})
	case n.Type != html.ElementNode:
		// comments, doctypes
	case n.DataAtom == atom.Div || n.DataAtom == atom.P:
		p.flush()
		b := block{align: parseAlign(n)}
		p.open = &b
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.inline(c, run{})
		}
		p.flush()
	case n.DataAtom == atom.Ul:
		p.flush()
		p.walkList(n, ListUnordered, 1)
	case n.DataAtom == atom.Ol:
		p.flush()
		p.walkList(n, ListOrdered, 1)
	default:
		p.inline(n, run{})
	}
}

func (p *fragmentParser) walkList(n *html.Node, kind ListKind, depth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Li:
			b := block{list: kind, depth: depth}
			p.open = &b
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				if gc.Type == html.ElementNode && (gc.DataAtom == atom.Ul || gc.DataAtom == atom.Ol) {
					p.flush()
					p.walkList(gc, listKindOf(gc), depth+1)
					continue
				}
				p.inline(gc, run{})
			}
			p.flush()
		case atom.Ul, atom.Ol:
			p.walkList(c, listKindOf(c), depth+1)
		}
	}
}

func (p *fragmentParser) inline(n *html.Node, style run) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return
		}
		if p.open == nil {
			p.open = &block{}
		}
		style.text = n.Data
		p.open.runs = append(p.open.runs, style)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.B, atom.Strong:
		style.bold = true
	case atom.I, atom.Em:
		style.italic = true
	case atom.U:
		style.underline = true
	case atom.Font:
		if sz, ok := parseFontSize(attr(n, "size")); ok {
			style.size = sz
		}
	case atom.Br:
		// Placeholder inside an otherwise empty block; ignored.
		if p.open == nil {
			p.open = &block{}
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.inline(c, style)
	}
}

func (p *fragmentParser) flush() {
	if p.open != nil {
		p.blocks = append(p.blocks, *p.open)
		p.open = nil
	}
}

func listKindOf(n *html.Node) ListKind {
	if n.DataAtom == atom.Ol {
		return ListOrdered
	}
	return ListUnordered
}

func parseAlign(n *html.Node) Alignment {
	v := attr(n, "align")
	if v == "" {
		style := attr(n, "style")
		if i := strings.Index(style, "text-align:"); i >= 0 {
			v = strings.Trim(strings.SplitN(style[i+len("text-align:"):], ";", 2)[0], " ")
		}
	}
	switch strings.ToLower(v) {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		return AlignLeft
	}
}

func parseFontSize(v string) (FontSize, bool) {
	for sz, s := range fontSizeValues {
		if s == v {
			return sz, true
		}
	}
	return SizeDefault, false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// serialize renders the block model back to the canonical fragment
// form: div-wrapped paragraphs, ul/ol lists nested by depth, and
// b/i/u/font inline wrappers.
func serialize(blocks []block) string {
	var sb strings.Builder
	var stack []ListKind

	closeTo := func(depth int) {
		for len(stack) > depth {
			sb.WriteString("</" + listTag(stack[len(stack)-1]) + ">")
			stack = stack[:len(stack)-1]
		}
	}

	for i := range blocks {
		b := &blocks[i]
		if b.list == ListNone {
			closeTo(0)
			writeParagraph(&sb, b)
			continue
		}
		// Close lists deeper than this item, or of a different kind at
		// the same depth, then open down to the item's depth.
		closeTo(b.depth)
		if len(stack) == b.depth && stack[len(stack)-1] != b.list {
			closeTo(b.depth - 1)
		}
		for len(stack) < b.depth {
			sb.WriteString("<" + listTag(b.list) + ">")
			stack = append(stack, b.list)
		}
		sb.WriteString("<li>")
		writeRuns(&sb, b)
		sb.WriteString("</li>")
	}
	closeTo(0)
	return sb.String()
}

func listTag(kind ListKind) string {
	if kind == ListOrdered {
		return "ol"
	}
	return "ul"
}

func writeParagraph(sb *strings.Builder, b *block) {
	switch b.align {
	case AlignCenter:
		sb.WriteString(`<div style="text-align: center;">`)
	case AlignRight:
		sb.WriteString(`<div style="text-align: right;">`)
	default:
		sb.WriteString("<div>")
	}
	writeRuns(sb, b)
	sb.WriteString("</div>")
}

func writeRuns(sb *strings.Builder, b *block) {
	if len(b.runs) == 0 {
		sb.WriteString("<br>")
		return
	}
	for _, r := range b.runs {
		var open, closing string
		if r.bold {
			open += "<b>"
			closing = "</b>" + closing
		}
		if r.italic {
			open += "<i>"
			closing = "</i>" + closing
		}
		if r.underline {
			open += "<u>"
			closing = "</u>" + closing
		}
		if v, ok := fontSizeValues[r.size]; ok {
			open += `<font size="` + v + `">`
			closing = "</font>" + closing
		}
		sb.WriteString(open)
		sb.WriteString(html.EscapeString(r.text))
		sb.WriteString(closing)
	}
}
