package editor

import "unicode/utf8"

// run is a span of text carrying one inline style combination.
type run struct {
	text      string
	bold      bool
	italic    bool
	underline bool
	size      FontSize
}

func (r run) sameStyle(o run) bool {
	return r.bold == o.bold && r.italic == o.italic && r.underline == o.underline && r.size == o.size
}

// block is one paragraph or list item. Depth is the list nesting level
// and is zero for plain paragraphs.
type block struct {
	list  ListKind
	depth int
	align Alignment
	runs  []run
}

func (b *block) text() string {
	s := ""
	for _, r := range b.runs {
		s += r.text
	}
	return s
}

func (b *block) length() int {
	n := 0
	for _, r := range b.runs {
		n += utf8.RuneCountInString(r.text)
	}
	return n
}

// splitAt ensures a run boundary exists at the given rune offset and
// returns the index of the run starting there.
func (b *block) splitAt(off int) int {
	pos := 0
	for i := range b.runs {
		if off <= pos {
			return i
		}
		n := utf8.RuneCountInString(b.runs[i].text)
		if off < pos+n {
			runes := []rune(b.runs[i].text)
			tail := b.runs[i]
			tail.text = string(runes[off-pos:])
			b.runs[i].text = string(runes[:off-pos])

			rest := append([]run{tail}, b.runs[i+1:]...)
			b.runs = append(b.runs[:i+1], rest...)
			return i + 1
		}
		pos += n
	}
	return len(b.runs)
}

func (b *block) deleteRange(start, end int) {
	if start >= end {
		return
	}
	i := b.splitAt(start)
	j := b.splitAt(end)
	b.runs = append(b.runs[:i], b.runs[j:]...)
}

// coalesce merges adjacent runs with identical styling and drops empty
// runs, keeping the serialized form stable.
func (b *block) coalesce() {
	out := b.runs[:0]
	for _, r := range b.runs {
		if r.text == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1].sameStyle(r) {
			out[len(out)-1].text += r.text
			continue
		}
		out = append(out, r)
	}
	b.runs = out
}

// Document is the concrete Surface backed by a block model parsed from
// and serialized to an HTML fragment.
type Document struct {
	blocks   []block
	raw      string
	modified bool

	focused  bool
	selBlock int
	selStart int
	selEnd   int
}

func NewDocument() *Document {
	return &Document{blocks: []block{{}}}
}

func (d *Document) SetHTML(fragment string) error {
	blocks, err := parseFragment(fragment)
	if err != nil {
		return err
	}
	d.blocks = blocks
	d.raw = fragment
	d.modified = false
	d.selBlock = len(d.blocks) - 1
	d.selStart = d.blocks[d.selBlock].length()
	d.selEnd = d.selStart
	return nil
}

// HTML returns the seeded fragment verbatim until the first mutation,
// then the canonical serialization of the block model.
func (d *Document) HTML() string {
	if !d.modified {
		return d.raw
	}
	return serialize(d.blocks)
}

func (d *Document) Focus()        { d.focused = true }
func (d *Document) Blur()         { d.focused = false }
func (d *Document) Focused() bool { return d.focused }

func (d *Document) Select(blockIdx, start, end int) error {
	if blockIdx < 0 || blockIdx >= len(d.blocks) {
		return errBadSelection
	}
	n := d.blocks[blockIdx].length()
	if start < 0 || end < start || end > n {
		return errBadSelection
	}
	d.selBlock = blockIdx
	d.selStart = start
	d.selEnd = end
	return nil
}

func (d *Document) HasSelection() bool {
	return d.selStart != d.selEnd
}

func (d *Document) cur() *block { return &d.blocks[d.selBlock] }

func (d *Document) InsertText(s string) {
	if s == "" {
		return
	}
	b := d.cur()
	if d.selStart != d.selEnd {
		b.deleteRange(d.selStart, d.selEnd)
		d.selEnd = d.selStart
	}
	i := b.splitAt(d.selStart)
	nr := run{text: s}
	if i > 0 {
		prev := b.runs[i-1]
		nr.bold, nr.italic, nr.underline, nr.size = prev.bold, prev.italic, prev.underline, prev.size
	}
	rest := append([]run{nr}, b.runs[i:]...)
	b.runs = append(b.runs[:i], rest...)
	b.coalesce()
	d.selStart += utf8.RuneCountInString(s)
	d.selEnd = d.selStart
	d.modified = true
}

func (d *Document) DeleteBackward() {
	b := d.cur()
	switch {
	case d.selStart != d.selEnd:
		b.deleteRange(d.selStart, d.selEnd)
		d.selEnd = d.selStart
	case d.selStart > 0:
		b.deleteRange(d.selStart-1, d.selStart)
		d.selStart--
		d.selEnd = d.selStart
	case d.selBlock > 0:
		// Merge with the previous block.
		prev := &d.blocks[d.selBlock-1]
		at := prev.length()
		prev.runs = append(prev.runs, b.runs...)
		prev.coalesce()
		d.blocks = append(d.blocks[:d.selBlock], d.blocks[d.selBlock+1:]...)
		d.selBlock--
		d.selStart = at
		d.selEnd = at
	default:
		return
	}
	b = d.cur()
	b.coalesce()
	d.modified = true
}

// InsertParagraph splits the current block at the caret. Inside a list
// the new block continues the list at the same kind and depth.
func (d *Document) InsertParagraph() {
	b := d.cur()
	if d.selStart != d.selEnd {
		b.deleteRange(d.selStart, d.selEnd)
		d.selEnd = d.selStart
	}
	i := b.splitAt(d.selStart)
	next := block{list: b.list, depth: b.depth, align: b.align}
	next.runs = append(next.runs, b.runs[i:]...)
	b.runs = b.runs[:i]
	b.coalesce()

	rest := append([]block{next}, d.blocks[d.selBlock+1:]...)
	d.blocks = append(d.blocks[:d.selBlock+1], rest...)
	d.selBlock++
	d.selStart = 0
	d.selEnd = 0
	d.modified = true
}

// ForceParagraph breaks out of the current list context. An empty list
// item collapses in place to a plain paragraph; otherwise a fresh
// paragraph block is inserted after the current one.
func (d *Document) ForceParagraph() {
	b := d.cur()
	if b.list != ListNone && b.length() == 0 {
		b.list = ListNone
		b.depth = 0
		b.align = AlignLeft
		d.modified = true
		return
	}
	next := block{}
	rest := append([]block{next}, d.blocks[d.selBlock+1:]...)
	d.blocks = append(d.blocks[:d.selBlock+1], rest...)
	d.selBlock++
	d.selStart = 0
	d.selEnd = 0
	d.modified = true
}

func (d *Document) IndentItem() {
	b := d.cur()
	if b.list == ListNone {
		return
	}
	b.depth++
	d.modified = true
}

// OutdentItem promotes the current item one nesting level, unwrapping
// it to a paragraph when it is already at the top level.
func (d *Document) OutdentItem() {
	b := d.cur()
	if b.list == ListNone {
		return
	}
	if b.depth > 1 {
		b.depth--
	} else {
		b.list = ListNone
		b.depth = 0
	}
	d.modified = true
}

func (d *Document) InList() bool {
	return d.cur().list != ListNone
}

func (d *Document) BlockEmpty() bool {
	return d.cur().length() == 0
}

func (d *Document) AtBlockStart() bool {
	return d.selStart == 0 && d.selEnd == 0
}

// ApplyInlineStyle toggles a style across the selection: if every rune
// in the range already carries it the style is removed, otherwise it is
// applied to the whole range. A collapsed caret is a no-op.
func (d *Document) ApplyInlineStyle(style InlineStyle) {
	if !d.HasSelection() {
		return
	}
	b := d.cur()
	i := b.splitAt(d.selStart)
	j := b.splitAt(d.selEnd)

	allSet := true
	for k := i; k < j; k++ {
		if !hasStyle(b.runs[k], style) {
			allSet = false
			break
		}
	}
	for k := i; k < j; k++ {
		setStyle(&b.runs[k], style, !allSet)
	}
	b.coalesce()
	d.modified = true
}

// ApplyAlignment aligns the current block. Block-level alignment is
// mutually exclusive with list membership, so an aligned list item
// leaves its list.
func (d *Document) ApplyAlignment(align Alignment) {
	b := d.cur()
	b.align = align
	if b.list != ListNone {
		b.list = ListNone
		b.depth = 0
	}
	d.modified = true
}

// ToggleList wraps or unwraps the current block. Engaging a list resets
// alignment to the left default.
func (d *Document) ToggleList(kind ListKind) {
	b := d.cur()
	if b.list == kind {
		b.list = ListNone
		b.depth = 0
	} else {
		b.list = kind
		if b.depth == 0 {
			b.depth = 1
		}
		b.align = AlignLeft
	}
	d.modified = true
}

func (d *Document) ApplyFontSize(size FontSize) {
	if !d.HasSelection() {
		return
	}
	b := d.cur()
	i := b.splitAt(d.selStart)
	j := b.splitAt(d.selEnd)
	for k := i; k < j; k++ {
		b.runs[k].size = size
	}
	b.coalesce()
	d.modified = true
}

func (d *Document) QueryState() FormatState {
	var st FormatState
	b := d.cur()

	switch b.align {
	case AlignCenter:
		st.AlignCenter = true
	case AlignRight:
		st.AlignRight = true
	default:
		st.AlignLeft = true
	}
	st.UnorderedList = b.list == ListUnordered
	st.OrderedList = b.list == ListOrdered

	if d.HasSelection() {
		st.Bold = d.rangeStyled(StyleBold)
		st.Italic = d.rangeStyled(StyleItalic)
		st.Underline = d.rangeStyled(StyleUnderline)
	} else if r, ok := d.runAtCaret(); ok {
		st.Bold = r.bold
		st.Italic = r.italic
		st.Underline = r.underline
	}
	return st
}

func (d *Document) rangeStyled(style InlineStyle) bool {
	b := d.cur()
	pos := 0
	styled := false
	for _, r := range b.runs {
		n := utf8.RuneCountInString(r.text)
		if pos < d.selEnd && pos+n > d.selStart {
			if !hasStyle(r, style) {
				return false
			}
			styled = true
		}
		pos += n
	}
	return styled
}

// runAtCaret returns the run the caret sits in, preferring the run
// ending at the caret so a caret after styled text reports its style.
func (d *Document) runAtCaret() (run, bool) {
	b := d.cur()
	pos := 0
	for _, r := range b.runs {
		n := utf8.RuneCountInString(r.text)
		if d.selStart <= pos+n {
			return r, true
		}
		pos += n
	}
	return run{}, false
}

func hasStyle(r run, style InlineStyle) bool {
	switch style {
	case StyleBold:
		return r.bold
	case StyleItalic:
		return r.italic
	default:
		return r.underline
	}
}

func setStyle(r *run, style InlineStyle, on bool) {
	switch style {
	case StyleBold:
		r.bold = on
	case StyleItalic:
		r.italic = on
	default:
		r.underline = on
	}
}
