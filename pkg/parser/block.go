package parser

import (
	"bytes"

	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// blockParser classifies lines into block elements. It is recursive over
// containers: a blockquote or list item hands its stripped lines back to
// parseBlocks.
type blockParser struct {
	src []byte
}

// parseBlocks appends the blocks found in lines to parent. level is the
// nesting depth a list started here would get.
func (p *blockParser) parseBlocks(parent *mdast.Node, lines []line, level int) {
	for i := 0; i < len(lines); {
		if p.blank(lines[i]) {
			i++
			continue
		}
		i = p.parseBlock(parent, lines, i, level)
	}
}

// parseBlock parses the block starting at lines[i] and returns the index of
// the first line it did not consume. Line classification follows a fixed
// priority: fence, heading, quote, list item, table, thematic break,
// paragraph.
func (p *blockParser) parseBlock(parent *mdast.Node, lines []line, i, level int) int {
	cur := lines[i]

	if f, ok := p.openFence(cur); ok {
		return p.parseFence(parent, lines, i, f)
	}
	if p.parseHeading(parent, cur) {
		return i + 1
	}
	if _, ok := p.quoteMarker(cur); ok {
		return p.parseQuote(parent, lines, i, level)
	}
	if _, isBreak := p.thematicBreak(cur); !isBreak {
		if m, ok := p.listMarker(cur); ok {
			return p.parseList(parent, lines, i, m, level)
		}
	}
	if p.tableStart(lines, i) {
		return p.parseTable(parent, lines, i)
	}
	if span, ok := p.thematicBreak(cur); ok {
		mdast.AppendChild(parent, mdast.NewNodeAt(mdast.NodeThematicBreak, span))
		return i + 1
	}
	return p.parseParagraph(parent, lines, i)
}

// fence describes an opening code fence.
type fence struct {
	char   byte
	length int
	indent int
	start  int
	info   line
}

func (p *blockParser) openFence(l line) (fence, bool) {
	cols, pos := p.indent(l)
	if cols > maxIndent || pos >= l.end {
		return fence{}, false
	}

	c := p.src[pos]
	if c != '`' && c != '~' {
		return fence{}, false
	}
	n := runLength(p.src[pos:l.end], c)
	if n < 3 {
		return fence{}, false
	}

	info := p.trimmed(line{start: pos + n, end: l.end})
	if c == '`' && bytes.IndexByte(p.src[info.start:info.end], '`') >= 0 {
		return fence{}, false
	}

	return fence{char: c, length: n, indent: cols, start: pos, info: info}, true
}

// closesFence reports whether l closes f and returns the trimmed closing line.
func (p *blockParser) closesFence(l line, f fence) (line, bool) {
	cols, pos := p.indent(l)
	if cols > maxIndent || pos >= l.end || p.src[pos] != f.char {
		return line{}, false
	}
	n := runLength(p.src[pos:l.end], f.char)
	if n < f.length || !p.blank(line{start: pos + n, end: l.end}) {
		return line{}, false
	}
	return p.trimmed(l), true
}

// parseFence consumes a fenced code block. An unclosed fence runs to the end
// of its container, with trailing blank lines left out.
func (p *blockParser) parseFence(parent *mdast.Node, lines []line, i int, f fence) int {
	attrs := &mdast.CodeBlockAttrs{
		FenceChar:   f.char,
		FenceLength: f.length,
		Info:        string(p.src[f.info.start:f.info.end]),
	}
	if fields := bytes.Fields(p.src[f.info.start:f.info.end]); len(fields) > 0 {
		attrs.Language = string(fields[0])
	}

	end := p.trimmed(lines[i]).end
	j := i + 1
	var body []line
	for ; j < len(lines); j++ {
		if closing, ok := p.closesFence(lines[j], f); ok {
			attrs.Closed = true
			end = closing.end
			j++
			break
		}
		body = append(body, p.strip(lines[j], f.indent))
	}

	if !attrs.Closed {
		for len(body) > 0 && p.blank(body[len(body)-1]) {
			body = body[:len(body)-1]
		}
		end = p.lastNonBlankEnd(body, end)
		j = i + 1 + len(body)
	}

	var content bytes.Buffer
	for k, l := range body {
		if k > 0 {
			content.WriteByte('\n')
		}
		content.Write(p.src[l.start:l.end])

		trimmedEnd := l.end
		for trimmedEnd > l.start && isSpace(p.src[trimmedEnd-1]) {
			trimmedEnd--
		}
		attrs.Lines = append(attrs.Lines, mdast.NewSpan(l.start, trimmedEnd))
	}
	attrs.Content = content.Bytes()

	node := mdast.NewNodeAt(mdast.NodeCodeBlock, mdast.NewSpan(f.start, end))
	node.Block = mdast.NewBlockAttrs().WithCodeBlock(attrs)
	mdast.AppendChild(parent, node)
	return j
}

// headingContent returns the level and inline content of an ATX heading.
func (p *blockParser) headingContent(l line) (int, line, bool) {
	cols, pos := p.indent(l)
	if cols > maxIndent || pos >= l.end || p.src[pos] != '#' {
		return 0, line{}, false
	}

	level := runLength(p.src[pos:l.end], '#')
	after := pos + level
	if level > 6 || (after < l.end && !isSpace(p.src[after])) {
		return 0, line{}, false
	}

	content := p.trimmed(line{start: after, end: l.end})
	if content.start == content.end {
		content = line{start: after, end: after}
	}

	// Optional closing sequence: a run of '#' preceded by a space.
	k := content.end
	for k > content.start && p.src[k-1] == '#' {
		k--
	}
	switch {
	case k == content.start:
		content.end = content.start
	case k < content.end && isSpace(p.src[k-1]):
		content.end = k
		content = p.trimmed(content)
	}

	return level, content, true
}

func (p *blockParser) parseHeading(parent *mdast.Node, l line) bool {
	level, content, ok := p.headingContent(l)
	if !ok {
		return false
	}

	_, pos := p.indent(l)
	node := mdast.NewNodeAt(mdast.NodeHeading, mdast.NewSpan(pos, p.trimmed(l).end))
	node.Block = mdast.NewBlockAttrs().WithHeadingLevel(level)
	if content.end > content.start {
		parseInlines(p.src, node, []line{content})
	}
	mdast.AppendChild(parent, node)
	return true
}

// quoteMarker returns the offset of the '>' that opens a quote line.
func (p *blockParser) quoteMarker(l line) (int, bool) {
	cols, pos := p.indent(l)
	if cols > maxIndent || pos >= l.end || p.src[pos] != '>' {
		return 0, false
	}
	return pos, true
}

// parseQuote consumes consecutive quote lines. Lazy continuation is not
// supported: every line of the quote carries its own marker.
func (p *blockParser) parseQuote(parent *mdast.Node, lines []line, i, level int) int {
	start, _ := p.quoteMarker(lines[i])

	var inner []line
	j := i
	for ; j < len(lines); j++ {
		pos, ok := p.quoteMarker(lines[j])
		if !ok {
			break
		}
		content := line{start: pos + 1, end: lines[j].end}
		if content.start < content.end && isSpace(p.src[content.start]) {
			content.start++
		}
		inner = append(inner, content)
	}

	quote := mdast.NewNodeAt(mdast.NodeBlockquote, mdast.NewSpan(start, p.trimmed(lines[j-1]).end))
	p.parseBlocks(quote, inner, level)
	mdast.AppendChild(parent, quote)
	return j
}

// thematicBreak returns the span of a thematic break line.
func (p *blockParser) thematicBreak(l line) (mdast.Span, bool) {
	cols, pos := p.indent(l)
	if cols > maxIndent || pos >= l.end {
		return mdast.Span{}, false
	}

	c := p.src[pos]
	if c != '-' && c != '*' && c != '_' {
		return mdast.Span{}, false
	}

	count := 0
	last := pos
	for k := pos; k < l.end; k++ {
		switch {
		case p.src[k] == c:
			count++
			last = k
		case isSpace(p.src[k]):
		default:
			return mdast.Span{}, false
		}
	}
	if count < 3 {
		return mdast.Span{}, false
	}
	return mdast.NewSpan(pos, last+1), true
}

// parseParagraph accumulates lines until a blank line or a line that starts
// a block able to interrupt a paragraph.
func (p *blockParser) parseParagraph(parent *mdast.Node, lines []line, i int) int {
	j := i + 1
	for j < len(lines) && !p.blank(lines[j]) && !p.interrupts(lines, j, false) {
		j++
	}
	p.appendParagraph(parent, lines[i:j])
	return j
}

func (p *blockParser) appendParagraph(parent *mdast.Node, lines []line) {
	content := make([]line, len(lines))
	for k, l := range lines {
		_, pos := p.indent(l)
		content[k] = line{start: pos, end: l.end}
	}
	last := len(content) - 1
	content[last] = p.trimmed(content[last])

	para := mdast.NewNodeAt(mdast.NodeParagraph, mdast.NewSpan(content[0].start, content[last].end))
	parseInlines(p.src, para, content)
	mdast.AppendChild(parent, para)
}

// interrupts reports whether lines[j] starts a block that ends an open
// paragraph. With lazy set, any list marker counts, since a lazy line must
// not be mistaken for a sibling item.
func (p *blockParser) interrupts(lines []line, j int, lazy bool) bool {
	cur := lines[j]
	if _, ok := p.openFence(cur); ok {
		return true
	}
	if _, _, ok := p.headingContent(cur); ok {
		return true
	}
	if _, ok := p.quoteMarker(cur); ok {
		return true
	}
	if _, ok := p.thematicBreak(cur); ok {
		return true
	}
	if m, ok := p.listMarker(cur); ok {
		if lazy || (!m.empty && (!m.ordered || m.number == 1)) {
			return true
		}
	}
	return p.tableStart(lines, j)
}

// runLength counts the leading bytes of b equal to c.
func runLength(b []byte, c byte) int {
	n := 0
	for n < len(b) && b[n] == c {
		n++
	}
	return n
}
