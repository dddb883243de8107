package parser

import (
	"strconv"

	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// maxOrderedDigits bounds the number of an ordered list marker.
const maxOrderedDigits = 9

// maxMarkerGap is the widest gap between marker and content that still sets
// the content column.
const maxMarkerGap = 4

// listMarker describes a list item marker line.
type listMarker struct {
	ordered bool
	char    byte // bullet character, or the delimiter of an ordered marker
	number  int
	start   int // offset of the marker
	end     int // offset after the marker
	width   int // columns from the container edge to the item content
	content int // offset of the first content byte
	empty   bool
}

func (p *blockParser) listMarker(l line) (listMarker, bool) {
	cols, pos := p.indent(l)
	if cols > maxIndent || pos >= l.end {
		return listMarker{}, false
	}

	m := listMarker{start: pos}
	switch c := p.src[pos]; {
	case c == '-' || c == '+' || c == '*':
		m.char = c
		m.end = pos + 1
	case isDigit(c):
		k := pos
		for k < l.end && isDigit(p.src[k]) {
			k++
		}
		if k-pos > maxOrderedDigits || k >= l.end || (p.src[k] != '.' && p.src[k] != ')') {
			return listMarker{}, false
		}
		m.ordered = true
		m.number, _ = strconv.Atoi(string(p.src[pos:k]))
		m.char = p.src[k]
		m.end = k + 1
	default:
		return listMarker{}, false
	}

	if m.end < l.end && !isSpace(p.src[m.end]) {
		return listMarker{}, false
	}

	markerCols := cols + (m.end - pos)
	rest := line{start: m.end, end: l.end}
	if p.blank(rest) {
		m.empty = true
		m.width = markerCols + 1
		m.content = l.end
		return m, true
	}

	gap, contentPos := p.indent(rest)
	if gap > maxMarkerGap {
		m.width = markerCols + 1
		m.content = m.end + 1
	} else {
		m.width = markerCols + gap
		m.content = contentPos
	}
	return m, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// sameList reports whether b continues the list opened by a.
func sameList(a, b listMarker) bool {
	return a.ordered == b.ordered && a.char == b.char
}

// parseList consumes sibling items sharing the marker type of first.
func (p *blockParser) parseList(parent *mdast.Node, lines []line, i int, first listMarker, level int) int {
	attrs := &mdast.ListAttrs{
		Ordered:     first.ordered,
		StartNumber: first.number,
		Level:       level,
		Tight:       true,
	}
	if first.ordered {
		attrs.Delimiter = string(first.char)
	} else {
		attrs.BulletMarker = string(first.char)
	}

	list := mdast.NewNode(mdast.NodeList)
	list.Block = mdast.NewBlockAttrs().WithList(attrs)

	j := i
	marker := first
	for {
		next, loose := p.parseItem(list, lines, j, marker, level)
		if loose {
			attrs.Tight = false
		}
		j = next

		k := j
		for k < len(lines) && p.blank(lines[k]) {
			k++
		}
		if k >= len(lines) {
			break
		}
		if _, isBreak := p.thematicBreak(lines[k]); isBreak {
			break
		}
		m, ok := p.listMarker(lines[k])
		if !ok || !sameList(first, m) {
			break
		}
		if k > j {
			attrs.Tight = false
		}
		j = k
		marker = m
	}

	list.Span = mdast.NewSpan(list.FirstChild.Span.Start, list.LastChild.Span.End)
	mdast.AppendChild(parent, list)
	return j
}

// parseItem consumes one list item and appends it to list. It returns the
// index of the first line after the item and whether a blank line separates
// blocks inside the item.
func (p *blockParser) parseItem(list *mdast.Node, lines []line, i int, m listMarker, level int) (int, bool) {
	itemAttrs := &mdast.ListItemAttrs{
		Marker: string(p.src[m.start:m.end]),
		Number: m.number,
	}

	first := line{start: m.content, end: lines[i].end}
	if !m.empty {
		first = p.taskBox(first, itemAttrs)
	}
	inner := []line{first}

	// openPara tracks whether a lazy continuation line may still join the
	// item's trailing paragraph.
	openPara := !m.empty && p.paragraphLike(first)
	var open fence
	inFence := false
	if f, ok := p.openFence(first); ok && !m.empty {
		open, inFence = f, true
	}

	loose := false
	j := i + 1
	for j < len(lines) {
		cur := lines[j]

		if p.blank(cur) {
			if m.empty && len(inner) == 1 {
				break
			}
			k := j
			for k < len(lines) && p.blank(lines[k]) {
				k++
			}
			if k >= len(lines) {
				break
			}
			if cols, _ := p.indent(lines[k]); cols < m.width {
				break
			}
			for ; j < k; j++ {
				inner = append(inner, p.strip(lines[j], m.width))
			}
			if !inFence {
				loose = true
			}
			openPara = false
			continue
		}

		if cols, _ := p.indent(cur); cols >= m.width {
			stripped := p.strip(cur, m.width)
			inner = append(inner, stripped)
			switch {
			case inFence:
				if _, closed := p.closesFence(stripped, open); closed {
					inFence = false
				}
				openPara = false
			default:
				if f, ok := p.openFence(stripped); ok {
					open, inFence = f, true
				}
				openPara = !inFence && p.paragraphLike(stripped)
			}
			j++
			continue
		}

		if openPara && !inFence && !p.interrupts(lines, j, true) {
			_, pos := p.indent(cur)
			inner = append(inner, line{start: pos, end: cur.end})
			j++
			continue
		}
		break
	}

	end := p.lastNonBlankEnd(inner, m.end)
	item := mdast.NewNodeAt(mdast.NodeListItem, mdast.NewSpan(m.start, end))
	item.Block = mdast.NewBlockAttrs().WithItem(itemAttrs)
	p.parseBlocks(item, inner, level+1)
	mdast.AppendChild(list, item)

	return j, loose
}

// taskBox strips a leading "[ ]" or "[x]" checkbox from the first item line
// and records its state.
func (p *blockParser) taskBox(first line, attrs *mdast.ListItemAttrs) line {
	const boxLen = 3
	if first.end-first.start < boxLen+1 {
		return first
	}
	box := p.src[first.start : first.start+boxLen]
	if box[0] != '[' || box[2] != ']' || !isSpace(p.src[first.start+boxLen]) {
		return first
	}

	var state mdast.TaskState
	switch box[1] {
	case ' ':
		state = mdast.TaskOpen
	case 'x', 'X':
		state = mdast.TaskDone
	default:
		return first
	}

	rest := line{start: first.start + boxLen, end: first.end}
	if p.blank(rest) {
		return first
	}
	_, pos := p.indent(rest)
	attrs.Task = state
	return line{start: pos, end: first.end}
}

// paragraphLike reports whether l would open or continue a paragraph, so a
// following lazy line may join it.
func (p *blockParser) paragraphLike(l line) bool {
	if p.blank(l) {
		return false
	}
	if _, _, ok := p.headingContent(l); ok {
		return false
	}
	if _, ok := p.thematicBreak(l); ok {
		return false
	}
	if _, ok := p.quoteMarker(l); ok {
		return false
	}
	if m, ok := p.listMarker(l); ok {
		return !m.empty
	}
	return true
}
