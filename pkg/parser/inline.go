package parser

import (
	"bytes"
	"sort"

	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// inlineParser scans the content of one leaf block. The content lines are
// joined with '\n' into buf; positions in buf map back to source offsets
// line by line, so container prefixes never leak into spans.
type inlineParser struct {
	src     []byte
	buf     []byte
	starts  []int // buf offset of each content line
	lines   []line
	noLinks bool
	scan    *scanIndex
}

// maxLinkParens bounds parenthesis nesting in a link destination.
const maxLinkParens = 32

// scanIndex remembers lookahead results for one buffer so that repeated
// openers do not rescan to the end of the block. It is shared by the
// parsers of nested link text.
type scanIndex struct {
	// ticks lists the start of every backtick run, by run length.
	ticks map[int][]int

	// brackets holds the closing ']' found for a '[' and the limit the
	// search ran to. close is -1 when there was none before limit.
	brackets map[int]lookahead

	// titles holds, per title closer, the earliest start from which a
	// search up to limit found no closer.
	titles map[byte]lookahead
}

type lookahead struct {
	at    int
	limit int
}

func newScanIndex(buf []byte) *scanIndex {
	idx := &scanIndex{
		ticks:    make(map[int][]int),
		brackets: make(map[int]lookahead),
		titles:   make(map[byte]lookahead),
	}
	for k := 0; k < len(buf); {
		if buf[k] != '`' {
			k++
			continue
		}
		n := runLength(buf[k:], '`')
		idx.ticks[n] = append(idx.ticks[n], k)
		k += n
	}
	return idx
}

// parseInlines parses the inline content of lines into children of parent.
func parseInlines(src []byte, parent *mdast.Node, lines []line) {
	ip := &inlineParser{src: src, lines: lines}
	for k, l := range lines {
		if k > 0 {
			ip.buf = append(ip.buf, '\n')
		}
		ip.starts = append(ip.starts, len(ip.buf))
		ip.buf = append(ip.buf, src[l.start:l.end]...)
	}
	ip.scan = newScanIndex(ip.buf)
	ip.parse(parent, 0, len(ip.buf))
}

// toSource maps a buffer position to a source offset. The joiner between two
// lines maps to the line ending of the first.
func (ip *inlineParser) toSource(pos int) int {
	k := sort.Search(len(ip.starts), func(i int) bool {
		return ip.starts[i] > pos
	}) - 1
	if k < 0 {
		return ip.lines[0].start
	}
	l := ip.lines[k]
	return l.start + min(pos-ip.starts[k], l.end-l.start)
}

// span converts the buffer range [from, to) into a source span.
func (ip *inlineParser) span(from, to int) mdast.Span {
	if to <= from {
		at := ip.toSource(from)
		return mdast.NewSpan(at, at)
	}
	return mdast.NewSpan(ip.toSource(from), ip.toSource(to-1)+1)
}

// parse scans buf[from:to] into children of parent, then resolves emphasis
// and merges adjacent text.
func (ip *inlineParser) parse(parent *mdast.Node, from, to int) {
	var stack []*delimiter
	textStart := from

	flush := func(end int) {
		if end > textStart {
			ip.appendText(parent, ip.buf[textStart:end], ip.span(textStart, end))
		}
	}

	for pos := from; pos < to; {
		switch c := ip.buf[pos]; c {
		case '\\':
			if pos+1 < to && ip.buf[pos+1] == '\n' {
				flush(pos)
				mdast.AppendChild(parent, mdast.NewNodeAt(mdast.NodeHardBreak, ip.span(pos, pos+1)))
				pos += 2
				textStart = pos
				continue
			}
			if pos+1 < to && isASCIIPunct(ip.buf[pos+1]) {
				flush(pos)
				ip.appendText(parent, ip.buf[pos+1:pos+2], ip.span(pos, pos+2))
				pos += 2
				textStart = pos
				continue
			}
			pos++

		case '`':
			n := runLength(ip.buf[pos:to], '`')
			node, end, ok := ip.codeSpan(pos, n, to)
			if !ok {
				pos += n
				continue
			}
			flush(pos)
			mdast.AppendChild(parent, node)
			pos = end
			textStart = pos

		case '*', '_':
			flush(pos)
			n := runLength(ip.buf[pos:to], c)
			node := mdast.NewText(bytes.Clone(ip.buf[pos:pos+n]), ip.span(pos, pos+n))
			node.Inline.Delimiter = c
			mdast.AppendChild(parent, node)
			stack = append(stack, newDelimiter(node, ip.buf, from, to, pos, n))
			pos += n
			textStart = pos

		case '!', '[':
			image := c == '!'
			if (image && (pos+1 >= to || ip.buf[pos+1] != '[')) || (!image && ip.noLinks) {
				pos++
				continue
			}
			node, end, ok := ip.link(pos, to, image)
			if !ok {
				pos++
				continue
			}
			flush(pos)
			mdast.AppendChild(parent, node)
			pos = end
			textStart = pos

		case '<':
			node, end, ok := ip.angleAutolink(pos, to)
			if !ok || ip.noLinks {
				pos++
				continue
			}
			flush(pos)
			mdast.AppendChild(parent, node)
			pos = end
			textStart = pos

		case 'h', 'w':
			if ip.noLinks || (pos > from && !bareLinkBoundary(ip.buf[pos-1])) {
				pos++
				continue
			}
			node, end, ok := ip.bareAutolink(pos, to)
			if !ok {
				pos++
				continue
			}
			flush(pos)
			mdast.AppendChild(parent, node)
			pos = end
			textStart = pos

		case '\n':
			ws, spaces := trailingWhitespace(ip.buf[textStart:pos])
			flush(pos - ws)
			if spaces >= 2 {
				mdast.AppendChild(parent, mdast.NewNodeAt(mdast.NodeHardBreak, ip.span(pos-spaces, pos)))
			} else {
				mdast.AppendChild(parent, mdast.NewNodeAt(mdast.NodeSoftBreak, ip.span(pos, pos+1)))
			}
			pos++
			textStart = pos

		default:
			pos++
		}
	}
	flush(to)

	processEmphasis(stack)
	mergeText(parent)
}

func (ip *inlineParser) appendText(parent *mdast.Node, literal []byte, span mdast.Span) {
	mdast.AppendChild(parent, mdast.NewText(bytes.Clone(literal), span))
}

// trailingWhitespace returns the length of the trailing space/tab run of b and
// the number of spaces directly before its end.
func trailingWhitespace(b []byte) (int, int) {
	ws := 0
	for ws < len(b) && isSpace(b[len(b)-1-ws]) {
		ws++
	}
	spaces := 0
	for spaces < len(b) && b[len(b)-1-spaces] == ' ' {
		spaces++
	}
	return ws, spaces
}

// codeSpan matches a backtick run of length n at pos with the next run of
// exactly the same length. Line joiners inside become spaces, and one
// surrounding space is stripped when both ends have one.
func (ip *inlineParser) codeSpan(pos, n, to int) (*mdast.Node, int, bool) {
	runs := ip.scan.ticks[n]
	i := sort.SearchInts(runs, pos+n)
	if i == len(runs) || runs[i]+n > to {
		return nil, 0, false
	}
	k := runs[i]

	content := bytes.ReplaceAll(ip.buf[pos+n:k], []byte{'\n'}, []byte{' '})
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' &&
		len(bytes.TrimLeft(content, " ")) > 0 {
		content = content[1 : len(content)-1]
	}

	node := mdast.NewNodeAt(mdast.NodeCodeSpan, ip.span(pos, k+n))
	node.Inline = mdast.NewInlineAttrs().WithText(content)
	return node, k + n, true
}

// closingBracket finds the ']' matching the '[' at open, skipping escapes
// and code spans. Every '[' passed on the way is resolved too, so later
// lookups are answered from the index.
func (ip *inlineParser) closingBracket(open, to int) (int, bool) {
	if m, ok := ip.scan.brackets[open]; ok {
		switch {
		case m.at >= 0 && m.at < to:
			return m.at, true
		case m.at >= 0 || to <= m.limit:
			return 0, false
		}
	}

	var nested []int
	for k := open + 1; k < to; {
		switch ip.buf[k] {
		case '\\':
			k += 2
			continue
		case '`':
			n := runLength(ip.buf[k:to], '`')
			if _, end, ok := ip.codeSpan(k, n, to); ok {
				k = end
			} else {
				k += n
			}
			continue
		case '[':
			nested = append(nested, k)
		case ']':
			if len(nested) == 0 {
				ip.scan.brackets[open] = lookahead{at: k, limit: to}
				return k, true
			}
			ip.scan.brackets[nested[len(nested)-1]] = lookahead{at: k, limit: to}
			nested = nested[:len(nested)-1]
		}
		k++
	}

	ip.scan.brackets[open] = lookahead{at: -1, limit: to}
	for _, k := range nested {
		ip.scan.brackets[k] = lookahead{at: -1, limit: to}
	}
	return 0, false
}

// link matches "[text](dest "title")" or, with image set, the same form
// prefixed by '!'. Link text is parsed without nested links.
func (ip *inlineParser) link(pos, to int, image bool) (*mdast.Node, int, bool) {
	open := pos
	if image {
		open++
	}

	closeBracket, ok := ip.closingBracket(open, to)
	if !ok || closeBracket+1 >= to || ip.buf[closeBracket+1] != '(' {
		return nil, 0, false
	}

	dest, title, end, ok := ip.linkTail(closeBracket+2, to)
	if !ok {
		return nil, 0, false
	}

	kind := mdast.NodeLink
	if image {
		kind = mdast.NodeImage
	}
	node := mdast.NewNodeAt(kind, ip.span(pos, end))
	attrs := &mdast.LinkAttrs{Destination: dest, Title: title}
	node.Inline = mdast.NewInlineAttrs().WithLink(attrs)

	sub := *ip
	sub.noLinks = true
	sub.parse(node, open+1, closeBracket)
	if image {
		attrs.Alt = node.Literal()
	}

	return node, end, true
}

// linkTail parses the destination, optional title and closing ')' starting
// just after '('.
func (ip *inlineParser) linkTail(pos, to int) (string, string, int, bool) {
	pos = ip.skipLinkSpace(pos, to)

	var dest []byte
	switch {
	case pos < to && ip.buf[pos] == '<':
		k := pos + 1
		for k < to && ip.buf[k] != '>' && ip.buf[k] != '\n' && ip.buf[k] != '<' {
			if ip.buf[k] == '\\' && k+1 < to {
				k++
			}
			k++
		}
		if k >= to || ip.buf[k] != '>' {
			return "", "", 0, false
		}
		dest = ip.buf[pos+1 : k]
		pos = k + 1
	default:
		k := pos
		depth := 0
	scan:
		for k < to {
			switch c := ip.buf[k]; {
			case c == '\\' && k+1 < to && isASCIIPunct(ip.buf[k+1]):
				k += 2
				continue
			case c == '(':
				depth++
				if depth > maxLinkParens {
					return "", "", 0, false
				}
			case c == ')':
				if depth == 0 {
					break scan
				}
				depth--
			case c <= ' ':
				break scan
			}
			k++
		}
		if depth != 0 {
			return "", "", 0, false
		}
		dest = ip.buf[pos:k]
		pos = k
	}

	var title []byte
	afterDest := ip.skipLinkSpace(pos, to)
	if afterDest > pos && afterDest < to {
		if closer, ok := titleCloser(ip.buf[afterDest]); ok {
			k, found := ip.titleEnd(afterDest+1, to, closer)
			if !found {
				return "", "", 0, false
			}
			title = ip.buf[afterDest+1 : k]
			pos = ip.skipLinkSpace(k+1, to)
		} else {
			pos = afterDest
		}
	} else {
		pos = afterDest
	}

	if pos >= to || ip.buf[pos] != ')' {
		return "", "", 0, false
	}
	return string(unescape(dest)), string(unescape(title)), pos + 1, true
}

// titleEnd finds the unescaped closer of a link title starting at pos. A
// failed search is remembered: a later start follows an opening quote, so it
// cannot sit inside an escape the earlier search skipped, and fails too.
func (ip *inlineParser) titleEnd(pos, to int, closer byte) (int, bool) {
	m, seen := ip.scan.titles[closer]
	if seen && pos >= m.at && to <= m.limit {
		return 0, false
	}
	for k := pos; k < to; k++ {
		switch ip.buf[k] {
		case '\\':
			k++
		case closer:
			return k, true
		}
	}
	if !seen || pos < m.at || to > m.limit {
		ip.scan.titles[closer] = lookahead{at: pos, limit: to}
	}
	return 0, false
}

func (ip *inlineParser) skipLinkSpace(pos, to int) int {
	newlines := 0
	for pos < to && (isSpace(ip.buf[pos]) || ip.buf[pos] == '\n') {
		if ip.buf[pos] == '\n' {
			newlines++
			if newlines > 1 {
				break
			}
		}
		pos++
	}
	return pos
}

func titleCloser(c byte) (byte, bool) {
	switch c {
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '(':
		return ')', true
	default:
		return 0, false
	}
}

// angleAutolink matches "<scheme:rest>" and "<user@host>".
func (ip *inlineParser) angleAutolink(pos, to int) (*mdast.Node, int, bool) {
	k := pos + 1
	for k < to && ip.buf[k] != '>' {
		if c := ip.buf[k]; c <= ' ' || c == '<' {
			return nil, 0, false
		}
		k++
	}
	if k >= to || k == pos+1 {
		return nil, 0, false
	}

	target := ip.buf[pos+1 : k]
	var dest string
	switch {
	case hasScheme(target):
		dest = string(target)
	case isEmail(target):
		dest = "mailto:" + string(target)
	default:
		return nil, 0, false
	}

	node := mdast.NewNodeAt(mdast.NodeLink, ip.span(pos, k+1))
	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{Destination: dest, Autolink: true})
	mdast.AppendChild(node, mdast.NewText(bytes.Clone(target), ip.span(pos+1, k)))
	return node, k + 1, true
}

// hasScheme reports whether b starts with a URI scheme of 2 to 32 characters
// followed by ':'.
func hasScheme(b []byte) bool {
	const minScheme, maxScheme = 2, 32
	colon := bytes.IndexByte(b, ':')
	if colon < minScheme || colon > maxScheme || !isASCIILetter(b[0]) {
		return false
	}
	for _, c := range b[1:colon] {
		if !isASCIILetter(c) && !isDigit(c) && c != '+' && c != '.' && c != '-' {
			return false
		}
	}
	return true
}

func isEmail(b []byte) bool {
	at := bytes.IndexByte(b, '@')
	return at > 0 && at < len(b)-1 && bytes.IndexByte(b[at+1:], '.') > 0
}

var bareLinkPrefixes = [][]byte{[]byte("https://"), []byte("http://"), []byte("www.")}

// bareAutolink matches a "http://", "https://" or "www." link in running
// text. Trailing punctuation and unbalanced ')' stay outside the link.
func (ip *inlineParser) bareAutolink(pos, to int) (*mdast.Node, int, bool) {
	rest := ip.buf[pos:to]
	var prefix []byte
	for _, candidate := range bareLinkPrefixes {
		if bytes.HasPrefix(rest, candidate) {
			prefix = candidate
			break
		}
	}
	if prefix == nil {
		return nil, 0, false
	}

	end := pos
	for end < to && ip.buf[end] > ' ' && ip.buf[end] != '<' {
		end++
	}
	opens := bytes.Count(ip.buf[pos:end], []byte{'('})
	closes := bytes.Count(ip.buf[pos:end], []byte{')'})
	for end > pos+len(prefix) {
		c := ip.buf[end-1]
		if bytes.IndexByte([]byte("?!.,:*_~'\""), c) >= 0 {
			end--
			continue
		}
		if c == ')' && opens < closes {
			end--
			closes--
			continue
		}
		break
	}
	if end <= pos+len(prefix) {
		return nil, 0, false
	}

	target := ip.buf[pos:end]
	dest := string(target)
	if prefix[0] == 'w' {
		dest = "http://" + dest
	}

	node := mdast.NewNodeAt(mdast.NodeLink, ip.span(pos, end))
	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{Destination: dest, Autolink: true})
	mdast.AppendChild(node, mdast.NewText(bytes.Clone(target), ip.span(pos, end)))
	return node, end, true
}

func bareLinkBoundary(c byte) bool {
	return isSpace(c) || c == '\n' || c == '(' || c == '*' || c == '_' || c == '~'
}

// unescape removes backslashes before ASCII punctuation.
func unescape(b []byte) []byte {
	if bytes.IndexByte(b, '\\') < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for k := 0; k < len(b); k++ {
		if b[k] == '\\' && k+1 < len(b) && isASCIIPunct(b[k+1]) {
			k++
		}
		out = append(out, b[k])
	}
	return out
}

// mergeText joins adjacent text siblings throughout the subtree of parent
// and clears delimiter marks left on unmatched runs.
func mergeText(parent *mdast.Node) {
	for child := parent.FirstChild; child != nil; {
		next := child.Next
		if child.Kind != mdast.NodeText {
			if child.Kind == mdast.NodeEmphasis || child.Kind == mdast.NodeStrong {
				mergeText(child)
			}
			child = next
			continue
		}

		child.Inline.Delimiter = 0
		if len(child.Inline.Text) == 0 && child.Span.IsEmpty() {
			mdast.RemoveChild(parent, child)
			child = next
			continue
		}
		for next != nil && next.Kind == mdast.NodeText {
			child.Inline.Text = append(child.Inline.Text, next.Inline.Text...)
			child.Span.End = next.Span.End
			following := next.Next
			mdast.RemoveChild(parent, next)
			next = following
		}
		child = next
	}
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
