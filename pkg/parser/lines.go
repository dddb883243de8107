package parser

import "github.com/yaklabco/mdpreview/pkg/mdast"

// tabWidth is the column distance of a tab stop.
const tabWidth = 4

// maxIndent is the deepest indentation a block marker may carry.
const maxIndent = 3

// line is one physical source line as seen from inside a container. The
// container prefixes ("> ", list item indentation) are already stripped, so
// start is the first byte the current container owns.
type line struct {
	start int // first content byte
	end   int // end of content, before the line ending
}

// sourceLines returns the physical lines of doc without their endings.
func sourceLines(doc *mdast.Document) []line {
	lines := make([]line, 0, len(doc.Lines))
	for _, info := range doc.Lines {
		lines = append(lines, line{start: info.StartOffset, end: info.NewlineStart})
	}
	// A trailing newline leaves an empty final line that owns nothing.
	if n := len(lines); n > 0 && lines[n-1].start == lines[n-1].end && lines[n-1].start == len(doc.Source) {
		lines = lines[:n-1]
	}
	return lines
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isSpaceOrNewline(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// blank reports whether l holds only spaces and tabs.
func (p *blockParser) blank(l line) bool {
	for i := l.start; i < l.end; i++ {
		if !isSpace(p.src[i]) {
			return false
		}
	}
	return true
}

// indent returns the indentation width of l in columns and the offset of
// its first non-blank byte.
func (p *blockParser) indent(l line) (int, int) {
	cols := 0
	i := l.start
	for ; i < l.end; i++ {
		switch p.src[i] {
		case ' ':
			cols++
		case '\t':
			cols += tabWidth - cols%tabWidth
		default:
			return cols, i
		}
	}
	return cols, i
}

// strip removes up to cols columns of leading whitespace from l.
func (p *blockParser) strip(l line, cols int) line {
	width := 0
	for l.start < l.end && width < cols {
		switch p.src[l.start] {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return l
		}
		l.start++
	}
	return l
}

// trimmed returns l without leading and trailing whitespace.
func (p *blockParser) trimmed(l line) line {
	for l.start < l.end && isSpace(p.src[l.start]) {
		l.start++
	}
	for l.end > l.start && isSpace(p.src[l.end-1]) {
		l.end--
	}
	return l
}

// lastNonBlankEnd returns the end of the last non-blank line in lines, or
// fallback when every line is blank.
func (p *blockParser) lastNonBlankEnd(lines []line, fallback int) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if !p.blank(lines[i]) {
			return p.trimmed(lines[i]).end
		}
	}
	return fallback
}
