package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// delimiter is a run of '*' or '_' that may open or close emphasis. Its node
// is a text node holding the characters not yet consumed. Delimiters form a
// doubly linked stack in document order.
type delimiter struct {
	node       *mdast.Node
	char       byte
	length     int // original run length, for the rule of three
	canOpen    bool
	canClose   bool
	prev, next *delimiter
}

// newDelimiter classifies the run buf[pos:pos+n] using the left- and
// right-flanking rules. '_' additionally needs punctuation or whitespace on
// its outer side, so intraword underscores never emphasize.
func newDelimiter(node *mdast.Node, buf []byte, from, to, pos, n int) *delimiter {
	before := ' '
	if pos > from {
		before, _ = utf8.DecodeLastRune(buf[from:pos])
	}
	after := ' '
	if pos+n < to {
		after, _ = utf8.DecodeRune(buf[pos+n : to])
	}

	leftFlanking := !isWhitespace(after) &&
		(!isPunctuation(after) || isWhitespace(before) || isPunctuation(before))
	rightFlanking := !isWhitespace(before) &&
		(!isPunctuation(before) || isWhitespace(after) || isPunctuation(after))

	c := buf[pos]
	d := &delimiter{node: node, char: c, length: n}
	if c == '*' {
		d.canOpen = leftFlanking
		d.canClose = rightFlanking
	} else {
		d.canOpen = leftFlanking && (!rightFlanking || isPunctuation(before))
		d.canClose = rightFlanking && (!leftFlanking || isPunctuation(after))
	}
	return d
}

func isWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

func isPunctuation(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// remaining is the number of unconsumed delimiter characters.
func (d *delimiter) remaining() int {
	return len(d.node.Inline.Text)
}

// matches reports whether opener d may be closed by closer.
func (d *delimiter) matches(closer *delimiter) bool {
	if !d.canOpen || d.char != closer.char || d.remaining() == 0 {
		return false
	}
	// Rule of three: when either run can both open and close, the sum of
	// the original lengths must not be a multiple of three unless both are.
	if d.canClose || closer.canOpen {
		if (d.length+closer.length)%3 == 0 && (d.length%3 != 0 || closer.length%3 != 0) {
			return false
		}
	}
	return true
}

// bottomIndex selects the openers-bottom slot for a closer.
func (d *delimiter) bottomIndex() int {
	idx := d.length % 3
	if d.canOpen {
		idx += 3
	}
	if d.char == '_' {
		idx += 6
	}
	return idx
}

const bottomSlots = 12

// delimiterStack links the delimiters of one inline range. bottom holds, per
// closer class, the delimiter below which no opener can match.
type delimiterStack struct {
	first  *delimiter
	bottom [bottomSlots]*delimiter
}

func newDelimiterStack(delims []*delimiter) *delimiterStack {
	st := &delimiterStack{}
	var last *delimiter
	for _, d := range delims {
		d.prev = last
		if last != nil {
			last.next = d
		} else {
			st.first = d
		}
		last = d
	}
	return st
}

// remove unlinks d. A bottom pointing at d moves down to its predecessor.
func (st *delimiterStack) remove(d *delimiter) {
	for i := range st.bottom {
		if st.bottom[i] == d {
			st.bottom[i] = d.prev
		}
	}
	if d.prev != nil {
		d.prev.next = d.next
	} else {
		st.first = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	}
	d.prev, d.next = nil, nil
}

// processEmphasis pairs delimiter runs into emphasis and strong nodes. Each
// closer takes the nearest compatible opener; two characters are used when
// both runs have at least two left. The nodes between opener and closer move
// into the new element. Runs that never pair stay as literal text.
func processEmphasis(delims []*delimiter) {
	st := newDelimiterStack(delims)

	for closer := st.first; closer != nil; {
		if !closer.canClose {
			closer = closer.next
			continue
		}

		slot := closer.bottomIndex()
		var opener *delimiter
		for d := closer.prev; d != nil && d != st.bottom[slot]; d = d.prev {
			if d.matches(closer) {
				opener = d
				break
			}
		}

		if opener == nil {
			st.bottom[slot] = closer.prev
			next := closer.next
			if !closer.canOpen {
				st.remove(closer)
			}
			closer = next
			continue
		}

		use := 1
		kind := mdast.NodeEmphasis
		if opener.remaining() >= 2 && closer.remaining() >= 2 {
			use = 2
			kind = mdast.NodeStrong
		}

		wrap(opener.node, closer.node, use, kind, closer.char)

		// Delimiters between the pair can no longer match anything.
		for d := opener.next; d != closer; {
			next := d.next
			st.remove(d)
			d = next
		}

		if opener.remaining() == 0 {
			mdast.RemoveChild(opener.node.Parent, opener.node)
			st.remove(opener)
		}
		if closer.remaining() == 0 {
			mdast.RemoveChild(closer.node.Parent, closer.node)
			next := closer.next
			st.remove(closer)
			closer = next
		}
	}
}

// wrap consumes use characters from the inner ends of opener and closer and
// moves every node between them into a new element of kind.
func wrap(opener, closer *mdast.Node, use int, kind mdast.NodeKind, char byte) {
	opener.Inline.Text = opener.Inline.Text[:len(opener.Inline.Text)-use]
	opener.Span.End -= use
	closer.Inline.Text = closer.Inline.Text[use:]
	closer.Span.Start += use

	elem := mdast.NewNodeAt(kind, mdast.NewSpan(opener.Span.End, closer.Span.Start))
	elem.Inline = mdast.NewInlineAttrs().WithDelimiter(char)

	for n := opener.Next; n != nil && n != closer; {
		next := n.Next
		mdast.AppendChild(elem, n)
		n = next
	}
	mdast.InsertAfter(opener, elem)
}
