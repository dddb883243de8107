// Package minify normalizes Markdown source for cheap change detection.
//
// Two buffers that differ only in insignificant whitespace normalize to the
// same canonical bytes:
//   - CRLF line endings become LF
//   - trailing spaces and tabs are removed, except that a trailing run of two
//     or more spaces on a non-blank line becomes exactly two spaces (hard break)
//   - runs of blank lines collapse to a single blank line
//   - leading and trailing blank lines are removed
//
// The canonical form is used only for comparison. Element spans always refer
// to the original text; Normalized keeps a segment table so offsets can be
// carried between a buffer and the canonical form.
package minify

import (
	"bytes"
	"sort"
)

// hardBreakSpaces is the canonical trailing run for a hard line break.
const hardBreakSpaces = 2

// segment records a run of bytes copied verbatim from raw to canonical.
type segment struct {
	raw    int
	canon  int
	length int
}

// Normalized is the canonical form of one source buffer.
type Normalized struct {
	canonical []byte
	segments  []segment
	rawLen    int
}

// Normalize returns the canonical form of text. It is deterministic and pure.
func Normalize(text []byte) *Normalized {
	n := &Normalized{
		canonical: make([]byte, 0, len(text)),
		rawLen:    len(text),
	}

	emitted := false
	pendingBlank := false
	prevEOL := -1
	blankEOL := -1

	for pos := 0; pos < len(text); {
		contentEnd, eol, next := scanLine(text, pos)

		trimmed := contentEnd
		for trimmed > pos && isTrailingSpace(text[trimmed-1]) {
			trimmed--
		}

		if trimmed == pos {
			// Blank line: remember where the first one in the run ends.
			if emitted && !pendingBlank {
				pendingBlank = true
				blankEOL = eol
			}
			pos = next
			continue
		}

		if emitted {
			n.copyRun(text, prevEOL, 1, '\n')
			if pendingBlank {
				n.copyRun(text, blankEOL, 1, '\n')
			}
		}

		n.copyRun(text, pos, trimmed-pos, 0)

		spaces := 0
		for i := contentEnd - 1; i >= trimmed && text[i] == ' '; i-- {
			spaces++
		}
		if spaces >= hardBreakSpaces {
			n.copyRun(text, contentEnd-spaces, hardBreakSpaces, 0)
		}

		emitted = true
		pendingBlank = false
		prevEOL = eol
		pos = next
	}

	return n
}

// scanLine returns the end of line content (excluding CR/LF), the offset of
// the line ending and the start of the next line.
func scanLine(text []byte, pos int) (int, int, int) {
	idx := bytes.IndexByte(text[pos:], '\n')
	if idx < 0 {
		return len(text), len(text), len(text)
	}
	nl := pos + idx
	contentEnd := nl
	if contentEnd > pos && text[contentEnd-1] == '\r' {
		contentEnd--
	}
	return contentEnd, contentEnd, nl + 1
}

func isTrailingSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// copyRun appends length bytes taken from raw at rawPos. When literal is
// non-zero the canonical byte is literal instead of the raw byte (used for
// line endings, where "\r\n" maps onto a single "\n").
func (n *Normalized) copyRun(raw []byte, rawPos, length int, literal byte) {
	if length <= 0 {
		return
	}

	canonPos := len(n.canonical)
	if literal != 0 {
		n.canonical = append(n.canonical, literal)
	} else {
		n.canonical = append(n.canonical, raw[rawPos:rawPos+length]...)
	}

	if last := len(n.segments) - 1; last >= 0 {
		prev := &n.segments[last]
		if literal == 0 && prev.raw+prev.length == rawPos && prev.canon+prev.length == canonPos {
			prev.length += length
			return
		}
	}

	n.segments = append(n.segments, segment{raw: rawPos, canon: canonPos, length: length})
}

// Canonical returns the canonical bytes. Callers must not modify them.
func (n *Normalized) Canonical() []byte {
	if n == nil {
		return nil
	}
	return n.canonical
}

// String returns the canonical form as a string.
func (n *Normalized) String() string {
	return string(n.Canonical())
}

// Len returns the length of the canonical form.
func (n *Normalized) Len() int {
	return len(n.Canonical())
}

// RawLen returns the length of the text that was normalized.
func (n *Normalized) RawLen() int {
	if n == nil {
		return 0
	}
	return n.rawLen
}

// Equal reports whether both canonical forms are identical.
func (n *Normalized) Equal(other *Normalized) bool {
	if n == nil || other == nil {
		return n == other
	}
	return bytes.Equal(n.canonical, other.canonical)
}

// ShouldReparse reports whether replacing old with updated can change the
// parsed document. A nil old value always requires a parse.
func ShouldReparse(old, updated *Normalized) bool {
	if old == nil {
		return true
	}
	return !old.Equal(updated)
}

// ToCanonical maps a raw offset to the corresponding canonical offset.
// Offsets inside dropped whitespace map to the next canonical byte.
// Out-of-range input clamps.
func (n *Normalized) ToCanonical(raw int) int {
	if n == nil || len(n.segments) == 0 {
		return 0
	}

	idx := sort.Search(len(n.segments), func(i int) bool {
		return n.segments[i].raw > raw
	}) - 1
	if idx < 0 {
		return 0
	}

	seg := n.segments[idx]
	if raw < seg.raw+seg.length {
		return seg.canon + (raw - seg.raw)
	}
	return seg.canon + seg.length
}

// ToRaw maps a canonical offset back to a raw offset. Out-of-range input clamps.
func (n *Normalized) ToRaw(canon int) int {
	if n == nil || len(n.segments) == 0 {
		return 0
	}

	idx := sort.Search(len(n.segments), func(i int) bool {
		return n.segments[i].canon > canon
	}) - 1
	if idx < 0 {
		return n.segments[0].raw
	}

	seg := n.segments[idx]
	if canon < seg.canon+seg.length {
		return seg.raw + (canon - seg.canon)
	}
	if idx+1 < len(n.segments) {
		return n.segments[idx+1].raw
	}
	return n.rawLen
}

// Translate maps an offset in the raw text behind from onto the raw text
// behind to. Both values must share the same canonical form for the result to
// be exact; otherwise the mapping is best effort.
func Translate(from, to *Normalized, offset int) int {
	if from == to {
		return offset
	}
	return to.ToRaw(from.ToCanonical(offset))
}
