package mdast

// Span represents a byte range in the source content.
type Span struct {
	// Start is the byte index where the range begins (inclusive).
	Start int

	// End is the byte index where the range ends (exclusive).
	End int
}

// NewSpan returns the span [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the range in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the range has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given offset is within this range.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Encloses returns true if other lies entirely inside s.
func (s Span) Encloses(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Text returns the source bytes covered by the node.
// Returns nil if the span falls outside src.
func (n *Node) Text(src []byte) []byte {
	if n.Span.Start < 0 || n.Span.End > len(src) || n.Span.Start > n.Span.End {
		return nil
	}
	return src[n.Span.Start:n.Span.End]
}
