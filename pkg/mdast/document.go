// Package mdast provides the Markdown element model used by the preview core.
// It defines an immutable view of one parse of a source buffer:
// - Document: the source bytes, line index and element tree
// - Node: a typed element carrying the exact source span of its markup
// - Validate: span containment and ordering checks
package mdast

// Document is an immutable parse of a source buffer.
// A new Document replaces the old one wholesale on reparse.
type Document struct {
	// Source is the full source bytes the spans refer to.
	Source []byte

	// Lines contains metadata for each line in the source.
	Lines []LineInfo

	// Root is the NodeDocument root; its children are the top-level blocks.
	Root *Node
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewDocumentFor creates a Document shell for src with an empty root.
// The line index is built eagerly; the tree is filled in by a parser.
func NewDocumentFor(src []byte) *Document {
	root := NewDocument()
	root.Span = Span{Start: 0, End: len(src)}
	return &Document{
		Source: src,
		Lines:  BuildLines(src),
		Root:   root,
	}
}

// Len returns the source length in bytes.
func (d *Document) Len() int {
	return len(d.Source)
}

// Blocks returns the ordered top-level block elements.
func (d *Document) Blocks() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Children()
}

// BlockAt returns the top-level block whose span contains offset, or nil.
func (d *Document) BlockAt(offset int) *Node {
	if d == nil || d.Root == nil {
		return nil
	}
	for block := d.Root.FirstChild; block != nil; block = block.Next {
		if block.Span.Start > offset {
			return nil
		}
		if offset < block.Span.End || (block.Span.IsEmpty() && offset == block.Span.Start) {
			return block
		}
	}
	return nil
}
