// Package preview keeps a rendered Markdown preview synchronized with an
// editor buffer.
//
// A Controller runs one worker goroutine. Buffer changes are coalesced into
// a single pending slot; each cycle normalizes the text, skips the parse when
// nothing meaningful changed, and otherwise parses, renders and publishes a
// new Generation. Scroll and cursor events are translated through the offset
// map of the current generation. Events that arrive while a cycle is in
// flight are held, and the most recent one is replayed once the controller
// is synced again.
package preview

import (
	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/minify"
	"github.com/yaklabco/mdpreview/pkg/render"
)

// Editor is the text editor the preview follows.
type Editor interface {
	// BufferText returns the full current buffer.
	BufferText() []byte

	// CursorOffset returns the cursor position as a byte offset.
	CursorOffset() int

	// OnBufferChanged registers fn to receive the full text after each change.
	OnBufferChanged(fn func(text []byte))

	// ScrollEditorToOffset scrolls the editor so offset is visible.
	ScrollEditorToOffset(offset int)
}

// PreviewPane is the surface that paints render nodes.
type PreviewPane interface {
	// ScrollPreviewToRow scrolls the preview so row is visible.
	ScrollPreviewToRow(row int)
}

// State is the controller state.
type State int32

const (
	// StateIdle means no text has been submitted yet.
	StateIdle State = iota

	// StateParsing means a cycle is queued or running.
	StateParsing

	// StateSynced means the current generation reflects the latest text.
	StateSynced
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateSynced:
		return "synced"
	default:
		return "idle"
	}
}

// Generation is the output of one parse and render cycle. It is immutable
// once published.
type Generation struct {
	// ID increases strictly from 1.
	ID uint64

	// Document is the parsed source.
	Document *mdast.Document

	// Nodes are the render rows.
	Nodes []render.RenderNode

	// Map translates between source offsets and rows.
	Map *render.OffsetMap

	// Normalized is the canonical form of the source.
	Normalized *minify.Normalized
}

// bufferView records the latest buffer when the change gate skipped a cycle:
// its offsets must be translated onto the source of generation.
type bufferView struct {
	generation uint64
	text       *minify.Normalized
}

// scrollKind identifies a held scroll request.
type scrollKind uint8

const (
	scrollFromEditor scrollKind = iota + 1
	scrollFromPreview
	scrollPage
)

// scrollRequest is a scroll event held while not synced.
type scrollRequest struct {
	kind  scrollKind
	value int // offset, row, or page delta
}
