// Package render projects an mdast.Document onto a list of logical rows and
// builds the bidirectional offset map used for scroll synchronization.
//
// A row is one unwrapped logical line: wrapping and painting belong to the
// host. Headings and thematic breaks take one row, paragraphs one row per
// hard-broken line, and code blocks and tables one row per physical line.
// List items and blockquotes add a marker prefix and depth to the rows of
// their children.
package render

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/langdetect"
	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// Role distinguishes the rows of multi-row blocks.
type Role uint8

const (
	// RoleContent is a text row: heading, paragraph line, code line, rule.
	RoleContent Role = iota

	// RoleFenceOpen is the opening fence row of a code block.
	RoleFenceOpen

	// RoleFenceClose is the closing fence row of a code block.
	RoleFenceClose

	// RoleTableHeader is the header row of a table.
	RoleTableHeader

	// RoleTableSeparator is the delimiter row of a table.
	RoleTableSeparator

	// RoleTableBody is a body row of a table.
	RoleTableBody
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleFenceOpen:
		return "fence-open"
	case RoleFenceClose:
		return "fence-close"
	case RoleTableHeader:
		return "table-header"
	case RoleTableSeparator:
		return "table-separator"
	case RoleTableBody:
		return "table-body"
	default:
		return "content"
	}
}

// Style is a set of inline styles applied to a run of row text.
type Style uint8

// Inline styles.
const (
	StyleStrong Style = 1 << iota
	StyleEmphasis
	StyleCode
	StyleLink
	StyleImage
)

// Has reports whether s includes every style in other.
func (s Style) Has(other Style) bool {
	return s&other == other
}

// Run is a styled byte range [Start, End) of a row's Text.
type Run struct {
	Start       int
	End         int
	Style       Style
	Destination string
}

// RenderNode is one logical row of rendered output.
type RenderNode struct {
	// Row is the zero-based row index.
	Row int

	// Kind is the kind of the block the row belongs to. Empty list items
	// and blockquotes produce a row of their own kind.
	Kind mdast.NodeKind

	// Role distinguishes fence and table rows.
	Role Role

	// Span is the source range of the row. Span.Start is the row's offset
	// map entry; the first row of a container starts at the container.
	Span mdast.Span

	// Depth is the number of enclosing list items and blockquotes.
	Depth int

	// Marker is the container prefix, for example "> - [x] ".
	Marker string

	// Text is the visible text of the row with markup removed.
	Text string

	// Runs are the styled ranges of Text, in order.
	Runs []Run

	// Language is the code block language label.
	Language string

	// Cells holds the cell texts of a table row, padded to the column count.
	Cells []string

	// Element is the block the row was produced from.
	Element *mdast.Node
}

// Result is the output of Render.
type Result struct {
	Nodes []RenderNode
	Map   *OffsetMap
}

// Option configures Render.
type Option func(*options)

type options struct {
	detectLanguage bool
	logger         *log.Logger
}

// WithLanguageDetection labels code blocks that have no info string with a
// detected language.
func WithLanguageDetection(enabled bool) Option {
	return func(o *options) {
		o.detectLanguage = enabled
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Render walks doc in order and returns its rows and offset map. The map
// has one entry per row.
func Render(doc *mdast.Document, opts ...Option) *Result {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	r := &renderer{src: doc.Source, cfg: &cfg, pending: -1}
	for _, block := range doc.Blocks() {
		r.block(block)
	}

	entries := make([]Entry, len(r.nodes))
	for i := range r.nodes {
		entries[i] = Entry{Offset: r.nodes[i].Span.Start, Row: i}
	}

	return &Result{Nodes: r.nodes, Map: &OffsetMap{entries: entries}}
}

// frame is one enclosing list item or blockquote.
type frame struct {
	first string // prefix on the first row
	rest  string // prefix on later rows
	used  bool
}

type renderer struct {
	src    []byte
	cfg    *options
	nodes  []RenderNode
	frames []*frame

	// pending is the start of the outermost container that has not emitted
	// a row yet, or -1.
	pending int
}

// emit appends node as the next row. Rows whose start does not advance
// past the previous row are dropped.
func (r *renderer) emit(node RenderNode) {
	if r.pending >= 0 {
		node.Span.Start = min(r.pending, node.Span.Start)
		r.pending = -1
	}
	node.Span.End = max(node.Span.End, node.Span.Start)

	if n := len(r.nodes); n > 0 && node.Span.Start <= r.nodes[n-1].Span.Start {
		r.cfg.logger.Debug("dropping row that does not advance",
			logging.FieldKind, node.Kind.String(),
			logging.FieldOffset, node.Span.Start)
		return
	}

	var marker strings.Builder
	for _, f := range r.frames {
		if f.used {
			marker.WriteString(f.rest)
		} else {
			marker.WriteString(f.first)
			f.used = true
		}
	}

	node.Row = len(r.nodes)
	node.Depth = len(r.frames)
	node.Marker = marker.String()
	r.nodes = append(r.nodes, node)
}

func (r *renderer) push(container *mdast.Node, f *frame) {
	if r.pending < 0 {
		r.pending = container.Span.Start
	}
	r.frames = append(r.frames, f)
}

func (r *renderer) pop() {
	r.frames = r.frames[:len(r.frames)-1]
}

func (r *renderer) block(n *mdast.Node) {
	switch n.Kind {
	case mdast.NodeHeading, mdast.NodeParagraph:
		r.inlineBlock(n)
	case mdast.NodeCodeBlock:
		r.codeBlock(n)
	case mdast.NodeTable:
		r.table(n)
	case mdast.NodeThematicBreak:
		r.emit(RenderNode{Kind: n.Kind, Span: n.Span, Element: n})
	case mdast.NodeList:
		for item := n.FirstChild; item != nil; item = item.Next {
			r.block(item)
		}
	case mdast.NodeListItem:
		r.container(n, itemFrame(n))
	case mdast.NodeBlockquote:
		r.container(n, &frame{first: "> ", rest: "> "})
	default:
		// Inline kinds and table parts never appear at block level.
	}
}

func (r *renderer) container(n *mdast.Node, f *frame) {
	r.push(n, f)
	if !n.HasChildren() {
		r.emit(RenderNode{Kind: n.Kind, Span: n.Span, Element: n})
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		r.block(child)
	}
	r.pop()
}

func itemFrame(item *mdast.Node) *frame {
	marker := "-"
	task := mdast.TaskNone
	if item.Block != nil && item.Block.Item != nil {
		marker = item.Block.Item.Marker
		task = item.Block.Item.Task
	}

	first := marker + " "
	switch task {
	case mdast.TaskOpen:
		first += "[ ] "
	case mdast.TaskDone:
		first += "[x] "
	default:
	}
	return &frame{first: first, rest: strings.Repeat(" ", len(marker)+1)}
}

// inlineBlock emits a heading or paragraph, one row per hard-broken line.
func (r *renderer) inlineBlock(n *mdast.Node) {
	leaves := collect(n)

	start := n.Span.Start
	var row runBuilder
	for i, lf := range leaves {
		if lf.node.Kind != mdast.NodeHardBreak {
			row.add(lf)
			continue
		}
		next := nextContent(leaves[i+1:])
		if next == nil {
			continue
		}
		r.emit(RenderNode{
			Kind:    n.Kind,
			Span:    mdast.NewSpan(start, lf.node.Span.End),
			Text:    row.text.String(),
			Runs:    row.runs,
			Element: n,
		})
		start = next.Span.Start
		row = runBuilder{}
	}

	r.emit(RenderNode{
		Kind:    n.Kind,
		Span:    mdast.NewSpan(start, n.Span.End),
		Text:    row.text.String(),
		Runs:    row.runs,
		Element: n,
	})
}

// nextContent returns the first leaf that is not a break.
func nextContent(leaves []leaf) *mdast.Node {
	for _, lf := range leaves {
		if lf.node.Kind != mdast.NodeHardBreak && lf.node.Kind != mdast.NodeSoftBreak {
			return lf.node
		}
	}
	return nil
}

// codeBlock emits the opening fence, one row per content line and the
// closing fence when present.
func (r *renderer) codeBlock(n *mdast.Node) {
	attrs := n.Block.CodeBlock
	lang := attrs.Language
	if r.cfg.detectLanguage && lang == "" {
		lang = langdetect.Label(attrs.Info, attrs.Content).Language
	}

	openEnd := n.Span.End
	if i := bytes.IndexByte(r.src[n.Span.Start:n.Span.End], '\n'); i >= 0 {
		openEnd = n.Span.Start + i
		if openEnd > n.Span.Start && r.src[openEnd-1] == '\r' {
			openEnd--
		}
	}
	r.emit(RenderNode{
		Kind:     n.Kind,
		Role:     RoleFenceOpen,
		Span:     mdast.NewSpan(n.Span.Start, openEnd),
		Text:     attrs.Info,
		Language: lang,
		Element:  n,
	})

	for _, ln := range attrs.Lines {
		r.emit(RenderNode{
			Kind:     n.Kind,
			Span:     ln,
			Text:     string(r.src[ln.Start:ln.End]),
			Runs:     []Run{{Start: 0, End: ln.Len(), Style: StyleCode}},
			Language: lang,
			Element:  n,
		})
	}

	if attrs.Closed {
		closeStart := n.Span.End
		for closeStart > n.Span.Start && r.src[closeStart-1] == attrs.FenceChar {
			closeStart--
		}
		r.emit(RenderNode{
			Kind:     n.Kind,
			Role:     RoleFenceClose,
			Span:     mdast.NewSpan(closeStart, n.Span.End),
			Language: lang,
			Element:  n,
		})
	}
}

// table emits the header, the separator and each body row.
func (r *renderer) table(n *mdast.Node) {
	attrs := n.Block.Table
	columns := len(attrs.Alignments)

	for row := n.FirstChild; row != nil; row = row.Next {
		header := row.Block != nil && row.Block.Table != nil && row.Block.Table.Header
		role := RoleTableBody
		if header {
			role = RoleTableHeader
		}
		text, runs, cells := tableRow(row, columns)
		r.emit(RenderNode{
			Kind:    n.Kind,
			Role:    role,
			Span:    row.Span,
			Text:    text,
			Runs:    runs,
			Cells:   cells,
			Element: n,
		})

		if header {
			r.emit(RenderNode{
				Kind:    n.Kind,
				Role:    RoleTableSeparator,
				Span:    attrs.Delimiter,
				Text:    separatorText(attrs.Alignments),
				Element: n,
			})
		}
	}
}

func tableRow(row *mdast.Node, columns int) (string, []Run, []string) {
	var b runBuilder
	cells := make([]string, 0, columns)
	for cell := row.FirstChild; cell != nil; cell = cell.Next {
		if len(cells) > 0 {
			b.text.WriteString(" | ")
		}
		from := b.text.Len()
		for _, lf := range collect(cell) {
			b.add(lf)
		}
		cells = append(cells, b.text.String()[from:])
	}
	for len(cells) < columns {
		if len(cells) > 0 {
			b.text.WriteString(" | ")
		}
		cells = append(cells, "")
	}
	return b.text.String(), b.runs, cells
}

func separatorText(aligns []mdast.Alignment) string {
	parts := make([]string, len(aligns))
	for i, a := range aligns {
		switch a {
		case mdast.AlignLeft:
			parts[i] = ":--"
		case mdast.AlignCenter:
			parts[i] = ":-:"
		case mdast.AlignRight:
			parts[i] = "--:"
		default:
			parts[i] = "---"
		}
	}
	return strings.Join(parts, " | ")
}
