package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// Item holds list item attributes for NodeListItem.
	Item *ListItemAttrs

	// CodeBlock holds code block attributes for NodeCodeBlock.
	CodeBlock *CodeBlockAttrs

	// Table holds table attributes for NodeTable, NodeTableRow and NodeTableCell.
	Table *TableAttrs
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// BulletMarker is the bullet character used ("-", "+", "*").
	BulletMarker string

	// StartNumber is the starting number for ordered lists.
	StartNumber int

	// Delimiter is the delimiter for ordered lists ("." or ")").
	Delimiter string

	// Level is the nesting depth; top-level lists have level 1.
	Level int

	// Tight is true if no blank line separates the items.
	Tight bool
}

// TaskState is the state of a task-list checkbox.
type TaskState uint8

const (
	// TaskNone means the item has no checkbox.
	TaskNone TaskState = iota

	// TaskOpen is an unchecked "[ ]" box.
	TaskOpen

	// TaskDone is a checked "[x]" box.
	TaskDone
)

// ListItemAttrs holds attributes for list item nodes.
type ListItemAttrs struct {
	// Marker is the literal marker text ("-", "3.", "2)").
	Marker string

	// Number is the item number for ordered lists.
	Number int

	// Task is the checkbox state.
	Task TaskState
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	// FenceChar is the fence character ('`' or '~').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the full info string.
	Info string

	// Language is the first word of the info string.
	Language string

	// Content is the raw code with fence lines removed.
	Content []byte

	// Lines holds the source span of each content line, container
	// prefixes excluded.
	Lines []Span

	// Closed is false when the fence ran to the end of its container.
	Closed bool
}

// Alignment is a table column alignment.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// TableAttrs holds table attributes.
type TableAttrs struct {
	// Alignments holds one entry per column (NodeTable only).
	Alignments []Alignment

	// Header is true for the header row (NodeTableRow only).
	Header bool

	// Delimiter is the source span of the separator row (NodeTable only).
	Delimiter Span

	// Align is the cell alignment (NodeTableCell only).
	Align Alignment
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Text holds the literal content for NodeText and NodeCodeSpan.
	Text []byte

	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs

	// Delimiter is the emphasis delimiter character ('*' or '_').
	Delimiter byte
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL.
	Destination string

	// Title is the optional link title.
	Title string

	// Alt is the image alternative text (NodeImage only).
	Alt string

	// Autolink is true for <url> and bare URL links.
	Autolink bool
}

// NewBlockAttrs creates a new BlockAttrs with default values.
func NewBlockAttrs() *BlockAttrs {
	return &BlockAttrs{}
}

// NewInlineAttrs creates a new InlineAttrs with default values.
func NewInlineAttrs() *InlineAttrs {
	return &InlineAttrs{}
}

// WithHeadingLevel sets the heading level and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithHeadingLevel(level int) *BlockAttrs {
	a.HeadingLevel = level
	return a
}

// WithList sets list attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithList(attrs *ListAttrs) *BlockAttrs {
	a.List = attrs
	return a
}

// WithItem sets list item attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithItem(attrs *ListItemAttrs) *BlockAttrs {
	a.Item = attrs
	return a
}

// WithCodeBlock sets code block attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithCodeBlock(attrs *CodeBlockAttrs) *BlockAttrs {
	a.CodeBlock = attrs
	return a
}

// WithTable sets table attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithTable(attrs *TableAttrs) *BlockAttrs {
	a.Table = attrs
	return a
}

// WithText sets the text content and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithText(text []byte) *InlineAttrs {
	a.Text = text
	return a
}

// WithLink sets link attributes and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithLink(attrs *LinkAttrs) *InlineAttrs {
	a.Link = attrs
	return a
}

// WithDelimiter sets the emphasis delimiter and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithDelimiter(delim byte) *InlineAttrs {
	a.Delimiter = delim
	return a
}
