package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdpreview/pkg/render"
)

// Table formatting constants.
const (
	tablePadding   = 2
	tableColumns   = 5 // ROW, KIND, ROLE, SPAN, TEXT
	minTextWidth   = 20
	heavySeparator = "="
	lightSeparator = "-"
)

// TableRow is one line of the row table.
type TableRow struct {
	Row  string
	Kind string
	Role string
	Span string
	Text string
}

// NewTableRow describes a render row. The text shows the container marker
// and table cells the way a painter would.
func NewTableRow(node *render.RenderNode) TableRow {
	text := node.Text
	if len(node.Cells) > 0 {
		text = strings.Join(node.Cells, " | ")
	}
	return TableRow{
		Row:  strconv.Itoa(node.Row),
		Kind: node.Kind.String(),
		Role: node.Role.String(),
		Span: fmt.Sprintf("%d-%d", node.Span.Start, node.Span.End),
		Text: node.Marker + text,
	}
}

// TableFormatter prints render rows as an aligned table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a table formatter for termWidth columns.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	row, kind, role, span, text int
}

// FormatRows formats the rows of one file.
func (t *TableFormatter) FormatRows(nodes []render.RenderNode) string {
	rows := make([]TableRow, 0, len(nodes))
	for i := range nodes {
		rows = append(rows, NewTableRow(&nodes[i]))
	}

	widths := t.columnWidths(rows)

	var b strings.Builder
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %s",
		widths.row, "ROW",
		widths.kind, "KIND",
		widths.role, "ROLE",
		widths.span, "SPAN",
		"TEXT")
	b.WriteString(t.styles.TableHead.Render(header))
	b.WriteString("\n")
	b.WriteString(t.separator(widths, heavySeparator))
	b.WriteString("\n")

	for _, row := range rows {
		fmt.Fprintf(&b, " %*s  %-*s  %-*s  %s  %s\n",
			widths.row, row.Row,
			widths.kind, row.Kind,
			widths.role, t.styles.Dim.Render(fmt.Sprintf("%-*s", widths.role, row.Role)),
			t.styles.Location.Render(fmt.Sprintf("%-*s", widths.span, row.Span)),
			truncateString(row.Text, widths.text))
	}

	b.WriteString(t.separator(widths, lightSeparator))
	b.WriteString("\n")
	return b.String()
}

func (t *TableFormatter) columnWidths(rows []TableRow) columnWidths {
	w := columnWidths{row: len("ROW"), kind: len("KIND"), role: len("ROLE"), span: len("SPAN")}
	for _, r := range rows {
		w.row = max(w.row, len(r.Row))
		w.kind = max(w.kind, len(r.Kind))
		w.role = max(w.role, len(r.Role))
		w.span = max(w.span, len(r.Span))
	}
	fixed := w.row + w.kind + w.role + w.span + tablePadding*tableColumns
	w.text = max(t.termWidth-fixed, minTextWidth)
	return w
}

func (t *TableFormatter) separator(w columnWidths, char string) string {
	total := w.row + w.kind + w.role + w.span + w.text + tablePadding*tableColumns
	return t.styles.Divider.Render(strings.Repeat(char, min(total, t.termWidth)))
}

// truncateString shortens str to maxLen bytes, ending in "..." when cut.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// TruncatePath shortens a path to maxLen bytes, keeping the file name end.
func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
