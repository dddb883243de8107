package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/render"
)

const (
	columnGap     = " │ "
	minColumn     = 10
	gutterPadding = 1
)

// SideBySide lays the source of doc out next to its painted rows. Each row
// sits on the line where it starts in the source, so the two columns line
// up the way a synchronized editor and preview would.
func (p *Painter) SideBySide(doc *mdast.Document, nodes []render.RenderNode) string {
	lineCount := doc.LineCount()
	gutter := len(fmt.Sprint(lineCount)) + gutterPadding

	total := p.width
	if total <= 0 {
		total = defaultTermWidth
	}
	column := max((total-gutter-lipgloss.Width(columnGap))/2, minColumn)

	rowsAt := make(map[int][]string, len(nodes))
	for i := range nodes {
		line, _ := doc.LineAt(nodes[i].Span.Start)
		rowsAt[line] = append(rowsAt[line], p.paintClipped(&nodes[i], column))
	}

	clip := lipgloss.NewStyle().MaxWidth(column)
	var b strings.Builder
	for line := 1; line <= lineCount; line++ {
		src := strings.TrimRight(string(doc.LineContent(line)), "\r")
		rows := rowsAt[line]
		if len(rows) == 0 {
			rows = []string{""}
		}
		for i, row := range rows {
			num := ""
			if i == 0 {
				num = fmt.Sprint(line)
			} else {
				src = ""
			}
			b.WriteString(p.styles.Gutter.Render(fmt.Sprintf("%*s ", gutter-gutterPadding, num)))
			left := clip.Render(src)
			b.WriteString(left + strings.Repeat(" ", max(column-lipgloss.Width(left), 0)))
			b.WriteString(p.styles.Divider.Render(columnGap))
			b.WriteString(strings.TrimRight(row, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (p *Painter) paintClipped(node *render.RenderNode, width int) string {
	clipped := &Painter{styles: p.styles, width: width}
	return clipped.PaintRow(node)
}
