package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdpreview/pkg/mdast"
	"github.com/yaklabco/mdpreview/pkg/render"
)

const (
	fenceMarker  = "```"
	ruleRune     = "─"
	cellJoin     = " │ "
	minRuleWidth = 3
)

// Painter turns render rows into terminal lines.
type Painter struct {
	styles *Styles
	width  int
}

// NewPainter creates a painter that clips lines to width columns.
// A width of zero or less disables clipping.
func NewPainter(styles *Styles, width int) *Painter {
	return &Painter{styles: styles, width: width}
}

// Paint returns one terminal line per row.
func (p *Painter) Paint(nodes []render.RenderNode) []string {
	lines := make([]string, 0, len(nodes))
	for i := range nodes {
		lines = append(lines, p.PaintRow(&nodes[i]))
	}
	return lines
}

// PaintRow paints a single row: its container marker followed by the body.
func (p *Painter) PaintRow(node *render.RenderNode) string {
	line := p.styles.Marker.Render(node.Marker) + p.body(node, p.width-lipgloss.Width(node.Marker))
	if p.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(p.width).Render(line)
	}
	return line
}

func (p *Painter) body(node *render.RenderNode, room int) string {
	switch node.Kind {
	case mdast.NodeHeading:
		level := 1
		if node.Element != nil && node.Element.Block != nil && node.Element.Block.HeadingLevel > 0 {
			level = node.Element.Block.HeadingLevel
		}
		style := p.styles.Heading
		if level == 1 {
			style = p.styles.Heading1
		}
		return p.styles.Dim.Render(strings.Repeat("#", level)+" ") + p.runs(node, style)

	case mdast.NodeCodeBlock:
		switch node.Role {
		case render.RoleFenceOpen:
			label := fenceMarker + node.Text
			if node.Text == "" && node.Language != "" {
				return p.styles.Fence.Render(label) + p.styles.Dim.Render(" ("+node.Language+")")
			}
			return p.styles.Fence.Render(label)
		case render.RoleFenceClose:
			return p.styles.Fence.Render(fenceMarker)
		default:
			return p.styles.CodeLine.Render(node.Text)
		}

	case mdast.NodeTable:
		switch node.Role {
		case render.RoleTableHeader:
			return p.styles.TableHead.Render(strings.Join(node.Cells, cellJoin))
		case render.RoleTableSeparator:
			return p.styles.TableRule.Render(node.Text)
		default:
			return strings.Join(node.Cells, cellJoin)
		}

	case mdast.NodeThematicBreak:
		return p.styles.Rule.Render(strings.Repeat(ruleRune, max(room, minRuleWidth)))

	case mdast.NodeListItem, mdast.NodeBlockquote:
		return ""

	default:
		if strings.Contains(node.Marker, ">") {
			return p.runs(node, p.styles.Quote)
		}
		return p.runs(node, lipgloss.NewStyle())
	}
}

// runs paints node.Text with its inline styles layered over base.
func (p *Painter) runs(node *render.RenderNode, base lipgloss.Style) string {
	if len(node.Runs) == 0 {
		return base.Render(node.Text)
	}

	var b strings.Builder
	pos := 0
	for _, run := range node.Runs {
		if run.Start > pos {
			b.WriteString(base.Render(node.Text[pos:run.Start]))
		}
		b.WriteString(p.runStyle(run.Style).Inherit(base).Render(node.Text[run.Start:run.End]))
		pos = run.End
	}
	if pos < len(node.Text) {
		b.WriteString(base.Render(node.Text[pos:]))
	}
	return b.String()
}

func (p *Painter) runStyle(style render.Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if style.Has(render.StyleStrong) {
		s = s.Inherit(p.styles.Strong)
	}
	if style.Has(render.StyleEmphasis) {
		s = s.Inherit(p.styles.Emphasis)
	}
	if style.Has(render.StyleCode) {
		s = s.Inherit(p.styles.Code)
	}
	if style.Has(render.StyleLink) {
		s = s.Inherit(p.styles.Link)
	}
	if style.Has(render.StyleImage) {
		s = s.Inherit(p.styles.Image)
	}
	return s
}
