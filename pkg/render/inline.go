package render

import (
	"strings"

	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// leaf is a text-bearing inline with the styles of its ancestors.
type leaf struct {
	node  *mdast.Node
	style Style
	dest  string
}

// styleFrame is the style in effect inside an inline container.
type styleFrame struct {
	style Style
	dest  string
}

// collect returns the leaves under n in document order. Styles stack on
// the way into Strong, Emphasis, Link and Image and unwind on the way out.
func collect(n *mdast.Node) []leaf {
	var out []leaf
	stack := []styleFrame{{}}
	mdast.Walk(n, func(node *mdast.Node, entering bool) mdast.WalkStatus {
		top := stack[len(stack)-1]
		switch node.Kind {
		case mdast.NodeText, mdast.NodeSoftBreak, mdast.NodeHardBreak, mdast.NodeCodeSpan:
			if entering {
				out = append(out, leaf{node: node, style: top.style | leafStyle(node), dest: top.dest})
			}
			return mdast.WalkSkipChildren
		default:
		}
		if !entering {
			stack = stack[:len(stack)-1]
			return mdast.WalkContinue
		}
		next := top
		switch node.Kind {
		case mdast.NodeStrong:
			next.style |= StyleStrong
		case mdast.NodeEmphasis:
			next.style |= StyleEmphasis
		case mdast.NodeLink:
			next = styleFrame{style: top.style | StyleLink, dest: destination(node)}
		case mdast.NodeImage:
			next = styleFrame{style: top.style | StyleImage, dest: destination(node)}
		default:
		}
		stack = append(stack, next)
		return mdast.WalkContinue
	})
	return out
}

func leafStyle(n *mdast.Node) Style {
	if n.Kind == mdast.NodeCodeSpan {
		return StyleCode
	}
	return 0
}

func destination(n *mdast.Node) string {
	if n.Inline == nil || n.Inline.Link == nil {
		return ""
	}
	return n.Inline.Link.Destination
}

// runBuilder accumulates row text and merges adjacent runs of equal style.
type runBuilder struct {
	text strings.Builder
	runs []Run
}

func (b *runBuilder) add(lf leaf) {
	var s string
	switch lf.node.Kind {
	case mdast.NodeSoftBreak, mdast.NodeHardBreak:
		s = " "
	default:
		if lf.node.Inline != nil {
			s = string(lf.node.Inline.Text)
		}
	}
	if s == "" {
		return
	}

	start := b.text.Len()
	b.text.WriteString(s)
	if lf.style == 0 {
		return
	}

	if n := len(b.runs); n > 0 {
		last := &b.runs[n-1]
		if last.End == start && last.Style == lf.style && last.Destination == lf.dest {
			last.End = b.text.Len()
			return
		}
	}
	b.runs = append(b.runs, Run{Start: start, End: b.text.Len(), Style: lf.style, Destination: lf.dest})
}
