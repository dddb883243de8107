package mdast_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/mdpreview/pkg/mdast"
)

// sampleTree mirrors the shape parsed from
//
//	# Hi
//
//	see *this*
func sampleTree() *mdast.Node {
	doc := mdast.NewNodeAt(mdast.NodeDocument, mdast.NewSpan(0, 16))

	heading := mdast.NewNodeAt(mdast.NodeHeading, mdast.NewSpan(0, 4))
	mdast.AppendChild(heading, mdast.NewText([]byte("Hi"), mdast.NewSpan(2, 4)))
	mdast.AppendChild(doc, heading)

	para := mdast.NewNodeAt(mdast.NodeParagraph, mdast.NewSpan(6, 16))
	mdast.AppendChild(para, mdast.NewText([]byte("see "), mdast.NewSpan(6, 10)))
	emph := mdast.NewNodeAt(mdast.NodeEmphasis, mdast.NewSpan(10, 16))
	mdast.AppendChild(emph, mdast.NewText([]byte("this"), mdast.NewSpan(11, 15)))
	mdast.AppendChild(para, emph)
	mdast.AppendChild(doc, para)

	return doc
}

func trace(root *mdast.Node, decide func(*mdast.Node, bool) mdast.WalkStatus) (string, bool) {
	var steps []string
	done := mdast.Walk(root, func(n *mdast.Node, entering bool) mdast.WalkStatus {
		mark := "-"
		if entering {
			mark = "+"
		}
		steps = append(steps, mark+n.Kind.String())
		if decide == nil {
			return mdast.WalkContinue
		}
		return decide(n, entering)
	})
	return strings.Join(steps, " "), done
}

func TestWalk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		decide func(*mdast.Node, bool) mdast.WalkStatus
		want   string
		done   bool
	}{
		{
			name: "enter and leave in document order",
			want: "+Document +Heading +Text -Text -Heading +Paragraph +Text -Text " +
				"+Emphasis +Text -Text -Emphasis -Paragraph -Document",
			done: true,
		},
		{
			name: "skipped children still get a leave visit",
			decide: func(n *mdast.Node, entering bool) mdast.WalkStatus {
				if entering && n.Kind == mdast.NodeParagraph {
					return mdast.WalkSkipChildren
				}
				return mdast.WalkContinue
			},
			want: "+Document +Heading +Text -Text -Heading +Paragraph -Paragraph -Document",
			done: true,
		},
		{
			name: "stop on enter",
			decide: func(n *mdast.Node, entering bool) mdast.WalkStatus {
				if entering && n.Kind == mdast.NodeEmphasis {
					return mdast.WalkStop
				}
				return mdast.WalkContinue
			},
			want: "+Document +Heading +Text -Text -Heading +Paragraph +Text -Text +Emphasis",
		},
		{
			name: "stop on leave",
			decide: func(n *mdast.Node, entering bool) mdast.WalkStatus {
				if !entering && n.Kind == mdast.NodeHeading {
					return mdast.WalkStop
				}
				return mdast.WalkContinue
			},
			want: "+Document +Heading +Text -Text -Heading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, done := trace(sampleTree(), tt.decide)
			if got != tt.want {
				t.Errorf("steps:\n got %s\nwant %s", got, tt.want)
			}
			if done != tt.done {
				t.Errorf("Walk returned %v, want %v", done, tt.done)
			}
		})
	}
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	called := false
	done := mdast.Walk(nil, func(*mdast.Node, bool) mdast.WalkStatus {
		called = true
		return mdast.WalkContinue
	})

	if called || !done {
		t.Errorf("nil root: called=%v done=%v", called, done)
	}
}

func TestWalk_VisitorMayDetachChild(t *testing.T) {
	t.Parallel()

	doc := sampleTree()
	_, _ = trace(doc, func(n *mdast.Node, entering bool) mdast.WalkStatus {
		if entering && n.Kind == mdast.NodeHeading {
			mdast.RemoveChild(doc, n)
			return mdast.WalkSkipChildren
		}
		return mdast.WalkContinue
	})

	if doc.ChildCount() != 1 || doc.FirstChild.Kind != mdast.NodeParagraph {
		t.Fatalf("expected only the paragraph to remain, got %d children", doc.ChildCount())
	}
	if got := doc.Literal(); got != "see this" {
		t.Errorf("literal after detach: %q", got)
	}
}

func TestInnermost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset int
		want   string
	}{
		{offset: 0, want: "Heading"},
		{offset: 3, want: "Text"},
		{offset: 5, want: "Document"},
		{offset: 7, want: "Text"},
		{offset: 10, want: "Emphasis"},
		{offset: 12, want: "Text"},
		{offset: 15, want: "Emphasis"},
		{offset: 16, want: ""},
		{offset: -1, want: ""},
	}

	doc := sampleTree()
	for _, tt := range tests {
		got := mdast.Innermost(doc, tt.offset)
		name := ""
		if got != nil {
			name = got.Kind.String()
		}
		if name != tt.want {
			t.Errorf("Innermost(%d) = %q, want %q", tt.offset, name, tt.want)
		}
	}

	if mdast.Innermost(nil, 0) != nil {
		t.Error("expected nil for nil root")
	}
}
