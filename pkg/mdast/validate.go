package mdast

import "fmt"

// InvariantError reports an element whose span breaks the tree invariants.
// It signals a parser defect, never a property of the input text.
type InvariantError struct {
	// Node is the offending element.
	Node *Node

	// Parent is the element the node was checked against, if any.
	Parent *Node

	// Reason describes the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Parent != nil {
		return fmt.Sprintf("%s %v in %s %v: %s", e.Node.Kind, e.Node.Span, e.Parent.Kind, e.Parent.Span, e.Reason)
	}
	return fmt.Sprintf("%s %v: %s", e.Node.Kind, e.Node.Span, e.Reason)
}

// Validate checks span invariants for the subtree rooted at root:
//   - every span is well formed and lies within [0, sourceLen]
//   - every child span lies inside its parent span
//   - sibling spans do not overlap and increase in document order
//
// Returns the first violation found, or nil.
func Validate(root *Node, sourceLen int) error {
	if root == nil {
		return nil
	}
	return validateNode(root, sourceLen)
}

func validateNode(node *Node, sourceLen int) error {
	if node.Span.Start < 0 || node.Span.End > sourceLen || node.Span.Start > node.Span.End {
		return &InvariantError{Node: node, Reason: "span outside source"}
	}

	var prev *Node
	for child := node.FirstChild; child != nil; child = child.Next {
		if child.Parent != node {
			return &InvariantError{Node: child, Parent: node, Reason: "broken parent link"}
		}
		if !node.Span.Encloses(child.Span) {
			return &InvariantError{Node: child, Parent: node, Reason: "span escapes parent"}
		}
		if prev != nil && child.Span.Start < prev.Span.End {
			return &InvariantError{Node: child, Parent: node, Reason: "overlaps previous sibling"}
		}
		if err := validateNode(child, sourceLen); err != nil {
			return err
		}
		prev = child
	}

	return nil
}

// ValidateDocument validates the whole tree of doc.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return nil
	}
	return Validate(doc.Root, len(doc.Source))
}
