package mdast

// WalkStatus tells Walk how to continue after a visit.
type WalkStatus int

const (
	// WalkContinue descends into the node's children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren moves on without visiting the node's children.
	// The leave visit for the node still happens.
	WalkSkipChildren
	// WalkStop ends the traversal immediately.
	WalkStop
)

// Visitor is called twice per node: once on entering (before its
// children) and once on leaving (after them). The status returned when
// leaving is only consulted for WalkStop.
type Visitor func(n *Node, entering bool) WalkStatus

// Walk traverses the subtree rooted at root in document order.
// It reports false if a visitor stopped the traversal.
func Walk(root *Node, visit Visitor) bool {
	if root == nil {
		return true
	}
	return walk(root, visit) != WalkStop
}

func walk(n *Node, visit Visitor) WalkStatus {
	status := visit(n, true)
	if status == WalkStop {
		return WalkStop
	}
	if status != WalkSkipChildren {
		for child := n.FirstChild; child != nil; {
			// Read Next first so the visitor may detach child.
			next := child.Next
			if walk(child, visit) == WalkStop {
				return WalkStop
			}
			child = next
		}
	}
	if visit(n, false) == WalkStop {
		return WalkStop
	}
	return WalkContinue
}

// Innermost returns the deepest node under root whose span contains
// offset, or nil when root itself does not. Among siblings the first
// match wins, so a boundary offset resolves to the earlier element.
func Innermost(root *Node, offset int) *Node {
	if root == nil || !root.Span.Contains(offset) {
		return nil
	}
	var found *Node
	Walk(root, func(n *Node, entering bool) WalkStatus {
		if !entering {
			// Leaving a match means no child claimed offset.
			if n == found {
				return WalkStop
			}
			return WalkContinue
		}
		if !n.Span.Contains(offset) {
			return WalkSkipChildren
		}
		found = n
		return WalkContinue
	})
	return found
}
