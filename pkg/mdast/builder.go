package mdast

// NewNode returns a detached node of the given kind with an empty span.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewNodeAt returns a detached node of the given kind covering span.
func NewNodeAt(kind NodeKind, span Span) *Node {
	return &Node{Kind: kind, Span: span}
}

// NewText returns a Text node holding literal, sourced from span.
func NewText(literal []byte, span Span) *Node {
	node := NewNodeAt(NodeText, span)
	node.Inline = NewInlineAttrs().WithText(literal)
	return node
}

// NewDocument returns an empty document root.
func NewDocument() *Node {
	return NewNode(NodeDocument)
}

// AppendChild makes child the last child of parent, detaching it from
// any previous parent first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	link(parent, parent.LastChild, nil, child)
}

// InsertAfter places n directly after sibling under the same parent.
// A sibling without a parent is left untouched.
func InsertAfter(sibling, n *Node) {
	if sibling == nil || n == nil || sibling.Parent == nil {
		return
	}
	link(sibling.Parent, sibling, sibling.Next, n)
}

// RemoveChild detaches child from parent. It is a no-op when child
// belongs to another parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}
	unlink(child)
}

// ReplaceChild puts replacement where old sits under parent and detaches old.
func ReplaceChild(parent, old, replacement *Node) {
	if parent == nil || old == nil || replacement == nil || old == replacement || old.Parent != parent {
		return
	}
	link(parent, old, old.Next, replacement)
	unlink(old)
}

// link splices n between prev and next, which must be adjacent children
// of parent (nil standing for the list ends).
func link(parent, prev, next, n *Node) {
	if n.Parent != nil {
		if n == prev {
			prev = n.Prev
		}
		if n == next {
			next = n.Next
		}
		unlink(n)
	}
	n.Parent, n.Prev, n.Next = parent, prev, next
	if prev != nil {
		prev.Next = n
	} else {
		parent.FirstChild = n
	}
	if next != nil {
		next.Prev = n
	} else {
		parent.LastChild = n
	}
}

func unlink(n *Node) {
	parent := n.Parent
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else {
		parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else {
		parent.LastChild = n.Prev
	}
	n.Parent, n.Prev, n.Next = nil, nil, nil
}
