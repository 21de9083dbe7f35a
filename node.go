package arbor

import (
	"fmt"
	"strings"
)

// Escape tokens written in place of literal parentheses in terminal labels.
const (
	LeftParenToken  = "-LRB-"
	RightParenToken = "-RRB-"
)

// NoneLabel labels the placeholder terminal given to empty markup elements.
const NoneLabel = "-NONE-"

// HeadMark is the tri-state head flag set by head annotation.
type HeadMark int

const (
	// HeadUnset means no annotation pass has labeled this node.
	HeadUnset HeadMark = iota

	// HeadTrue marks the head child of its parent.
	HeadTrue

	// HeadFalse marks a non-head child.
	HeadFalse
)

// Node is a node in a rooted ordered tree. The children slice is the only
// owner of a node; parent is a back-reference used for upward walks.
type Node struct {
	label    string
	children []*Node

	// length is the number of terminals below this node (1 for a terminal).
	// It is adjusted incrementally by every structural edit.
	length int

	parent *Node
	order  int // index within parent.children

	head HeadMark
}

// New creates a node owning the given children. A node without children is a
// terminal of length 1. The children must not have a parent.
func New(label string, children ...*Node) *Node {
	n := &Node{label: label}
	if len(children) == 0 {
		n.length = 1
		return n
	}
	n.children = make([]*Node, len(children))
	for i, c := range children {
		c.parent = n
		c.order = i
		n.children[i] = c
		n.length += c.length
	}
	return n
}

// Label returns the node's label.
func (n *Node) Label() string {
	return n.label
}

// SetLabel replaces the node's label.
func (n *Node) SetLabel(label string) {
	n.label = label
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the i-th child.
func (n *Node) Child(i int) (*Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, ErrInvalidIndex
	}
	return n.children[i], nil
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Len returns the number of terminals dominated by the node.
func (n *Node) Len() int {
	return n.length
}

// Parent returns the parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Order returns the node's index within its parent's children.
func (n *Node) Order() int {
	return n.order
}

// Root walks up to the root of the tree containing n.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// IsTerminal reports whether the node has no children.
func (n *Node) IsTerminal() bool {
	return len(n.children) == 0
}

// IsPreterminal reports whether the node has exactly one child and that child
// is a terminal.
func (n *Node) IsPreterminal() bool {
	return len(n.children) == 1 && n.children[0].IsTerminal()
}

// Head returns the head flag and whether it has been set.
func (n *Node) Head() (value, ok bool) {
	return n.head == HeadTrue, n.head != HeadUnset
}

// SetHead sets the head flag.
func (n *Node) SetHead(value bool) {
	if value {
		n.head = HeadTrue
	} else {
		n.head = HeadFalse
	}
}

// ClearHead removes the head flag.
func (n *Node) ClearHead() {
	n.head = HeadUnset
}

// ClearHeads removes the head flag from n and every descendant.
func (n *Node) ClearHeads() {
	for d := range n.Traversal() {
		d.head = HeadUnset
	}
}

// String renders the subtree in bracket notation. Parentheses inside terminal
// labels are written as LeftParenToken and RightParenToken.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if len(n.children) == 0 {
		s := strings.ReplaceAll(n.label, "(", LeftParenToken)
		sb.WriteString(strings.ReplaceAll(s, ")", RightParenToken))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.label)
	for _, c := range n.children {
		sb.WriteByte(' ')
		c.writeTo(sb)
	}
	sb.WriteByte(')')
}

// Clone returns a deep copy of the subtree, detached from any parent.
// Head flags are copied.
func (n *Node) Clone() *Node {
	if len(n.children) == 0 {
		return &Node{label: n.label, length: 1, head: n.head}
	}
	children := make([]*Node, len(n.children))
	for i, c := range n.children {
		children[i] = c.Clone()
	}
	clone := New(n.label, children...)
	clone.head = n.head
	return clone
}

// Equal reports whether two subtrees have the same labels and shape.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.label != other.label || len(n.children) != len(other.children) {
		return false
	}
	for i := range n.children {
		if !n.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Validate checks the parent, order and length bookkeeping of the subtree.
func (n *Node) Validate() error {
	for d := range n.BottomUp() {
		if len(d.children) == 0 {
			if d.length != 1 {
				return fmt.Errorf("%w: terminal %q has length %d", ErrInternal, d.label, d.length)
			}
			continue
		}
		sum := 0
		for i, c := range d.children {
			if c.parent != d {
				return fmt.Errorf("%w: child %d of %q has wrong parent", ErrInternal, i, d.label)
			}
			if c.order != i {
				return fmt.Errorf("%w: child %d of %q has order %d", ErrInternal, i, d.label, c.order)
			}
			sum += c.length
		}
		if d.length != sum {
			return fmt.Errorf("%w: %q has length %d, children sum to %d", ErrInternal, d.label, d.length, sum)
		}
	}
	return nil
}
