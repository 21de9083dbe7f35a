package arbor

// adjustLength adds delta to the length of n and every ancestor.
func (n *Node) adjustLength(delta int) {
	for p := n; p != nil; p = p.parent {
		p.length += delta
	}
}

// renumber resets the order of every child from index i onward.
func (n *Node) renumber(i int) {
	for j := i; j < len(n.children); j++ {
		n.children[j].order = j
	}
}

// InsertChild inserts child at position i (0 <= i <= NumChildren()).
// The child must be a root: a freshly built node or one that was detached.
func (n *Node) InsertChild(i int, child *Node) error {
	if i < 0 || i > len(n.children) {
		return ErrInvalidIndex
	}
	if child.parent != nil {
		return ErrAttached
	}
	if n.IsDominatedBy(child) {
		return ErrCycle
	}

	wasTerminal := len(n.children) == 0

	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
	n.renumber(i)

	if wasTerminal {
		// n stops counting as a one-terminal leaf
		n.adjustLength(child.length - 1)
	} else {
		n.adjustLength(child.length)
	}
	return nil
}

// AppendChild adds child after the last existing child.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertChild(len(n.children), child)
}

// DeleteChild removes and returns the i-th child. The removed child becomes the
// root of its own tree. Removing the last child turns n back into a terminal of
// length 1.
func (n *Node) DeleteChild(i int) (*Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, ErrInvalidIndex
	}
	removed := n.children[i]

	delta := -removed.length
	if len(n.children) == 1 {
		delta++
	}
	n.adjustLength(delta)

	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	n.renumber(i)

	removed.parent = nil
	removed.order = 0
	return removed, nil
}

// Detach removes n from its parent. It is a no-op on a root.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	// order is always valid for an attached node
	_, _ = n.parent.DeleteChild(n.order)
}

// DeleteClean detaches n and every ancestor that would be left without
// children. It returns ErrTreeDeleted, leaving the tree untouched, when that
// would remove the root.
func (n *Node) DeleteClean() error {
	top := n
	for top.parent != nil && len(top.parent.children) == 1 {
		top = top.parent
	}
	if top.parent == nil {
		return ErrTreeDeleted
	}
	for cur := n; ; {
		parent := cur.parent
		cur.Detach()
		if cur == top {
			return nil
		}
		cur = parent
	}
}
