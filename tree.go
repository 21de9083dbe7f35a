package arbor

import "iter"

// BottomUp returns a post-order sequence: every descendant is yielded before
// its ancestor, and n is yielded last.
func (n *Node) BottomUp() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.bottomUp(yield)
	}
}

func (n *Node) bottomUp(yield func(*Node) bool) bool {
	for _, c := range n.children {
		if !c.bottomUp(yield) {
			return false
		}
	}
	return yield(n)
}

// Traversal returns a pre-order sequence starting with n.
func (n *Node) Traversal() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.preOrder(yield)
	}
}

func (n *Node) preOrder(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !c.preOrder(yield) {
			return false
		}
	}
	return true
}

// Frontier returns the terminals under n, left to right.
func (n *Node) Frontier() []*Node {
	out := make([]*Node, 0, n.length)
	return n.appendFrontier(out)
}

func (n *Node) appendFrontier(out []*Node) []*Node {
	if len(n.children) == 0 {
		return append(out, n)
	}
	for _, c := range n.children {
		out = c.appendFrontier(out)
	}
	return out
}

// PretFrontier returns the frontier one level up: preterminals stand in for
// their terminal. Terminals reached directly below a branching node are kept.
func (n *Node) PretFrontier() []*Node {
	out := make([]*Node, 0, n.length)
	return n.appendPretFrontier(out)
}

func (n *Node) appendPretFrontier(out []*Node) []*Node {
	if len(n.children) == 0 || n.IsPreterminal() {
		return append(out, n)
	}
	for _, c := range n.children {
		out = c.appendPretFrontier(out)
	}
	return out
}

// Tags returns the labels of the preterminal frontier.
func (n *Node) Tags() []string {
	return labels(n.PretFrontier())
}

// Words returns the labels of the terminal frontier.
func (n *Node) Words() []string {
	return labels(n.Frontier())
}

func labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, node := range nodes {
		out[i] = node.label
	}
	return out
}

// Descendant follows addr down from n. An empty address yields n.
func (n *Node) Descendant(addr Address) (*Node, error) {
	cur := n
	for _, i := range addr {
		if i < 0 || i >= len(cur.children) {
			return nil, ErrInvalidAddress
		}
		cur = cur.children[i]
	}
	return cur, nil
}

// Address returns the path from the root of n's tree down to n.
func (n *Node) Address() Address {
	depth := 0
	for p := n; p.parent != nil; p = p.parent {
		depth++
	}
	addr := make(Address, depth)
	for p := n; p.parent != nil; p = p.parent {
		depth--
		addr[depth] = p.order
	}
	return addr
}

// Span returns the terminal interval covered by n, measured from the root of
// its tree. It walks up, summing the lengths of left siblings at every level.
func (n *Node) Span() Span {
	start := 0
	for p := n; p.parent != nil; p = p.parent {
		for _, sister := range p.parent.children[:p.order] {
			start += sister.length
		}
	}
	return Span{Start: start, End: start + n.length}
}

// Spans maps every span covered by a nonterminal under n (including n) to the
// labels of the nodes covering exactly that span, in pre-order. Offsets are
// relative to n. Terminals are not included.
func (n *Node) Spans() map[Span][]string {
	s := make(map[Span][]string)
	n.collectSpans(0, s)
	return s
}

func (n *Node) collectSpans(i int, s map[Span][]string) {
	if len(n.children) == 0 {
		return
	}
	key := Span{Start: i, End: i + n.length}
	s[key] = append(s[key], n.label)
	for _, c := range n.children {
		c.collectSpans(i, s)
		i += c.length
	}
}
