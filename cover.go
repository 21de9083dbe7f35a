package arbor

import "fmt"

// IsDominatedBy reports whether other is n or one of n's ancestors.
func (n *Node) IsDominatedBy(other *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// Dominates reports whether every node in nodes is dominated by n.
// It is vacuously true for no nodes.
func (n *Node) Dominates(nodes ...*Node) bool {
	for _, node := range nodes {
		if !node.IsDominatedBy(n) {
			return false
		}
	}
	return true
}

// Cover returns the lowest node dominating all of nodes. It returns nil when
// nodes is empty or when the nodes do not share a root.
func Cover(nodes ...*Node) *Node {
	if len(nodes) == 0 {
		return nil
	}
	work := make([]*Node, len(nodes))
	copy(work, nodes)

	// Raise the head of the list until it dominates the next node, then drop
	// that node. What is left once the list is a single node covers them all.
	for len(work) > 1 {
		if work[0].Dominates(work[1]) {
			work = append(work[:1], work[2:]...)
			continue
		}
		if work[0].parent == nil {
			return nil
		}
		work[0] = work[0].parent
	}
	return work[0]
}

// Fill returns the fewest nodes under n whose spans exactly tile the terminal
// interval [i, j) of n's frontier, left to right. Nodes above n are never
// returned.
func (n *Node) Fill(i, j int) ([]*Node, error) {
	return fillSpan(n.Frontier(), i, j, n)
}

// FillSpan is Fill over an explicit frontier, as returned by Frontier on some
// node. Nodes may be taken from anywhere in the tree as long as their spans
// stay within the frontier.
func FillSpan(frontier []*Node, i, j int) ([]*Node, error) {
	return fillSpan(frontier, i, j, nil)
}

func fillSpan(frontier []*Node, i, j int, ceiling *Node) ([]*Node, error) {
	if i < 0 || j > len(frontier) || i > j {
		return nil, fmt.Errorf("%w: [%d,%d) over %d terminals", ErrInvalidSpan, i, j, len(frontier))
	}
	result := []*Node{}
	if i == j {
		return result, nil
	}

	root := frontier[0].Root()
	base := frontier[0].Span().Start
	limit := Span{Start: base, End: base + len(frontier)}

	var rbarrier *Node
	if j < len(frontier) {
		rbarrier = frontier[j]
	}
	for i < j {
		var lbarrier *Node
		if i > 0 {
			lbarrier = frontier[i-1]
		}
		node := growSpan(frontier[i], lbarrier, rbarrier, limit, ceiling)

		span := node.Span()
		if node.Root() != root || span.Start != base+i || span.End > base+j {
			return nil, fmt.Errorf("%w: frontier position %d", ErrDisjointTrees, i)
		}
		result = append(result, node)
		i += node.length
	}
	return result, nil
}

// growSpan climbs from leaf to its highest ancestor that dominates neither
// barrier and stays inside limit. The climb stops at ceiling when one is given.
func growSpan(leaf, lbarrier, rbarrier *Node, limit Span, ceiling *Node) *Node {
	cur := leaf
	for cur != ceiling && cur.parent != nil {
		p := cur.parent
		if lbarrier != nil && lbarrier.IsDominatedBy(p) {
			break
		}
		if rbarrier != nil && rbarrier.IsDominatedBy(p) {
			break
		}
		if (lbarrier == nil || rbarrier == nil) && !limit.Contains(p.Span()) {
			break
		}
		cur = p
	}
	return cur
}
