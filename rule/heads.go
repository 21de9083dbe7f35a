package rule

import (
	"fmt"

	"github.com/phroun/arbor"
)

const (
	headRootLabel = "R"
	headLabel     = "H"
)

// Annotate copies head flags from heads onto target, which must have the same
// shape. Every child whose marker is H is flagged as the head of its parent;
// the others are flagged as non-heads. Existing flags on target are cleared
// first.
//
// If relative is nil, every level of target is annotated. Otherwise only the
// path of heads down from relative is annotated: children of a head (or of
// relative itself) are labeled from the markers, children of a non-head are
// all non-heads, and nodes outside relative's subtree stay unset. Passing the
// root of target as relative gives root-relative (global) head paths.
func Annotate(heads, target, relative *arbor.Node) error {
	target.ClearHeads()
	if heads.Label() != headRootLabel {
		return fmt.Errorf("%w: got %q", ErrBadHeadRoot, heads.Label())
	}

	if target.IsTerminal() || target.IsPreterminal() {
		// a lone word or tag heads itself
		target.SetHead(true)
		if target.IsPreterminal() {
			child, _ := target.Child(0)
			child.SetHead(true)
		}
		return nil
	}
	if err := sameArity(heads, target); err != nil {
		return err
	}

	markers := heads.Children()
	for i, node := range target.Children() {
		if relative == nil || relative == target {
			node.SetHead(markers[i].Label() == headLabel)
		}
		if err := annotate(markers[i], node, relative); err != nil {
			return err
		}
	}
	return nil
}

func annotate(heads, target, relative *arbor.Node) error {
	isHead, marked := target.Head()

	if target.IsTerminal() || target.IsPreterminal() {
		if target.IsPreterminal() && marked {
			child, _ := target.Child(0)
			child.SetHead(isHead)
		}
		return nil
	}
	if err := sameArity(heads, target); err != nil {
		return err
	}

	markers := heads.Children()
	for i, node := range target.Children() {
		switch {
		case relative == nil || relative == target || (marked && isHead):
			node.SetHead(markers[i].Label() == headLabel)
		case marked:
			node.SetHead(false)
		}
		if err := annotate(markers[i], node, relative); err != nil {
			return err
		}
	}
	return nil
}

func sameArity(heads, target *arbor.Node) error {
	if heads.NumChildren() != target.NumChildren() {
		return fmt.Errorf("%w: %s vs %s", ErrTreeMismatch, heads, target)
	}
	return nil
}

// AnnotateTarget parses a rule's target tree and head marker and annotates the
// tree. When local is false, head paths are taken relative to the root.
func AnnotateTarget(target, marker string, local bool) (*arbor.Node, error) {
	tree, err := ParseTree(target)
	if err != nil {
		return nil, err
	}
	heads, err := HeadMarkerTree(marker)
	if err != nil {
		return nil, fmt.Errorf("head marker: %w", err)
	}

	var relative *arbor.Node
	if !local {
		relative = tree
	}
	if err := Annotate(heads, tree, relative); err != nil {
		return nil, err
	}
	return tree, nil
}

// HeadPath returns the chain of head descendants starting at n: n's head
// child, that child's head child, and so on down to a terminal.
func HeadPath(n *arbor.Node) []*arbor.Node {
	var path []*arbor.Node
	for cur := n; !cur.IsTerminal(); {
		var next *arbor.Node
		for _, c := range cur.Children() {
			if h, ok := c.Head(); ok && h {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}
