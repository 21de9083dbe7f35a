// Package arbor provides a mutable labeled tree for syntactic parse trees, with
// incrementally maintained subtree lengths, span arithmetic, dominance and cover
// queries, minimal span filling, and parsers for bracket notation and tag markup.
package arbor

import (
	"errors"
	"fmt"
)

// Structural errors
var (
	// ErrInvalidIndex indicates that a child index is out of range.
	ErrInvalidIndex = errors.New("child index out of range")

	// ErrAttached indicates that a node being inserted already has a parent.
	// Detach it first.
	ErrAttached = errors.New("node is already attached to a parent")

	// ErrCycle indicates that an insertion would make a node its own ancestor.
	ErrCycle = errors.New("node would become its own ancestor")

	// ErrTreeDeleted indicates that DeleteClean would have to delete the root.
	ErrTreeDeleted = errors.New("tree now empty")

	// ErrInvalidAddress indicates that an address does not lead to a node.
	ErrInvalidAddress = errors.New("address does not resolve to a node")
)

// Span errors
var (
	// ErrInvalidSpan indicates that a terminal span is out of bounds or reversed.
	ErrInvalidSpan = errors.New("span out of bounds")

	// ErrDisjointTrees indicates that the nodes of a query do not share a root.
	ErrDisjointTrees = errors.New("nodes do not belong to the same tree")
)

// Parse errors
var (
	// ErrMalformedTree indicates unbalanced parentheses, a missing label, or
	// otherwise unparseable tree text.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrDuplicateAttribute indicates two markup attributes with the same
	// case-folded name on one element.
	ErrDuplicateAttribute = errors.New("duplicate attribute names")
)

// ErrInternal indicates an internal consistency error (should not happen).
var ErrInternal = errors.New("internal error")

// ParseError reports where in the token stream a parse failed.
type ParseError struct {
	Message string
	Pos     int // token index, or byte offset for markup input
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s at %d", e.Err, e.Message, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(pos int, format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Err:     ErrMalformedTree,
	}
}
