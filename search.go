package arbor

import (
	"regexp"
	"slices"
	"strings"
)

// NodeKind restricts a search to terminals or nonterminals.
type NodeKind int

const (
	// AnyNode matches every node.
	AnyNode NodeKind = iota

	// TerminalsOnly matches leaves.
	TerminalsOnly

	// NonterminalsOnly matches nodes with children.
	NonterminalsOnly
)

// SearchResult is a node matched by a label search, with its position.
type SearchResult struct {
	Node    *Node
	Address Address // relative to the searched node
	Span    Span    // relative to the searched node
}

// SearchOptions configures label search behavior.
type SearchOptions struct {
	CaseSensitive bool     // If false, labels are compared case-insensitively
	Kind          NodeKind // Which nodes are candidates
}

// RegexOptions configures regex label search behavior.
type RegexOptions struct {
	CaseInsensitive bool
	Kind            NodeKind
}

// FindLabel returns every node under n (including n) whose label equals
// label, in pre-order.
func (n *Node) FindLabel(label string, opts SearchOptions) []SearchResult {
	return n.find(opts.Kind, func(s string) bool {
		if opts.CaseSensitive {
			return s == label
		}
		return strings.EqualFold(s, label)
	})
}

// FindRegex returns every node under n whose label matches pattern, in
// pre-order.
func (n *Node) FindRegex(pattern string, opts RegexOptions) ([]SearchResult, error) {
	re, err := compileRegex(pattern, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}
	return n.find(opts.Kind, re.MatchString), nil
}

// CountLabel returns how many nodes FindLabel would return.
func (n *Node) CountLabel(label string, opts SearchOptions) int {
	return len(n.FindLabel(label, opts))
}

func (n *Node) find(kind NodeKind, match func(string) bool) []SearchResult {
	var results []SearchResult
	var walk func(node *Node, addr Address, start int)
	walk = func(node *Node, addr Address, start int) {
		if kind.accepts(node) && match(node.label) {
			results = append(results, SearchResult{
				Node:    node,
				Address: slices.Clone(addr),
				Span:    Span{Start: start, End: start + node.length},
			})
		}
		for i, c := range node.children {
			walk(c, append(addr, i), start)
			start += c.length
		}
	}
	walk(n, Address{}, 0)
	return results
}

func (k NodeKind) accepts(n *Node) bool {
	switch k {
	case TerminalsOnly:
		return n.IsTerminal()
	case NonterminalsOnly:
		return !n.IsTerminal()
	}
	return true
}

// compileRegex compiles a regex pattern with optional case insensitivity.
func compileRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
