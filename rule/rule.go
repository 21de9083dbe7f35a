// Package rule reads the tree side of syntax-based translation rules and marks
// head children on it.
//
// Rule trees are written in a paren-safe form where a node's label comes
// before its parenthesis, as in NP(DT("the") NN("cow")). Head markers are a
// compressed tree of the same shape labeled R at the root, H for a head child
// and D for a dependent, as in {{{R(HD(DH))}}}.
package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phroun/arbor"
)

var (
	// ErrBadHeadRoot indicates that a head-marker tree is not rooted at "R".
	ErrBadHeadRoot = errors.New("expected root of heads tree to be 'R'")

	// ErrTreeMismatch indicates that a head-marker tree and its target differ
	// in the number of children at some node.
	ErrTreeMismatch = errors.New("heads tree doesn't match target")
)

// ParseTree parses a paren-safe rule tree such as a(b c(d e)). Quoted literal
// parentheses are kept as terminals.
func ParseTree(s string) (*arbor.Node, error) {
	s = arbor.EscapeQuoted(s)
	toks := strings.Fields(strings.ReplaceAll(s, "(", " ( "))

	// move every "(" in front of the label it follows
	for i := 1; i < len(toks); i++ {
		if toks[i] == "(" && toks[i-1] != "(" {
			toks[i-1], toks[i] = toks[i], toks[i-1]
		}
	}

	tree, err := arbor.Parse(strings.Join(toks, " "))
	if err != nil {
		return nil, fmt.Errorf("rule tree %q: %w", s, err)
	}
	return tree, nil
}

// HeadMarkerTree parses a compressed head marker. Braces and whitespace
// around the marker are dropped, and every character other than a
// parenthesis becomes its own node label.
func HeadMarkerTree(marker string) (*arbor.Node, error) {
	marker = strings.TrimSpace(strings.Trim(strings.TrimSpace(marker), "{}"))

	var sb strings.Builder
	for _, r := range marker {
		switch {
		case r == '(':
			sb.WriteRune(r)
		case r == ')':
			sb.WriteString(" )")
		case r == ' ' || r == '\t':
		default:
			sb.WriteByte(' ')
			sb.WriteRune(r)
		}
	}
	return ParseTree(sb.String())
}

var varPattern = regexp.MustCompile(`^x(\d+)`)

// VarPosition returns the index of a rule variable token such as x0:NNP.
func VarPosition(tok string) (int, bool) {
	m := varPattern.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	pos, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return pos, true
}

// TargetOrder maps the i-th variable of a rule side to its variable index.
// For x2 "the" "cow" x0 x1 it returns {0:2, 1:0, 2:1}.
func TargetOrder(side string) map[int]int {
	order := make(map[int]int)
	next := 0
	for _, tok := range strings.Fields(side) {
		if pos, ok := VarPosition(tok); ok {
			order[next] = pos
			next++
		}
	}
	return order
}
