package arbor

import (
	"regexp"
	"strings"
)

// Placeholders that stand in for quoted literal parentheses while tokenizing.
const (
	quotedLeftParen       = `"("`
	quotedRightParen      = `")"`
	quotedLeftParenToken  = `"-LRBJM-"`
	quotedRightParenToken = `"-RRBJM-"`
)

var tokenPattern = regexp.MustCompile(`\(|\)|[^()\s]+`)

var quoteEscaper = strings.NewReplacer(
	quotedLeftParen, quotedLeftParenToken,
	quotedRightParen, quotedRightParenToken,
)

// EscapeQuoted replaces the quoted literal parentheses "(" and ")" with
// placeholder tokens that contain no parenthesis. Parse does this itself; it is
// exported for callers that rewrite tree text before handing it to Parse.
func EscapeQuoted(s string) string {
	return quoteEscaper.Replace(s)
}

// Parse builds a tree from bracket notation such as
//
//	(S (NP (DT the) (NN cow)) (VP (VBD ran)))
//
// A bare token is a terminal. A "(" directly followed by another "(" opens a
// node with an empty label. Quoted literal parentheses ("(" and ")") are read
// as terminals, and the tokens -LRB- and -RRB- in terminal position are read
// as literal parentheses.
func Parse(s string) (*Node, error) {
	tokens := tokenPattern.FindAllString(EscapeQuoted(s), -1)
	if len(tokens) == 0 {
		return nil, malformed(0, "empty input")
	}

	p := &bracketParser{tokens: tokens}
	tree, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, malformed(p.pos, "unexpected %q after tree", p.tokens[p.pos])
	}
	return tree, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// fixed inputs.
func MustParse(s string) *Node {
	tree, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return tree
}

type bracketParser struct {
	tokens []string
	pos    int
}

func (p *bracketParser) peek(offset int) (string, bool) {
	if p.pos+offset >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos+offset], true
}

// parseNode reads one node. Nodes are built bottom-up once their closing
// parenthesis is seen, so lengths come out right without adjustment.
func (p *bracketParser) parseNode() (*Node, error) {
	tok, ok := p.peek(0)
	if !ok {
		return nil, malformed(p.pos, "unexpected end of input")
	}

	switch tok {
	case ")":
		return nil, malformed(p.pos, "unbalanced ')'")

	case "(":
		next, ok := p.peek(1)
		if !ok {
			return nil, malformed(p.pos+1, "unexpected end of input")
		}
		var label string
		switch next {
		case "(":
			p.pos++
		case ")":
			return nil, malformed(p.pos+1, "missing label")
		default:
			label = next
			p.pos += 2
		}

		var children []*Node
		for {
			tok, ok := p.peek(0)
			if !ok {
				return nil, malformed(p.pos, "unbalanced '(' for %q", label)
			}
			if tok == ")" {
				p.pos++
				return New(label, children...), nil
			}
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}

	default:
		p.pos++
		return New(terminalLabel(tok)), nil
	}
}

func terminalLabel(tok string) string {
	switch tok {
	case quotedLeftParenToken:
		return quotedLeftParen
	case quotedRightParenToken:
		return quotedRightParen
	}
	tok = strings.ReplaceAll(tok, LeftParenToken, "(")
	return strings.ReplaceAll(tok, RightParenToken, ")")
}
