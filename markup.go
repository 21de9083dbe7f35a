package arbor

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// labelAttr names the attribute that overrides an element's tag as its label.
const labelAttr = "label"

// Document is a tree read from markup together with the attributes of its
// elements. Attributes live in a side table keyed by node since only
// markup-derived trees carry them.
type Document struct {
	Root  *Node
	attrs map[*Node]map[string]string
}

// NewDocument wraps root in a document with an empty attribute table.
func NewDocument(root *Node) *Document {
	return &Document{
		Root:  root,
		attrs: map[*Node]map[string]string{root: {}},
	}
}

// Attrs returns the attributes of n, or nil if n was not built from an
// element. The returned map is live.
func (d *Document) Attrs(n *Node) map[string]string {
	return d.attrs[n]
}

// Attr returns a single attribute of n. Names are case-insensitive.
func (d *Document) Attr(n *Node, name string) (string, bool) {
	v, ok := d.attrs[n][strings.ToLower(name)]
	return v, ok
}

// SetAttr sets an attribute of n, creating n's attribute map if needed.
func (d *Document) SetAttr(n *Node, name, value string) {
	m := d.attrs[n]
	if m == nil {
		m = make(map[string]string)
		d.attrs[n] = m
	}
	m[strings.ToLower(name)] = value
}

// AttrString renders n's attributes as ` name="value"` pairs sorted by name,
// or "" when there are none.
func (d *Document) AttrString(n *Node) string {
	m := d.attrs[n]
	if len(m) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, name := range slices.Sorted(maps.Keys(m)) {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(m[name]))
		sb.WriteByte('"')
	}
	return sb.String()
}

// ParseMarkupString is ParseMarkup over a string.
func ParseMarkupString(s, rootLabel string) (*Document, error) {
	return ParseMarkup(strings.NewReader(s), rootLabel)
}

// ParseMarkup builds a tree from tag markup. Every element becomes a node
// labeled by its "label" attribute, or by its tag name when it has none; the
// remaining attributes are kept in the document. Text is split on whitespace
// into terminals. An element with no content gets a NoneLabel terminal. All
// elements hang below a synthetic root labeled rootLabel.
func ParseMarkup(r io.Reader, rootLabel string) (*Document, error) {
	root := New(rootLabel)
	doc := NewDocument(root)
	cur := root

	z := html.NewTokenizer(r)
	offset := 0
	for {
		tt := z.Next()
		pos := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if cur != root {
					return nil, malformed(pos, "unclosed element %q", cur.label)
				}
				return doc, nil
			}
			return nil, fmt.Errorf("read markup: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			node, err := doc.startElement(cur, tok)
			if err != nil {
				return nil, err
			}
			if tt == html.StartTagToken {
				cur = node
			} else {
				endElement(node)
			}

		case html.EndTagToken:
			if cur == root {
				tok := z.Token()
				return nil, malformed(pos, "end tag %q without open element", tok.Data)
			}
			endElement(cur)
			cur = cur.parent

		case html.TextToken:
			for _, word := range strings.Fields(string(z.Text())) {
				if err := cur.AppendChild(New(word)); err != nil {
					return nil, err
				}
			}
		}
	}
}

func (d *Document) startElement(parent *Node, tok html.Token) (*Node, error) {
	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		key := strings.ToLower(a.Key)
		if _, dup := attrs[key]; dup {
			return nil, fmt.Errorf("%w: %q on <%s>", ErrDuplicateAttribute, key, tok.Data)
		}
		attrs[key] = a.Val
	}

	label := tok.Data
	if v, ok := attrs[labelAttr]; ok {
		label = v
		delete(attrs, labelAttr)
	}

	node := New(label)
	d.attrs[node] = attrs
	if err := parent.AppendChild(node); err != nil {
		return nil, err
	}
	return node, nil
}

// endElement gives an empty element its placeholder terminal.
func endElement(n *Node) {
	if len(n.children) == 0 {
		// a fresh terminal always attaches
		_ = n.AppendChild(New(NoneLabel))
	}
}
