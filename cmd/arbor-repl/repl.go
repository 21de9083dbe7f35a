package main

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phroun/arbor"
	"github.com/phroun/arbor/rule"
)

var errNoTree = errors.New("no tree loaded; use 'parse', 'markup' or 'rule' first")

// REPL holds the state of the interactive session
type REPL struct {
	cfg    Config
	doc    *arbor.Document
	undo   []*arbor.Document
	reader *bufio.Reader
	out    io.Writer
	log    *slog.Logger
}

func newREPL(cfg Config, in io.Reader, out io.Writer, logger *slog.Logger) *REPL {
	return &REPL{
		cfg:    cfg,
		reader: bufio.NewReader(in),
		out:    out,
		log:    logger,
	}
}

// Run reads and executes commands until EOF or quit.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, "Arbor REPL - Interactive Parse Tree Editor")
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'quit' to exit")

	for {
		fmt.Fprint(r.out, r.cfg.Prompt)
		input, err := r.reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			if !r.handleCommand(input) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	start := time.Now()
	var err error

	switch cmd {
	case "help":
		r.printHelp()
	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "parse":
		err = r.cmdParse(args)
	case "markup":
		err = r.cmdMarkup(args)
	case "rule":
		err = r.cmdRule(args)

	case "show":
		err = r.cmdShow()
	case "tree":
		err = r.cmdTree()
	case "yaml":
		err = r.cmdYAML()
	case "status":
		err = r.cmdStatus()
	case "attrs":
		err = r.cmdAttrs(args)

	case "span":
		err = r.cmdSpan(args)
	case "spans":
		err = r.cmdSpans()
	case "frontier", "words":
		err = r.cmdWords()
	case "tags":
		err = r.cmdTags()
	case "cover":
		err = r.cmdCover(args)
	case "fill":
		err = r.cmdFill(args)
	case "find":
		err = r.cmdFind(args)

	case "insert":
		err = r.cmdInsert(args)
	case "delete":
		err = r.cmdDelete(args)
	case "detach":
		err = r.cmdDetach(args)
	case "clean":
		err = r.cmdClean(args)
	case "label":
		err = r.cmdLabel(args)
	case "heads":
		err = r.cmdHeads(args)
	case "order":
		r.cmdOrder(args)
	case "check":
		err = r.cmdCheck()
	case "undo":
		err = r.cmdUndo()

	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
		return true
	}

	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		r.log.Debug("command failed", "cmd", cmd, "error", err)
		return true
	}
	r.log.Debug("command done", "cmd", cmd, "elapsed", time.Since(start))
	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

LOADING:
  parse <bracketed>          Load a tree in bracket notation, e.g. (S (NP cow) (VP ran))
  markup <markup>            Load a tree from tag markup, e.g. <s><np>the cow</np></s>
  rule <tree>                Load a paren-safe rule tree, e.g. S(x0:NP VP(x1:VBD))

INSPECTION:
  show                       Print the tree in bracket notation
  tree                       Print the tree indented, with spans and head flags
  yaml                       Print the tree as YAML
  status                     Show size and depth of the tree
  attrs <addr>               Show markup attributes of a node

QUERIES (addresses are dot-separated child indices, '.' is the root):
  span <addr>                Show the terminal span of a node
  spans                      List every nonterminal span with its labels
  words | frontier           List the terminals
  tags                       List the preterminal labels
  cover <addr> <addr>...     Lowest node dominating all the given nodes
  fill <i> <j>               Fewest nodes exactly covering terminals [i, j)
  find <label>               Find nodes by label (case-insensitive)

EDITING:
  insert <addr> <i> <tree>   Insert a bracketed subtree as child i of a node
  delete <addr> <i>          Delete child i of a node
  detach <addr>              Detach a node from its parent
  clean <addr>               Delete a node and every ancestor left empty
  label <addr> <label>       Relabel a node
  heads <marker> [global]    Mark head children from a head marker, e.g. {{{R(DH)}}}
  undo                       Undo the last edit

OTHER:
  order <rule side>          Show the variable order of a rule side, e.g. x1 "of" x0
  check                      Verify the tree's length and order bookkeeping
  help                       Show this help message
  quit, exit                 Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) ensureTree() error {
	if r.doc == nil {
		return errNoTree
	}
	return nil
}

// load replaces the current tree and clears the undo history.
func (r *REPL) load(doc *arbor.Document) {
	r.doc = doc
	r.undo = nil
	fmt.Fprintf(r.out, "Loaded tree with %d terminals: %s\n", doc.Root.Len(), doc.Root)
}

func (r *REPL) cmdParse(args []string) error {
	tree, err := arbor.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}
	r.load(arbor.NewDocument(tree))
	return nil
}

func (r *REPL) cmdMarkup(args []string) error {
	doc, err := arbor.ParseMarkupString(strings.Join(args, " "), r.cfg.RootLabel)
	if err != nil {
		return err
	}
	r.load(doc)
	return nil
}

func (r *REPL) cmdRule(args []string) error {
	tree, err := rule.ParseTree(strings.Join(args, " "))
	if err != nil {
		return err
	}
	r.load(arbor.NewDocument(tree))
	return nil
}

func (r *REPL) cmdShow() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, r.doc.Root)
	return nil
}

func (r *REPL) cmdTree() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	r.printNode(r.doc.Root, 0)
	return nil
}

func (r *REPL) printNode(n *arbor.Node, depth int) {
	mark := ""
	if h, ok := n.Head(); ok {
		mark = " D"
		if h {
			mark = " H"
		}
	}
	fmt.Fprintf(r.out, "%s%s %v%s%s\n",
		strings.Repeat("  ", depth), n.Label(), n.Span(), mark, r.doc.AttrString(n))
	for _, c := range n.Children() {
		r.printNode(c, depth+1)
	}
}

// yamlNode is the YAML rendering of a node.
type yamlNode struct {
	Label    string            `yaml:"label"`
	Span     [2]int            `yaml:"span,flow"`
	Head     *bool             `yaml:"head,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Children []yamlNode        `yaml:"children,omitempty"`
}

func (r *REPL) toYAML(n *arbor.Node) yamlNode {
	span := n.Span()
	y := yamlNode{
		Label: n.Label(),
		Span:  [2]int{span.Start, span.End},
		Attrs: r.doc.Attrs(n),
	}
	if h, ok := n.Head(); ok {
		y.Head = &h
	}
	for _, c := range n.Children() {
		y.Children = append(y.Children, r.toYAML(c))
	}
	return y
}

func (r *REPL) cmdYAML() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(r.toYAML(r.doc.Root)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (r *REPL) cmdStatus() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	nodes, depth := 0, 0
	for n := range r.doc.Root.Traversal() {
		nodes++
		depth = max(depth, len(n.Address()))
	}
	fmt.Fprintln(r.out, "Tree Status:")
	fmt.Fprintf(r.out, "  Root:      %s\n", r.doc.Root.Label())
	fmt.Fprintf(r.out, "  Terminals: %d\n", r.doc.Root.Len())
	fmt.Fprintf(r.out, "  Nodes:     %d\n", nodes)
	fmt.Fprintf(r.out, "  Depth:     %d\n", depth)
	fmt.Fprintf(r.out, "  Undo:      %d\n", len(r.undo))
	return nil
}

func (r *REPL) cmdAttrs(args []string) error {
	n, err := r.node(args, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s%s\n", n.Label(), r.doc.AttrString(n))
	return nil
}

// node resolves args[i] as an address in the current tree.
func (r *REPL) node(args []string, i int) (*arbor.Node, error) {
	if err := r.ensureTree(); err != nil {
		return nil, err
	}
	if i >= len(args) {
		return nil, errors.New("missing node address")
	}
	addr, err := arbor.ParseAddress(args[i])
	if err != nil {
		return nil, err
	}
	return r.doc.Root.Descendant(addr)
}

func (r *REPL) cmdSpan(args []string) error {
	n, err := r.node(args, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s %v\n", n.Label(), n.Span())
	return nil
}

func (r *REPL) cmdSpans() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	spans := r.doc.Root.Spans()
	keys := make([]arbor.Span, 0, len(spans))
	for s := range spans {
		keys = append(keys, s)
	}
	slices.SortFunc(keys, func(a, b arbor.Span) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(b.End, a.End))
	})
	for _, s := range keys {
		fmt.Fprintf(r.out, "%v %s\n", s, strings.Join(spans[s], " "))
	}
	return nil
}

func (r *REPL) cmdWords() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	for i, w := range r.doc.Root.Words() {
		fmt.Fprintf(r.out, "%d %s\n", i, w)
	}
	return nil
}

func (r *REPL) cmdTags() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, strings.Join(r.doc.Root.Tags(), " "))
	return nil
}

func (r *REPL) cmdCover(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: cover <addr> <addr>...")
	}
	nodes := make([]*arbor.Node, len(args))
	for i := range args {
		n, err := r.node(args, i)
		if err != nil {
			return err
		}
		nodes[i] = n
	}
	c := arbor.Cover(nodes...)
	if c == nil {
		fmt.Fprintln(r.out, "No common ancestor")
		return nil
	}
	fmt.Fprintf(r.out, "%s at %s %v\n", c.Label(), c.Address(), c.Span())
	return nil
}

func (r *REPL) cmdFill(args []string) error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: fill <i> <j>")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	j, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	nodes, err := r.doc.Root.Fill(i, j)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		fmt.Fprintln(r.out, "Empty span")
	}
	for _, n := range nodes {
		fmt.Fprintf(r.out, "%s at %s %v\n", n.Label(), n.Address(), n.Span())
	}
	return nil
}

func (r *REPL) cmdFind(args []string) error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: find <label>")
	}
	results := r.doc.Root.FindLabel(args[0], arbor.SearchOptions{})
	for _, res := range results {
		fmt.Fprintf(r.out, "%s at %s %v\n", res.Node.Label(), res.Address, res.Span)
	}
	fmt.Fprintf(r.out, "%d match(es)\n", len(results))
	return nil
}

// snapshot records the current tree for undo and returns a function that
// discards the record again, for edits that fail without changing the tree.
func (r *REPL) snapshot() (drop func()) {
	if r.cfg.UndoDepth == 0 {
		return func() {}
	}
	if len(r.undo) == r.cfg.UndoDepth {
		r.undo = r.undo[1:]
	}
	r.undo = append(r.undo, cloneDocument(r.doc))
	return func() {
		r.undo = r.undo[:len(r.undo)-1]
	}
}

// cloneDocument deep-copies a document, carrying attributes over to the
// copied nodes.
func cloneDocument(doc *arbor.Document) *arbor.Document {
	root := doc.Root.Clone()
	clone := arbor.NewDocument(root)

	var copies []*arbor.Node
	for n := range root.Traversal() {
		copies = append(copies, n)
	}
	i := 0
	for n := range doc.Root.Traversal() {
		for k, v := range doc.Attrs(n) {
			clone.SetAttr(copies[i], k, v)
		}
		i++
	}
	return clone
}

func (r *REPL) cmdInsert(args []string) error {
	if len(args) < 3 {
		return errors.New("usage: insert <addr> <i> <tree>")
	}
	parent, err := r.node(args, 0)
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index: %w", err)
	}
	sub, err := arbor.Parse(strings.Join(args[2:], " "))
	if err != nil {
		return err
	}

	drop := r.snapshot()
	if err := parent.InsertChild(i, sub); err != nil {
		drop()
		return err
	}
	fmt.Fprintf(r.out, "Inserted %s at %s %v\n", sub.Label(), sub.Address(), sub.Span())
	return nil
}

func (r *REPL) cmdDelete(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: delete <addr> <i>")
	}
	parent, err := r.node(args, 0)
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index: %w", err)
	}

	drop := r.snapshot()
	removed, err := parent.DeleteChild(i)
	if err != nil {
		drop()
		return err
	}
	fmt.Fprintf(r.out, "Deleted %s\n", removed)
	return nil
}

func (r *REPL) cmdDetach(args []string) error {
	n, err := r.node(args, 0)
	if err != nil {
		return err
	}
	if n.Parent() == nil {
		return errors.New("cannot detach the root")
	}
	r.snapshot()
	n.Detach()
	fmt.Fprintf(r.out, "Detached %s\n", n)
	return nil
}

func (r *REPL) cmdClean(args []string) error {
	n, err := r.node(args, 0)
	if err != nil {
		return err
	}
	drop := r.snapshot()
	if err := n.DeleteClean(); err != nil {
		drop()
		return err
	}
	fmt.Fprintf(r.out, "Tree is now %s\n", r.doc.Root)
	return nil
}

func (r *REPL) cmdLabel(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: label <addr> <label>")
	}
	n, err := r.node(args, 0)
	if err != nil {
		return err
	}
	r.snapshot()
	n.SetLabel(args[1])
	return nil
}

func (r *REPL) cmdHeads(args []string) error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: heads <marker> [local|global]")
	}
	heads, err := rule.HeadMarkerTree(args[0])
	if err != nil {
		return err
	}

	// annotate a copy so a shape mismatch leaves the tree untouched
	marked := cloneDocument(r.doc)
	var relative *arbor.Node
	if len(args) > 1 && strings.EqualFold(args[1], "global") {
		relative = marked.Root
	}
	if err := rule.Annotate(heads, marked.Root, relative); err != nil {
		return err
	}
	r.snapshot()
	r.doc = marked

	path := rule.HeadPath(r.doc.Root)
	labels := make([]string, len(path))
	for i, n := range path {
		labels[i] = n.Label()
	}
	fmt.Fprintf(r.out, "Head path: %s\n", strings.Join(labels, " > "))
	return nil
}

func (r *REPL) cmdOrder(args []string) {
	order := rule.TargetOrder(strings.Join(args, " "))
	for i := range len(order) {
		fmt.Fprintf(r.out, "%d -> x%d\n", i, order[i])
	}
}

func (r *REPL) cmdCheck() error {
	if err := r.ensureTree(); err != nil {
		return err
	}
	if err := r.doc.Root.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "OK")
	return nil
}

func (r *REPL) cmdUndo() error {
	if len(r.undo) == 0 {
		return errors.New("nothing to undo")
	}
	r.doc = r.undo[len(r.undo)-1]
	r.undo = r.undo[:len(r.undo)-1]
	fmt.Fprintf(r.out, "Tree is now %s\n", r.doc.Root)
	return nil
}
