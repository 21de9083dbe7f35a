// arbor-bench is a benchmark and stress test for the arbor library.
// It builds a large random parse tree and measures performance of common
// operations, checking the tree's bookkeeping once the edits are done.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/phroun/arbor"
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

type options struct {
	terminals int
	ops       int
	seed      int64
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "arbor-bench",
		Short:        "Benchmark and stress test for arbor parse trees",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.terminals < 1 {
				return fmt.Errorf("--terminals must be at least 1, got %d", opts.terminals)
			}
			return run(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.terminals, "terminals", "n", 100000, "Number of terminals in the generated tree")
	cmd.Flags().IntVar(&opts.ops, "ops", 10000, "Number of operations per benchmark")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "Random seed")
	return cmd
}

func run(out io.Writer, opts options) error {
	fmt.Fprintln(out, "Arbor Benchmark and Stress Test")
	fmt.Fprintln(out, "===============================")
	fmt.Fprintf(out, "Terminals: %d\n", opts.terminals)
	fmt.Fprintf(out, "Operations: %d\n", opts.ops)
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintln(out)

	rng := rand.New(rand.NewSource(opts.seed))
	var results []BenchResult

	runBench := func(name string, fn func() BenchResult) {
		fmt.Fprintf(out, "  %-40s ", name+"...")
		result := fn()
		fmt.Fprintf(out, "%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	var tree *arbor.Node
	fmt.Fprintln(out, "Construction:")
	runBench("Build random tree", func() BenchResult {
		start := time.Now()
		tree = buildTree(rng, opts.terminals)
		return BenchResult{Name: "Build random tree", Duration: time.Since(start),
			Extra: fmt.Sprintf("%d terminals", tree.Len())}
	})

	text := tree.String()
	runBench("Parse bracket notation", func() BenchResult {
		return benchParse(text)
	})
	runBench("String", func() BenchResult {
		start := time.Now()
		s := tree.String()
		return BenchResult{Name: "String", Duration: time.Since(start), Extra: fmt.Sprintf("%d bytes", len(s))}
	})

	fmt.Fprintln(out, "\nQueries:")
	runBench("Span of every terminal", func() BenchResult { return benchSpans(tree) })
	runBench("Cover of random pairs", func() BenchResult { return benchCover(rng, tree, opts.ops) })
	runBench("Fill of random spans", func() BenchResult { return benchFill(rng, tree, opts.ops) })

	fmt.Fprintln(out, "\nEdits:")
	runBench("Insert/delete pairs", func() BenchResult { return benchEdits(rng, tree, opts.ops) })

	fmt.Fprintln(out, "\nVerification:")
	if err := tree.Validate(); err != nil {
		return fmt.Errorf("tree invariants broken: %w", err)
	}
	fmt.Fprintln(out, "  bookkeeping OK")

	fmt.Fprintln(out, "\n=")
	fmt.Fprintln(out, "SUMMARY")
	fmt.Fprintln(out, "=")
	for _, r := range results {
		fmt.Fprintln(out, r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Fprintf(out, "Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
	return nil
}

// buildTree returns a random tree with exactly n terminals. Internal nodes
// have between one and four children.
func buildTree(rng *rand.Rand, n int) *arbor.Node {
	if n == 1 {
		return arbor.New("NN", arbor.New(fmt.Sprintf("w%d", rng.Intn(1000))))
	}
	parts := min(n, 1+rng.Intn(4))
	root := arbor.New(fmt.Sprintf("X%d", rng.Intn(20)))
	left := n
	for i := range parts {
		size := left / (parts - i)
		if i < parts-1 && size > 1 {
			size = 1 + rng.Intn(size)
		}
		left -= size
		root.AppendChild(buildTree(rng, size))
	}
	return root
}

func benchParse(text string) BenchResult {
	start := time.Now()
	tree, err := arbor.Parse(text)
	if err != nil {
		return BenchResult{Name: "Parse bracket notation", Extra: fmt.Sprintf("ERROR: %v", err)}
	}
	return BenchResult{
		Name:     "Parse bracket notation",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d bytes, %d terminals", len(text), tree.Len()),
	}
}

func benchSpans(tree *arbor.Node) BenchResult {
	leaves := tree.Frontier()
	start := time.Now()
	for i, leaf := range leaves {
		if s := leaf.Span(); s.Start != i {
			return BenchResult{Name: "Span of every terminal", Extra: fmt.Sprintf("ERROR: terminal %d has span %v", i, s)}
		}
	}
	return BenchResult{Name: "Span of every terminal", Duration: time.Since(start), Ops: len(leaves)}
}

func benchCover(rng *rand.Rand, tree *arbor.Node, ops int) BenchResult {
	leaves := tree.Frontier()
	start := time.Now()
	for range ops {
		a := leaves[rng.Intn(len(leaves))]
		b := leaves[rng.Intn(len(leaves))]
		if arbor.Cover(a, b) == nil {
			return BenchResult{Name: "Cover of random pairs", Extra: "ERROR: no cover"}
		}
	}
	return BenchResult{Name: "Cover of random pairs", Duration: time.Since(start), Ops: ops}
}

func benchFill(rng *rand.Rand, tree *arbor.Node, ops int) BenchResult {
	n := tree.Len()
	nodes := 0
	start := time.Now()
	for range ops {
		i := rng.Intn(n + 1)
		j := i + rng.Intn(min(n-i, 64)+1)
		filled, err := tree.Fill(i, j)
		if err != nil {
			return BenchResult{Name: "Fill of random spans", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		nodes += len(filled)
	}
	return BenchResult{Name: "Fill of random spans", Duration: time.Since(start), Ops: ops,
		Extra: fmt.Sprintf("%d nodes", nodes)}
}

// benchEdits inserts a small subtree under a random nonterminal and deletes
// it again, so the tree keeps its shape while every edit walks the ancestors.
func benchEdits(rng *rand.Rand, tree *arbor.Node, ops int) BenchResult {
	var inner []*arbor.Node
	for n := range tree.Traversal() {
		if !n.IsTerminal() {
			inner = append(inner, n)
		}
	}
	before := tree.Len()

	start := time.Now()
	for range ops {
		parent := inner[rng.Intn(len(inner))]
		i := rng.Intn(parent.NumChildren() + 1)
		sub := arbor.New("ADV", arbor.New("quickly"))
		if err := parent.InsertChild(i, sub); err != nil {
			return BenchResult{Name: "Insert/delete pairs", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		if _, err := parent.DeleteChild(i); err != nil {
			return BenchResult{Name: "Insert/delete pairs", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
	}
	elapsed := time.Since(start)

	if tree.Len() != before {
		return BenchResult{Name: "Insert/delete pairs", Duration: elapsed,
			Extra: fmt.Sprintf("ERROR: length %d, want %d", tree.Len(), before)}
	}
	return BenchResult{Name: "Insert/delete pairs", Duration: elapsed, Ops: 2 * ops}
}
