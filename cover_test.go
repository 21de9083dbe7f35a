package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDominance(t *testing.T) {
	root := MustParse(cowTree)
	np, _ := root.Child(0)
	vp, _ := root.Child(1)
	leaves := root.Frontier()

	assert.True(t, np.IsDominatedBy(np))
	assert.True(t, leaves[0].IsDominatedBy(root))
	assert.True(t, leaves[1].IsDominatedBy(np))
	assert.False(t, leaves[2].IsDominatedBy(np))
	assert.False(t, np.IsDominatedBy(leaves[0]))

	assert.True(t, np.Dominates(leaves[0], leaves[1]))
	assert.False(t, np.Dominates(leaves[0], leaves[2]))
	assert.True(t, root.Dominates(leaves...))
	assert.True(t, vp.Dominates())
}

func TestCover(t *testing.T) {
	root := MustParse(cowTree)
	np, _ := root.Child(0)
	dt, _ := np.Child(0)
	nn, _ := np.Child(1)
	vp, _ := root.Child(1)
	vbd, _ := vp.Child(0)
	leaves := root.Frontier()

	tests := []struct {
		name  string
		nodes []*Node
		want  *Node
	}{
		{"DT and VBD", []*Node{dt, vbd}, root},
		{"DT and NN", []*Node{dt, nn}, np},
		{"words of NP", []*Node{leaves[0], leaves[1]}, np},
		{"single node", []*Node{vbd}, vbd},
		{"ancestor first", []*Node{np, leaves[1]}, np},
		{"descendant first", []*Node{leaves[1], np}, np},
		{"three nodes", []*Node{leaves[1], leaves[0], leaves[2]}, root},
		{"same node twice", []*Node{nn, nn}, nn},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, Cover(tt.nodes...))
		})
	}
}

func TestCoverDisjointTrees(t *testing.T) {
	a := MustParse(cowTree)
	b := MustParse(cowTree)
	assert.Nil(t, Cover(a.Frontier()[0], b.Frontier()[0]))
}

func TestCoverDoesNotModifyInput(t *testing.T) {
	root := MustParse(cowTree)
	leaves := root.Frontier()
	in := []*Node{leaves[0], leaves[2]}
	Cover(in...)
	assert.Same(t, leaves[0], in[0])
	assert.Same(t, leaves[2], in[1])
}

func TestCoverIsLowestContainingSpan(t *testing.T) {
	root := MustParse("(A (B (C a b) c) (D d (E e f) (F (G g))) h)")
	leaves := root.Frontier()

	for i := range leaves {
		for j := range leaves {
			c := Cover(leaves[i], leaves[j])
			require.NotNil(t, c)

			want := Span{min(i, j), max(i, j) + 1}
			assert.True(t, c.Span().Contains(want))
			for _, child := range c.Children() {
				assert.False(t, child.Span().Contains(want),
					"child %s of cover also contains %v", child.Label(), want)
			}
		}
	}
}

func TestFillExample(t *testing.T) {
	root := MustParse(cowTree)

	nodes, err := root.Fill(1, 3)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "NN", nodes[0].Label())
	assert.Equal(t, "VP", nodes[1].Label())

	nodes, err = FillSpan(root.Frontier(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"NN", "VP"}, labels(nodes))

	nodes, err = root.Fill(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []*Node{root}, nodes)

	nodes, err = root.Fill(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"NP"}, labels(nodes))

	nodes, err = root.Fill(2, 2)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFillErrors(t *testing.T) {
	root := MustParse(cowTree)

	_, err := root.Fill(0, 4)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = root.Fill(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = root.Fill(2, 1)
	assert.ErrorIs(t, err, ErrInvalidSpan)

	other := MustParse("(X y z)")
	mixed := append(root.Frontier()[:2:2], other.Frontier()...)
	_, err = FillSpan(mixed, 1, 3)
	assert.ErrorIs(t, err, ErrDisjointTrees)
}

// TestFillTiles checks every span of a few trees: the result must tile the
// span exactly, and no returned node may have a parent that also fits.
func TestFillTiles(t *testing.T) {
	trees := []string{
		cowTree,
		"(A (B (C a b) c) (D d (E e f) (F (G g))) h)",
		"(S (X (Y (Z a))))",
		"(R (P a b c d) (Q (Q1 e f) (Q2 g)))",
	}

	for _, s := range trees {
		root := MustParse(s)
		n := root.Len()
		for i := 0; i <= n; i++ {
			for j := i; j <= n; j++ {
				nodes, err := root.Fill(i, j)
				require.NoError(t, err)

				pos := i
				for _, node := range nodes {
					span := node.Span()
					require.Equal(t, pos, span.Start, "%s fill(%d,%d)", s, i, j)
					pos = span.End
					if p := node.Parent(); p != nil {
						ps := p.Span()
						assert.False(t, Span{i, j}.Contains(ps), "%s fill(%d,%d): parent of %s fits", s, i, j, node.Label())
					}
				}
				require.Equal(t, j, pos, "%s fill(%d,%d)", s, i, j)
			}
		}
	}
}

func TestFillStaysInsideSubtree(t *testing.T) {
	root := MustParse("(S (X (Y a b)) c)")
	x, _ := root.Child(0)

	nodes, err := x.Fill(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []*Node{x}, nodes)

	// an explicit frontier may reach unary ancestors with the same span
	y, _ := x.Child(0)
	nodes, err = FillSpan(y.Frontier(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []*Node{x}, nodes)
}
