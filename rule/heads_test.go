package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/arbor"
)

const (
	cowRule   = `S(NP(DT("the") NN("cow")) VP(VBD("ran")))`
	cowMarker = "{{{R(D(DH)H(H))}}}"
)

// headsOf lists the head flag of every node in pre-order: "H", "D" or "-".
func headsOf(root *arbor.Node) []string {
	var out []string
	for n := range root.Traversal() {
		v, ok := n.Head()
		switch {
		case !ok:
			out = append(out, "-")
		case v:
			out = append(out, "H")
		default:
			out = append(out, "D")
		}
	}
	return out
}

func TestAnnotateLocal(t *testing.T) {
	tree, err := AnnotateTarget(cowRule, cowMarker, true)
	require.NoError(t, err)

	// S NP DT the NN cow VP VBD ran
	assert.Equal(t,
		[]string{"-", "D", "D", "D", "H", "H", "H", "H", "H"},
		headsOf(tree))

	path := HeadPath(tree)
	require.Len(t, path, 3)
	assert.Equal(t, "VP", path[0].Label())
	assert.Equal(t, "VBD", path[1].Label())
	assert.Equal(t, `"ran"`, path[2].Label())

	np, _ := tree.Child(0)
	path = HeadPath(np)
	require.Len(t, path, 2)
	assert.Equal(t, "NN", path[0].Label())
}

func TestAnnotateGlobal(t *testing.T) {
	tree, err := AnnotateTarget(cowRule, cowMarker, false)
	require.NoError(t, err)

	// children of a non-head are all non-heads
	assert.Equal(t,
		[]string{"-", "D", "D", "D", "D", "D", "H", "H", "H"},
		headsOf(tree))
	assert.Empty(t, HeadPath(tree.Frontier()[1].Parent().Parent()))
}

func TestAnnotateRelativeToInnerNode(t *testing.T) {
	tree, err := ParseTree(cowRule)
	require.NoError(t, err)
	heads, err := HeadMarkerTree(cowMarker)
	require.NoError(t, err)

	np, _ := tree.Child(0)
	require.NoError(t, Annotate(heads, tree, np))

	assert.Equal(t,
		[]string{"-", "-", "D", "D", "H", "H", "-", "-", "-"},
		headsOf(tree))
}

func TestAnnotateClearsOldFlags(t *testing.T) {
	tree, err := ParseTree(cowRule)
	require.NoError(t, err)
	heads, err := HeadMarkerTree(cowMarker)
	require.NoError(t, err)

	for n := range tree.Traversal() {
		n.SetHead(true)
	}
	np, _ := tree.Child(0)
	require.NoError(t, Annotate(heads, tree, np))
	assert.Equal(t,
		[]string{"-", "-", "D", "D", "H", "H", "-", "-", "-"},
		headsOf(tree))
}

func TestAnnotateSmallTargets(t *testing.T) {
	tree, err := AnnotateTarget("x0:NP", "{{{R}}}", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"H"}, headsOf(tree))

	tree, err = AnnotateTarget(`NN("cow")`, "{{{R}}}", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"H", "H"}, headsOf(tree))
}

func TestAnnotateErrors(t *testing.T) {
	_, err := AnnotateTarget(cowRule, "{{{R(DH)}}}", true)
	assert.ErrorIs(t, err, ErrTreeMismatch)

	_, err = AnnotateTarget(cowRule, "{{{R(DHD)}}}", true)
	assert.ErrorIs(t, err, ErrTreeMismatch)

	_, err = AnnotateTarget(cowRule, "{{{X(D(DH)H(H))}}}", true)
	assert.ErrorIs(t, err, ErrBadHeadRoot)

	_, err = AnnotateTarget(cowRule, "{{{R(D(DH)H(H)}}}", true)
	assert.ErrorIs(t, err, arbor.ErrMalformedTree)

	_, err = AnnotateTarget("S(NP", cowMarker, true)
	assert.ErrorIs(t, err, arbor.ErrMalformedTree)
}
