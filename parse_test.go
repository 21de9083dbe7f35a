package arbor

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantLen   int
		wantLabel string
	}{
		{
			name:      "cow",
			input:     cowTree,
			want:      cowTree,
			wantLen:   3,
			wantLabel: "S",
		},
		{
			name:      "extra whitespace",
			input:     "  (S\n\t(NP  (DT the)(NN cow) )\n(VP (VBD ran)))  ",
			want:      cowTree,
			wantLen:   3,
			wantLabel: "S",
		},
		{
			name:      "bare terminal",
			input:     "cow",
			want:      "cow",
			wantLen:   1,
			wantLabel: "cow",
		},
		{
			name:      "empty label",
			input:     "((S (NN x)))",
			want:      "( (S (NN x)))",
			wantLen:   1,
			wantLabel: "",
		},
		{
			name:      "childless bracket is a terminal",
			input:     "(S)",
			want:      "S",
			wantLen:   1,
			wantLabel: "S",
		},
		{
			name:      "quoted parentheses",
			input:     `(PUNC "(" x ")")`,
			want:      `(PUNC "-LRB-" x "-RRB-")`,
			wantLen:   3,
			wantLabel: "PUNC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.String())
			assert.Equal(t, tt.wantLen, tree.Len())
			assert.Equal(t, tt.wantLabel, tree.Label())
			assert.NoError(t, tree.Validate())
		})
	}
}

func TestParseQuotedParenTerminals(t *testing.T) {
	tree, err := Parse(`(PUNC "(" x ")")`)
	require.NoError(t, err)
	assert.Equal(t, []string{`"("`, "x", `")"`}, tree.Words())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos int
	}{
		{"empty", "", 0},
		{"whitespace", "  \n ", 0},
		{"unclosed", "(S (NP x)", 6},
		{"trailing close", "(S x))", 4},
		{"leading close", ")", 0},
		{"missing label", "()", 1},
		{"nested missing label", "(S ())", 3},
		{"lone open", "(", 1},
		{"two trees", "(A x) (B y)", 4},
		{"two terminals", "a b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.input)
			assert.Nil(t, tree)
			require.ErrorIs(t, err, ErrMalformedTree)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantPos, pe.Pos)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("(S") })
	assert.NotPanics(t, func() { MustParse(cowTree) })
}

// Literal parentheses in terminals are written as -LRB-/-RRB- and read back
// as parentheses, so a terminal that really is "-LRB-" does not survive.
func TestParseParenTokensAreLossy(t *testing.T) {
	tree := New("X", New("("), New("-LRB-"))
	s := tree.String()
	assert.Equal(t, "(X -LRB- -LRB-)", s)

	back, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"(", "("}, back.Words())
	assert.False(t, tree.Equal(back))
}

func TestParseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		tree := randomTree(rng, 4)
		back, err := Parse(tree.String())
		require.NoError(t, err, tree.String())
		assert.True(t, tree.Equal(back), "%s != %s", tree, back)
		assert.Equal(t, tree.Len(), back.Len())
	}
}

func randomTree(rng *rand.Rand, depth int) *Node {
	if depth == 0 || rng.Intn(4) == 0 {
		return New(fmt.Sprintf("w%d", rng.Intn(100)))
	}
	kids := make([]*Node, 1+rng.Intn(3))
	for i := range kids {
		kids[i] = randomTree(rng, depth-1)
	}
	return New(fmt.Sprintf("N%d", rng.Intn(10)), kids...)
}
